package secret

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Verifier checks that a credential is accepted by the service it belongs to.
type Verifier interface {
	Verify(ctx context.Context, key string) error
}

// GeminiVerifier validates a Google API key by listing the generative models it can see.
type GeminiVerifier struct {
	Timeout time.Duration
}

// Verify implements Verifier.
func (v GeminiVerifier) Verify(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("empty API key")
	}
	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return fmt.Errorf("failed to create genai client: %w", err)
	}
	defer client.Close()

	it := client.ListModels(ctx)
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
