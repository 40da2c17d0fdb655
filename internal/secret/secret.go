// Package secret manages the single-line credential file the application reads its API key from.
package secret

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Louisamayh/browseragentB-HInd/internal/logger"
)

// Outcome reports what Configure did with the credential file.
type Outcome int

const (
	// Existing means the file was already present and left untouched.
	Existing Outcome = iota
	// Written means a new file was created with the credential.
	Written
	// Declined means the user chose not to enter a credential.
	Declined
	// Skipped means no value was supplied and prompting was not possible.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Existing:
		return "existing"
	case Written:
		return "written"
	case Declined:
		return "declined"
	case Skipped:
		return "skipped"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Options controls how Configure obtains a credential.
//   - Value: credential supplied up front (flag or environment); no prompt when set.
//   - NoPrompt: never ask, even on a terminal.
//   - AssumeYes: skip the yes/no question and go straight to the value prompt.
//   - Prompter: interactive source; nil means non-interactive.
type Options struct {
	Value     string
	NoPrompt  bool
	AssumeYes bool
	Prompter  Prompter
}

// Exists reports whether the credential file is present. Launch gates on this alone.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Configure creates the credential file at path holding key, unless it already exists.
// Declining or skipping is not an error: the file simply stays absent.
func Configure(path, key string, opts Options) (Outcome, error) {
	if Exists(path) {
		logger.Info("[INFO] %s already exists. Leaving it untouched.\n", path)
		return Existing, nil
	}

	value := opts.Value
	if value == "" {
		if opts.NoPrompt || opts.Prompter == nil || !opts.Prompter.Interactive() {
			logger.Warn("[WARN] No %s provided and no terminal to ask on. Skipping %s.\n", key, path)
			return Skipped, nil
		}

		if !opts.AssumeYes {
			ok, err := opts.Prompter.Confirm(fmt.Sprintf("Do you want to enter your %s now?", key))
			if err != nil {
				return Skipped, fmt.Errorf("read answer: %w", err)
			}
			if !ok {
				logger.Info("[INFO] Skipped. Create %s later with a line %s=your_key_here\n", path, key)
				return Declined, nil
			}
		}

		v, err := opts.Prompter.Secret(fmt.Sprintf("Enter your %s: ", key))
		if err != nil {
			return Skipped, fmt.Errorf("read %s: %w", key, err)
		}
		value = strings.TrimSpace(v)
		if value == "" {
			logger.Info("[INFO] Empty value. Create %s later with a line %s=your_key_here\n", path, key)
			return Declined, nil
		}
	}

	if err := Write(path, key, value); err != nil {
		return Skipped, err
	}
	logger.Info("[INFO] Saved %s to %s\n", key, path)
	return Written, nil
}

// Write creates path containing exactly "key=value\n" with owner-only permissions.
// It refuses to overwrite an existing file.
func Write(path, key, value string) error {
	if strings.ContainsAny(key, "=\r\n \t") || key == "" {
		return fmt.Errorf("invalid credential key %q", key)
	}
	if strings.ContainsAny(value, "\r\n") {
		return errors.New("credential value must be a single line")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s already exists", path)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Read parses the credential file into its key/value pairs.
func Read(path string) (map[string]string, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return vals, nil
}

// MergeEnv returns base with every entry of vals appended whose key is not already set in base.
// Variables already present in the process environment win, as with godotenv.Load.
func MergeEnv(base []string, vals map[string]string) []string {
	set := make(map[string]bool, len(base))
	for _, kv := range base {
		if i := strings.IndexByte(kv, '='); i > 0 {
			set[kv[:i]] = true
		}
	}
	out := append([]string(nil), base...)
	for k, v := range vals {
		if !set[k] {
			out = append(out, k+"="+v)
		}
	}
	return out
}
