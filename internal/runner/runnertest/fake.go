// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Louisamayh/browseragentB-HInd/internal/runner"
)

// Result is the scripted outcome of one command line.
type Result struct {
	Output []byte
	Err    error
	Code   int
	// Hook runs before the result is returned, e.g. to create files a real tool would.
	Hook func(name string, args []string)
}

// Fake matches each invocation's command line ("name arg1 arg2") against its
// scripted prefixes, longest first. Unmatched commands fail as "executable not found".
type Fake struct {
	mu      sync.Mutex
	results map[string]Result
	calls   []string
	runs    []runner.Command
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{results: make(map[string]Result)}
}

// On scripts the result for every command line starting with prefix.
func (f *Fake) On(prefix string, r Result) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[prefix] = r
	return f
}

// Calls returns every command line seen so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Runs returns the Command values passed to Run.
func (f *Fake) Runs() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runner.Command(nil), f.runs...)
}

// Called reports whether any invocation started with prefix.
func (f *Fake) Called(prefix string) bool {
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func (f *Fake) lookup(name string, args []string) (Result, bool) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))

	f.mu.Lock()
	f.calls = append(f.calls, line)
	best, found := "", false
	for prefix := range f.results {
		if strings.HasPrefix(line, prefix) && len(prefix) >= len(best) {
			best, found = prefix, true
		}
	}
	r := f.results[best]
	f.mu.Unlock()

	if found && r.Hook != nil {
		r.Hook(name, args)
	}
	return r, found
}

// Output implements runner.Runner.
func (f *Fake) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	r, ok := f.lookup(name, args)
	if !ok {
		return nil, fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	if r.Err == nil && r.Code != 0 {
		return r.Output, fmt.Errorf("exit status %d", r.Code)
	}
	return r.Output, r.Err
}

// Run implements runner.Runner.
func (f *Fake) Run(_ context.Context, cmd runner.Command) (int, error) {
	f.mu.Lock()
	f.runs = append(f.runs, cmd)
	f.mu.Unlock()

	r, ok := f.lookup(cmd.Name, cmd.Args)
	if !ok {
		return -1, fmt.Errorf("exec: %q: executable file not found in $PATH", cmd.Name)
	}
	if r.Err != nil {
		return -1, r.Err
	}
	return r.Code, nil
}
