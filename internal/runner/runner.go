// Package runner wraps external process invocation so every setup and launch step
// goes through one seam that tests can replace.
package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Louisamayh/browseragentB-HInd/internal/logger"
)

// Command describes a foreground process whose exit code matters to the caller.
// Nil writers/reader inherit the parent's stdio. Env nil inherits the parent environment.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner executes external programs and blocks until they exit.
type Runner interface {
	// Output runs name with args and returns combined stdout and stderr.
	// A non-zero exit is returned as an error.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Run runs cmd in the foreground and returns its exit code.
	// err is non-nil only when the process could not be started or waited on.
	Run(ctx context.Context, cmd Command) (int, error)
}

// Exec is the os/exec backed Runner.
type Exec struct{}

// Output implements Runner.
func (Exec) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, name, args...)
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(c.Args, " "))
	out, err := c.CombinedOutput()
	logger.Debug("[DEBUG] %s output: %s\n", name, out)
	return out, err
}

// Run implements Runner. The child is not killed when ctx is cancelled;
// cancellation only matters before the process starts.
func (Exec) Run(ctx context.Context, cmd Command) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	c := exec.Command(cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}
	if cmd.Stdout != nil {
		c.Stdout = cmd.Stdout
	}
	if cmd.Stderr != nil {
		c.Stderr = cmd.Stderr
	}
	logger.Debug("[DEBUG] Running command: %s (dir=%s)\n", strings.Join(c.Args, " "), c.Dir)

	err := c.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, err
	}
}

// Split turns a configured command line such as "py -3" into name and arguments.
func Split(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
