// Package launch starts the application with the isolated environment's interpreter.
// It never delegates unless the environment and the credential file both exist.
package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/Louisamayh/browseragentB-HInd/internal/config"
	"github.com/Louisamayh/browseragentB-HInd/internal/logger"
	"github.com/Louisamayh/browseragentB-HInd/internal/runner"
	"github.com/Louisamayh/browseragentB-HInd/internal/secret"
	"github.com/Louisamayh/browseragentB-HInd/internal/venv"
)

var (
	// ErrEnvMissing means no environment directory (or no interpreter inside it) was found.
	ErrEnvMissing = errors.New("virtual environment not found")
	// ErrConfigMissing means the credential file is absent.
	ErrConfigMissing = errors.New("configuration file not found")
	// ErrLauncherMissing means the delegated program is absent.
	ErrLauncherMissing = errors.New("launcher program not found")
)

// Target is what a successful precondition check resolves to.
type Target struct {
	Python  string
	Script  string
	EnvFile string
	Dir     string
}

// Launcher delegates to the configured launcher script.
type Launcher struct {
	Config config.Config
	Runner runner.Runner
	// Environ supplies the base child environment; nil means os.Environ.
	Environ func() []string
}

// Check verifies every precondition without starting anything.
func (l *Launcher) Check() (Target, error) {
	cfg := l.Config

	dir, err := venv.Locate(cfg.VenvCandidates()...)
	if err != nil {
		return Target{}, fmt.Errorf("%w in %s. Please run `callm setup` first", ErrEnvMissing, cfg.Root)
	}
	python := venv.PythonPath(dir)
	if _, err := os.Stat(python); err != nil {
		return Target{}, fmt.Errorf("%w: no interpreter at %s. Please run `callm setup` again", ErrEnvMissing, python)
	}

	envFile := cfg.Path(cfg.EnvFile)
	if !secret.Exists(envFile) {
		return Target{}, fmt.Errorf("%w: %s. Please run `callm setup` first, or create it with a line %s=your_key_here",
			ErrConfigMissing, envFile, cfg.CredentialKey)
	}

	script := cfg.Path(cfg.LauncherScript)
	if _, err := os.Stat(script); err != nil {
		return Target{}, fmt.Errorf("%w: %s", ErrLauncherMissing, script)
	}

	return Target{
		Python:  absOr(python),
		Script:  absOr(script),
		EnvFile: envFile,
		Dir:     absOr(cfg.Root),
	}, nil
}

// Run checks preconditions, then runs "<env python> <script> args..." in the foreground
// and returns the program's exit code. Interrupts reach the child through the terminal;
// callm itself ignores them until the child has exited.
func (l *Launcher) Run(ctx context.Context, args []string) (int, error) {
	target, err := l.Check()
	if err != nil {
		return 1, err
	}

	r := l.Runner
	if r == nil {
		r = runner.Exec{}
	}

	env := l.environ()
	if l.Config.LoadEnvFile {
		if vals, err := secret.Read(target.EnvFile); err != nil {
			logger.Warn("[WARN] %v. Starting without it.\n", err)
		} else {
			env = secret.MergeEnv(env, vals)
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer func() {
		signal.Stop(sigs)
		close(sigs)
	}()
	go func() {
		for range sigs {
			logger.Debug("[DEBUG] Interrupt received, waiting for %s to exit\n", filepath.Base(target.Script))
		}
	}()

	logger.Info("[INFO] Starting %s...\n", l.Config.AppName)
	code, err := r.Run(ctx, runner.Command{
		Name: target.Python,
		Args: append([]string{target.Script}, args...),
		Dir:  target.Dir,
		Env:  env,
	})
	if err != nil {
		return 1, fmt.Errorf("start %s: %w", target.Script, err)
	}
	if code < 0 {
		// Terminated by a signal: there is no exit status to pass on
		logger.Warn("[WARN] %s was terminated\n", filepath.Base(target.Script))
		return 1, nil
	}
	if code != 0 {
		logger.Error("[ERROR] %s exited with status %d\n", filepath.Base(target.Script), code)
	}
	return code, nil
}

func (l *Launcher) environ() []string {
	if l.Environ != nil {
		return l.Environ()
	}
	return os.Environ()
}

func absOr(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
