// Package venv creates and locates the isolated Python environment.
// The directory is opaque here: it is only ever removed wholesale and recreated.
package venv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Louisamayh/browseragentB-HInd/internal/logger"
	"github.com/Louisamayh/browseragentB-HInd/internal/probe"
	"github.com/Louisamayh/browseragentB-HInd/internal/runner"
)

// ErrNotFound is returned by Locate when none of the candidate directories exist.
var ErrNotFound = errors.New("virtual environment not found")

// Build removes dir if present and creates a fresh environment with "<interp> -m venv <dir>".
// It returns the path of the environment's own interpreter.
func Build(ctx context.Context, r runner.Runner, interp probe.Interpreter, dir string) (string, error) {
	if _, err := os.Stat(dir); err == nil {
		logger.Info("[INFO] Removing existing environment %s\n", dir)
		if err := os.RemoveAll(dir); err != nil {
			return "", fmt.Errorf("remove existing environment %s: %w", dir, err)
		}
	}

	logger.Info("[INFO] Creating virtual environment %s with %s\n", dir, interp)
	args := append(append([]string{}, interp.Args()...), "-m", "venv", dir)
	if out, err := r.Output(ctx, interp.Name(), args...); err != nil {
		return "", fmt.Errorf("create environment %s: %w\nOutput: %s", dir, err, out)
	}

	py := PythonPath(dir)
	if _, err := os.Stat(py); err != nil {
		return "", fmt.Errorf("environment %s has no interpreter at %s: %w", dir, py, err)
	}
	logger.Debug("[DEBUG] Environment interpreter: %s\n", py)
	return py, nil
}

// PythonPath returns the interpreter inside an environment directory for the running OS.
func PythonPath(dir string) string {
	return pythonPathFor(runtime.GOOS, dir)
}

func pythonPathFor(goos, dir string) string {
	if goos == "windows" {
		return filepath.Join(dir, "Scripts", "python.exe")
	}
	return filepath.Join(dir, "bin", "python")
}

// Locate returns the first existing directory among candidates.
func Locate(candidates ...string) (string, error) {
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("%w (looked for %v)", ErrNotFound, candidates)
}
