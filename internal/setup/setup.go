// Package setup runs the first-run bootstrap: probe, environment, dependencies,
// credential, shortcut. Steps run strictly in order and the first fatal failure stops the run.
package setup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Louisamayh/browseragentB-HInd/internal/config"
	"github.com/Louisamayh/browseragentB-HInd/internal/installer"
	"github.com/Louisamayh/browseragentB-HInd/internal/logger"
	"github.com/Louisamayh/browseragentB-HInd/internal/preflight"
	"github.com/Louisamayh/browseragentB-HInd/internal/probe"
	"github.com/Louisamayh/browseragentB-HInd/internal/runner"
	"github.com/Louisamayh/browseragentB-HInd/internal/secret"
	"github.com/Louisamayh/browseragentB-HInd/internal/shortcut"
	"github.com/Louisamayh/browseragentB-HInd/internal/state"
	"github.com/Louisamayh/browseragentB-HInd/internal/venv"
)

// ShortcutFunc creates the desktop shortcut and returns its path.
type ShortcutFunc func(ctx context.Context, r runner.Runner, req shortcut.Request) (string, error)

// Flow holds the collaborators of one setup run. Zero-valued optional fields fall back
// to the real implementations.
type Flow struct {
	Config     config.Config
	Runner     runner.Runner
	Prompter   secret.Prompter
	Verifier   secret.Verifier
	DiskUsage  preflight.UsageFunc
	Shortcut   ShortcutFunc
	Executable string // callm binary the Windows shortcut points at
	Now        func() time.Time
}

// Options are the per-run switches exposed as setup flags.
type Options struct {
	APIKey       string
	NoPrompt     bool
	AssumeYes    bool
	VerifyKey    bool
	SkipShortcut bool
	Wheelhouse   string
}

// Result summarises a successful run.
type Result struct {
	Interpreter probe.Interpreter
	Python      string
	Credential  secret.Outcome
	Shortcut    string
}

// Run executes the setup sequence. A returned error is always fatal.
func (f *Flow) Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := f.Config
	r := f.Runner
	if r == nil {
		r = runner.Exec{}
	}
	res := &Result{}

	logger.Info("[INFO] Setting up %s in %s\n", cfg.AppName, cfg.Root)

	// ----- Preflight -----
	report, err := preflight.CheckDisk(ctx, f.DiskUsage, cfg.Root, cfg.MinFreeMB)
	switch {
	case err != nil:
		logger.Debug("[DEBUG] Skipping disk check: %v\n", err)
	case report.Low:
		logger.Warn("[WARN] Low disk space: %s. Installation may fail.\n", report)
	default:
		logger.Debug("[DEBUG] Disk check: %s\n", report)
	}

	// ----- Interpreter -----
	interp, err := probe.Find(ctx, r, cfg.Interpreters, cfg.MinPython)
	if err != nil {
		return nil, fmt.Errorf("%w. Install Python %s or newer and re-run setup", err, cfg.MinPython)
	}
	res.Interpreter = interp

	// The manifest is checked before the old environment is destroyed
	manifest := cfg.Path(cfg.Manifest)
	if err := installer.CheckManifest(manifest); err != nil {
		return nil, err
	}

	// ----- Environment -----
	python, err := venv.Build(ctx, r, interp, cfg.Path(cfg.VenvDir))
	if err != nil {
		return nil, err
	}
	res.Python = python

	// ----- Dependencies -----
	if err := installer.Install(ctx, r, python, manifest, installer.Options{Wheelhouse: opts.Wheelhouse}); err != nil {
		return nil, err
	}

	// ----- Credential -----
	envFile := cfg.Path(cfg.EnvFile)
	value := opts.APIKey
	if value == "" {
		value = os.Getenv(cfg.CredentialKey)
	}
	outcome, err := secret.Configure(envFile, cfg.CredentialKey, secret.Options{
		Value:     value,
		NoPrompt:  opts.NoPrompt,
		AssumeYes: opts.AssumeYes,
		Prompter:  f.Prompter,
	})
	if err != nil {
		return nil, err
	}
	res.Credential = outcome
	if opts.VerifyKey {
		f.verifyCredential(ctx, envFile, cfg.CredentialKey)
	}

	// ----- Shortcut -----
	if opts.SkipShortcut {
		logger.Info("[INFO] Skipping desktop shortcut\n")
	} else {
		res.Shortcut = f.installShortcut(ctx, r)
	}

	// ----- State -----
	f.saveState(res, manifest)

	logger.Info("[INFO] Setup complete. Start %s with: callm launch\n", cfg.AppName)
	return res, nil
}

// verifyCredential checks the stored key against the API. Problems are warnings only.
func (f *Flow) verifyCredential(ctx context.Context, envFile, key string) {
	if !secret.Exists(envFile) {
		logger.Warn("[WARN] No %s to verify\n", envFile)
		return
	}
	vals, err := secret.Read(envFile)
	if err != nil {
		logger.Warn("[WARN] %v\n", err)
		return
	}
	v := f.Verifier
	if v == nil {
		v = secret.GeminiVerifier{Timeout: 15 * time.Second}
	}
	if err := v.Verify(ctx, vals[key]); err != nil {
		logger.Warn("[WARN] %s was not accepted: %v\n", key, err)
		return
	}
	logger.Info("[INFO] %s verified\n", key)
}

// installShortcut never fails the run; a missing desktop or bundle is reported and skipped.
func (f *Flow) installShortcut(ctx context.Context, r runner.Runner) string {
	cfg := f.Config
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		root = cfg.Root
	}

	exe := f.Executable
	if exe == "" {
		if exe, err = os.Executable(); err != nil {
			logger.Warn("[WARN] Cannot locate callm executable for shortcut: %v\n", err)
			return ""
		}
	}

	req := shortcut.Request{
		Name:    cfg.LinkName(),
		Target:  exe,
		Args:    "launch",
		WorkDir: root,
		Bundle:  cfg.BundlePath(),
	}
	if icon := cfg.Path(cfg.AppName + ".ico"); fileExists(icon) {
		req.Icon = icon
	}

	install := f.Shortcut
	if install == nil {
		install = shortcut.Install
	}
	link, err := install(ctx, r, req)
	if err != nil {
		logger.Warn("[WARN] Desktop shortcut not created: %v\n", err)
		return ""
	}
	return link
}

func (f *Flow) saveState(res *Result, manifest string) {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	sum, err := state.HashFile(manifest)
	if err != nil {
		logger.Debug("[DEBUG] Cannot hash %s: %v\n", manifest, err)
	}
	st := &state.State{
		Interpreter:     res.Interpreter.String(),
		PythonVersion:   res.Interpreter.Version,
		VenvPath:        f.Config.Path(f.Config.VenvDir),
		ManifestSHA256:  sum,
		CredentialSaved: res.Credential == secret.Written,
		ShortcutPath:    res.Shortcut,
		CompletedAt:     now().UTC(),
	}
	if f.Config.StateFile == "" {
		return
	}
	if err := state.SaveState(f.Config.Path(f.Config.StateFile), st); err != nil {
		logger.Warn("[WARN] %v\n", err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
