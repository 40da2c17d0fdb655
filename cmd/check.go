package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Louisamayh/browseragentB-HInd/internal/installer"
	"github.com/Louisamayh/browseragentB-HInd/internal/logger"
	"github.com/Louisamayh/browseragentB-HInd/internal/preflight"
	"github.com/Louisamayh/browseragentB-HInd/internal/probe"
	"github.com/Louisamayh/browseragentB-HInd/internal/runner"
	"github.com/Louisamayh/browseragentB-HInd/internal/secret"
	"github.com/Louisamayh/browseragentB-HInd/internal/state"
)

// errNotReady is returned by `callm check` when launch would refuse to start.
var errNotReady = errors.New("not ready to launch")

var checkRunner runner.Runner = runner.Exec{}

// newCheckCmd builds `callm check`, which reports every setup artifact without changing anything.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether setup has completed and launch can start",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if interp, err := probe.Find(ctx, checkRunner, cfg.Interpreters, cfg.MinPython); err != nil {
				logger.Warn("[WARN] Interpreter: %v\n", err)
			} else {
				logger.Info("[INFO] Interpreter: %s (Python %s)\n", interp, interp.Version)
			}

			if err := installer.CheckManifest(cfg.Path(cfg.Manifest)); err != nil {
				logger.Warn("[WARN] Manifest: %v\n", err)
			} else {
				logger.Info("[INFO] Manifest: %s\n", cfg.Path(cfg.Manifest))
			}

			if r, err := preflight.CheckDisk(ctx, nil, cfg.Root, cfg.MinFreeMB); err == nil {
				if r.Low {
					logger.Warn("[WARN] Disk: %s\n", r)
				} else {
					logger.Info("[INFO] Disk: %s\n", r)
				}
			}

			envFile := cfg.Path(cfg.EnvFile)
			if secret.Exists(envFile) {
				vals, err := secret.Read(envFile)
				switch {
				case err != nil:
					logger.Warn("[WARN] Credential: %v\n", err)
				case vals[cfg.CredentialKey] == "":
					logger.Warn("[WARN] Credential: %s has no %s entry\n", envFile, cfg.CredentialKey)
				default:
					logger.Info("[INFO] Credential: %s set in %s\n", cfg.CredentialKey, envFile)
				}
			}

			if st, ok := state.LoadState(cfg.Path(cfg.StateFile)); ok {
				logger.Info("[INFO] Last setup: %s with %s (Python %s)\n",
					st.CompletedAt.Local().Format("2006-01-02 15:04"), st.Interpreter, st.PythonVersion)
			} else {
				logger.Info("[INFO] Last setup: no record\n")
			}

			target, err := newLauncher().Check()
			if err != nil {
				logger.Error("[ERROR] %v\n", err)
				return errNotReady
			}
			logger.Info("[INFO] Ready: %s %s\n", target.Python, target.Script)
			return nil
		},
	}
}
