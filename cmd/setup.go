package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Louisamayh/browseragentB-HInd/internal/runner"
	"github.com/Louisamayh/browseragentB-HInd/internal/secret"
	"github.com/Louisamayh/browseragentB-HInd/internal/setup"
)

// newSetupFlow is swapped by tests to inject fakes.
var newSetupFlow = func() *setup.Flow {
	return &setup.Flow{
		Config:   cfg,
		Runner:   runner.Exec{},
		Prompter: secret.NewTermPrompter(),
	}
}

// newSetupCmd builds `callm setup`: interpreter, environment, dependencies,
// credential and desktop shortcut, in that order.
func newSetupCmd() *cobra.Command {
	var opts setup.Options

	c := &cobra.Command{
		Use:   "setup",
		Short: "Create the Python environment, install dependencies and configure the API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Ctrl-C cancels the running step (pip, venv) instead of leaving it orphaned
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			_, err := newSetupFlow().Run(ctx, opts)
			return err
		},
	}

	f := c.Flags()
	f.BoolVarP(&opts.AssumeYes, "yes", "y", false, "Answer yes to the API key question and go straight to the prompt")
	f.BoolVar(&opts.NoPrompt, "no-prompt", false, "Never prompt; only use --api-key or the key's environment variable")
	f.StringVar(&opts.APIKey, "api-key", "", "API key to store when the configuration file does not exist yet")
	f.BoolVar(&opts.VerifyKey, "verify-key", false, "Check the stored API key against the Gemini API")
	f.BoolVar(&opts.SkipShortcut, "skip-shortcut", false, "Do not create a desktop shortcut")
	f.StringVar(&opts.Wheelhouse, "wheelhouse", "", "Install offline from a wheel directory, archive, or archive URL")
	c.MarkFlagsMutuallyExclusive("yes", "no-prompt")
	return c
}
