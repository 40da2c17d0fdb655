package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Louisamayh/browseragentB-HInd/internal/launch"
	"github.com/Louisamayh/browseragentB-HInd/internal/runner"
)

var newLauncher = func() *launch.Launcher {
	return &launch.Launcher{Config: cfg, Runner: runner.Exec{}}
}

// newLaunchCmd builds `callm launch`. Arguments after the command are passed to the launcher script.
func newLaunchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "launch [-- args...]",
		Short: "Start CallM_BH using the environment created by setup",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := newLauncher().Run(cmd.Context(), args)
			if err != nil {
				return err
			}
			if code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		},
	}
	c.Flags().SetInterspersed(false)
	return c
}
