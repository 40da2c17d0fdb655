package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Louisamayh/browseragentB-HInd/internal/config"
	"github.com/Louisamayh/browseragentB-HInd/internal/logger"
)

// Global flag values shared by every subcommand.
var (
	debug      bool   // --debug enables verbose logging
	configPath string // --config / -c names the YAML configuration file
	rootDir    string // --root points at the application directory
)

// cfg is the effective configuration, loaded once before any subcommand runs.
var cfg config.Config

// newRootCmd builds the base command for the CLI tool `callm` with every subcommand attached.
// Building it fresh resets all flag values.
func newRootCmd() *cobra.Command {
	c := &cobra.Command{
		Use:           "callm",
		Short:         "Set up and launch CallM_BH",
		SilenceUsage:  true,
		SilenceErrors: true,

		// PersistentPreRunE initializes logging and loads configuration before any subcommand.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(debug)

			path, required := configPath, cmd.Flags().Changed("config")
			if !required {
				path = filepath.Join(rootDir, config.DefaultFile)
			}
			loaded, err := config.Load(path, required)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("root") || loaded.Root == "" {
				loaded.Root = rootDir
			}
			cfg = loaded
			logger.Debug("[DEBUG] Effective config: %+v\n", cfg)
			return nil
		},
	}

	c.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	c.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFile, "Path to configuration file")
	c.PersistentFlags().StringVar(&rootDir, "root", ".", "Application directory")

	// Accept --skip_shortcut as well as --skip-shortcut
	c.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	c.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	c.AddCommand(newSetupCmd(), newLaunchCmd(), newCheckCmd())
	return c
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return run(newRootCmd())
}

func run(c *cobra.Command) int {
	err := c.Execute()
	if err == nil {
		return 0
	}

	var exit *ExitError
	if errors.As(err, &exit) {
		// The delegated program already reported its own failure
		return exit.Code
	}

	logger.Error("[ERROR] %v\n", err)
	var usage *usageError
	if errors.As(err, &usage) || strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintln(c.ErrOrStderr(), "Run 'callm --help' for usage.")
		return 2
	}
	return 1
}
