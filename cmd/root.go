package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/trimport/trimport/internal/config"
	"github.com/trimport/trimport/pkg/types"
	"github.com/trimport/trimport/pkg/version"
)

var (
	verbose    bool
	quiet      bool
	debug      bool
	configPath string

	// projectConfig holds .trimportrc.yml overrides loaded once in
	// rootCmd's PersistentPreRunE, before any verb's RunE runs. nil when no
	// project config file is present; verb RunE functions merge it into
	// their dirFlags/rewriteFlags/reportFlags via applyProjectConfig.
	projectConfig *config.ProjectConfig
)

var rootCmd = &cobra.Command{
	Use:     "trimport",
	Short:   "Rename function-local Python bindings and slim virtualenvs for token-efficient agent context",
	Long:    "trimport analyzes Python source with a lexically-scoped name collector, plans\nshort, collision-free renames for function-local bindings, rewrites source\nbyte-exactly outside those renames, and slims a virtualenv down to the\ndistributions a given import set actually needs.",
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, err := os.Getwd()
		if err != nil {
			return err
		}
		cfg, err := config.Load(dir, configPath)
		if err != nil {
			return &types.ExitError{Code: types.ExitInvalidArgs, Message: err.Error()}
		}
		projectConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a .trimportrc.yml project config (default: .trimportrc.yml/.yaml in the working directory)")
	rootCmd.SilenceErrors = true
}

// Execute runs the root command and exits with code 1 on error.
// ExitError is handled specially: its Code is used as the exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *types.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
