package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trimport/trimport/internal/plan"
	"github.com/trimport/trimport/pkg/types"
)

var minifyPlanOut string

var minifyPlanCmd = &cobra.Command{
	Use:   "minify-plan <file.py>",
	Short: "Emit the rename/docstring plan for a single file without applying it",
	Args:  cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := os.ReadFile(path)
		if err != nil {
			return &types.ExitError{Code: types.ExitAnalysisError, Message: fmt.Sprintf("reading %s: %v", path, err)}
		}

		mp, err := planFile(path, src)
		if err != nil {
			return err
		}

		data, err := plan.Encode(mp)
		if err != nil {
			return err
		}

		if minifyPlanOut == "" {
			_, err := cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(minifyPlanOut, data, 0o644)
	},
}

func init() {
	minifyPlanCmd.Flags().StringVarP(&minifyPlanOut, "output", "o", "", "write the plan to this path instead of stdout")
	rootCmd.AddCommand(minifyPlanCmd)
}
