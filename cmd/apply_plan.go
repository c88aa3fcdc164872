package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trimport/trimport/internal/plan"
	"github.com/trimport/trimport/pkg/types"
)

var applyPlanFlags rewriteFlags
var applyPlanPath string

var applyPlanCmd = &cobra.Command{
	Use:   "apply-plan <file.py>",
	Short: "Apply a previously emitted plan to source text",
	Args:  cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyPlanFlags.applyProjectConfig(cmd, projectConfig)

		if applyPlanPath == "" {
			return &types.ExitError{Code: types.ExitInvalidArgs, Message: "--plan is required"}
		}

		path, src, err := readRewriteInput(cmd, args, applyPlanFlags)
		if err != nil {
			return err
		}

		planData, err := os.ReadFile(applyPlanPath)
		if err != nil {
			return &types.ExitError{Code: types.ExitAnalysisError, Message: fmt.Sprintf("reading %s: %v", applyPlanPath, err)}
		}
		mp, err := plan.Decode(applyPlanPath, planData)
		if err != nil {
			return err
		}

		info := rewriteEncodingOf(src)
		body, err := decodeForParse(src, info)
		if err != nil {
			return &types.ParseFailure{Path: path, Message: err.Error()}
		}

		rewritten, err := applyPlanToBody(path, body, mp)
		if err != nil {
			return err
		}

		out, err := encodeForWrite(rewritten, info)
		if err != nil {
			return &types.ExitError{Code: types.ExitIOError, Message: err.Error()}
		}

		return writeRewriteOutput(cmd, path, src, out, applyPlanFlags)
	},
}

func init() {
	applyPlanFlags.register(applyPlanCmd)
	applyPlanCmd.Flags().StringVar(&applyPlanPath, "plan", "", "path to a plan JSON document produced by minify-plan")
	rootCmd.AddCommand(applyPlanCmd)
}
