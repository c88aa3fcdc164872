package cmd

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/trimport/trimport/internal/plan"
	"github.com/trimport/trimport/internal/scope"
	"github.com/trimport/trimport/internal/walk"
	"github.com/trimport/trimport/pkg/types"
)

var (
	minifyPlanDirDir dirFlags
	minifyPlanDirOut string
)

var minifyPlanDirCmd = &cobra.Command{
	Use:   "minify-plan-dir <root>",
	Short: "Emit a plan bundle for every file in a directory tree without applying it",
	Args:  cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		minifyPlanDirDir.applyProjectConfig(cmd, projectConfig)

		root := args[0]
		policy, err := buildPolicy(minifyPlanDirDir)
		if err != nil {
			return &types.ExitError{Code: types.ExitInvalidArgs, Message: err.Error()}
		}

		outcomes, err := walk.Run(context.Background(), root, policy, func(_ context.Context, rel string) (*scope.ModulePlan, error) {
			abs := filepath.Join(root, rel)
			src, err := os.ReadFile(abs)
			if err != nil {
				return nil, err
			}
			return planFile(abs, src)
		})
		if err != nil {
			return &types.ExitError{Code: types.ExitAnalysisError, Message: err.Error()}
		}

		bundle := &plan.Bundle{FormatVersion: plan.SupportedFormatVersion}
		for _, o := range outcomes {
			if o.Err != nil {
				continue // parse failures are skipped in the bundle; use --stats on minify-dir to surface them
			}
			bundle.Entries = append(bundle.Entries, plan.Entry{Path: o.Path, Plan: o.Value})
		}
		sort.Slice(bundle.Entries, func(i, j int) bool { return bundle.Entries[i].Path < bundle.Entries[j].Path })

		data, err := plan.EncodeBundle(bundle)
		if err != nil {
			return err
		}

		if minifyPlanDirOut == "" {
			_, err := cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(minifyPlanDirOut, data, 0o644)
	},
}

func init() {
	minifyPlanDirDir.register(minifyPlanDirCmd)
	minifyPlanDirCmd.Flags().StringVarP(&minifyPlanDirOut, "output", "o", "", "write the plan bundle to this path instead of stdout")
	rootCmd.AddCommand(minifyPlanDirCmd)
}
