package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trimport/trimport/internal/plan"
	"github.com/trimport/trimport/internal/report"
	"github.com/trimport/trimport/internal/scope"
	"github.com/trimport/trimport/internal/walk"
	"github.com/trimport/trimport/pkg/types"
)

var (
	applyPlanDirDir    dirFlags
	applyPlanDirReport reportFlags
	applyPlanDirFail   rewriteFlags
	applyPlanDirPath   string
)

var applyPlanDirCmd = &cobra.Command{
	Use:   "apply-plan-dir <root>",
	Short: "Apply a plan bundle produced by minify-plan-dir across a directory tree",
	Args:  cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyPlanDirDir.applyProjectConfig(cmd, projectConfig)
		applyPlanDirReport.applyProjectConfig(cmd, projectConfig)
		applyPlanDirFail.applyProjectConfig(cmd, projectConfig)

		if applyPlanDirPath == "" {
			return &types.ExitError{Code: types.ExitInvalidArgs, Message: "--plan is required"}
		}
		root := args[0]

		data, err := os.ReadFile(applyPlanDirPath)
		if err != nil {
			return &types.ExitError{Code: types.ExitAnalysisError, Message: fmt.Sprintf("reading %s: %v", applyPlanDirPath, err)}
		}
		bundle, err := plan.DecodeBundle(applyPlanDirPath, data)
		if err != nil {
			return err
		}
		plans := make(map[string]*scope.ModulePlan, len(bundle.Entries))
		for _, e := range bundle.Entries {
			plans[e.Path] = e.Plan
		}

		policy, err := buildPolicy(applyPlanDirDir)
		if err != nil {
			return &types.ExitError{Code: types.ExitInvalidArgs, Message: err.Error()}
		}

		outRoot := applyPlanDirDir.outDir
		if outRoot != "" {
			if err := walk.ValidateOutputPath(root, outRoot); err != nil {
				return &types.ExitError{Code: types.ExitInvalidArgs, Message: err.Error()}
			}
		}

		stats := &report.Stats{}
		outcomes, err := walk.Run(context.Background(), root, policy, func(_ context.Context, rel string) (report.FileEntry, error) {
			mp, ok := plans[rel]
			if !ok {
				return report.FileEntry{Path: rel, Status: report.StatusUnchanged}, nil
			}
			return applyPlanOneFile(root, rel, outRoot, mp, applyPlanDirFail)
		})
		if err != nil {
			return &types.ExitError{Code: types.ExitAnalysisError, Message: err.Error()}
		}
		for _, o := range outcomes {
			entry := o.Value
			if o.Err != nil {
				entry = report.FileEntry{Path: o.Path, Status: report.StatusError, Error: o.Err.Error()}
			}
			stats.Add(entry)
		}

		if err := emitReport(cmd, stats, applyPlanDirReport); err != nil {
			return err
		}
		return checkFailTriggers(stats, applyPlanDirReport)
	},
}

func init() {
	applyPlanDirDir.register(applyPlanDirCmd)
	applyPlanDirReport.register(applyPlanDirCmd)
	applyPlanDirCmd.Flags().StringVar(&applyPlanDirPath, "plan", "", "path to a plan bundle produced by minify-plan-dir")
	applyPlanDirCmd.Flags().BoolVar(&applyPlanDirFail.dryRun, "dry-run", false, "compute rewrites but skip writing any output")
	applyPlanDirCmd.Flags().StringVar(&applyPlanDirFail.backupExt, "backup-ext", "", "rename the original file with this suffix before an in-place write")
	rootCmd.AddCommand(applyPlanDirCmd)
}

func applyPlanOneFile(root, rel, outRoot string, mp *scope.ModulePlan, f rewriteFlags) (report.FileEntry, error) {
	abs := filepath.Join(root, rel)
	src, err := os.ReadFile(abs)
	if err != nil {
		return report.FileEntry{}, err
	}

	info := rewriteEncodingOf(src)
	body, err := decodeForParse(src, info)
	if err != nil {
		return report.FileEntry{Path: rel, Status: report.StatusError, Error: err.Error()}, nil
	}

	rewritten, err := applyPlanToBody(abs, body, mp)
	if err != nil {
		return report.FileEntry{Path: rel, Status: report.StatusError, Error: err.Error()}, nil
	}

	out, err := encodeForWrite(rewritten, info)
	if err != nil {
		return report.FileEntry{Path: rel, Status: report.StatusError, Error: err.Error()}, nil
	}

	renamed := countRenames(mp)
	unchanged := string(out) == string(src)

	if !f.dryRun {
		dest := abs
		if outRoot != "" {
			dest = filepath.Join(outRoot, rel)
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return report.FileEntry{}, err
			}
		} else if f.backupExt != "" && !unchanged {
			if err := os.WriteFile(abs+f.backupExt, src, 0o644); err != nil {
				return report.FileEntry{}, err
			}
		}
		if outRoot != "" || !unchanged {
			if err := os.WriteFile(dest, out, 0o644); err != nil {
				return report.FileEntry{}, err
			}
		}
	}

	bailouts := 0
	for _, fp := range mp.Functions {
		if fp.Bailout {
			bailouts++
		}
	}

	status := report.StatusRewritten
	if unchanged {
		status = report.StatusUnchanged
	}
	return report.FileEntry{Path: rel, Status: status, RenamedCount: renamed, BailoutFunctions: bailouts}, nil
}
