package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trimport/trimport/internal/report"
	"github.com/trimport/trimport/internal/scope"
	"github.com/trimport/trimport/internal/walk"
	"github.com/trimport/trimport/pkg/types"
)

// countRenames sums the renames planned across every non-bailout function.
func countRenames(mp *scope.ModulePlan) int {
	n := 0
	for _, fp := range mp.Functions {
		if !fp.Bailout {
			n += len(fp.Renames)
		}
	}
	return n
}

var (
	minifyDirDir    dirFlags
	minifyDirReport reportFlags
	minifyDirFail   rewriteFlags
)

var minifyDirCmd = &cobra.Command{
	Use:   "minify-dir <root>",
	Short: "Plan and apply renames/docstring-stripping across a directory tree",
	Args:  cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		minifyDirDir.applyProjectConfig(cmd, projectConfig)
		minifyDirReport.applyProjectConfig(cmd, projectConfig)
		minifyDirFail.applyProjectConfig(cmd, projectConfig)

		root := args[0]
		policy, err := buildPolicy(minifyDirDir)
		if err != nil {
			return &types.ExitError{Code: types.ExitInvalidArgs, Message: err.Error()}
		}

		outRoot := minifyDirDir.outDir
		inPlace := outRoot == ""
		if !inPlace {
			if err := walk.ValidateOutputPath(root, outRoot); err != nil {
				return &types.ExitError{Code: types.ExitInvalidArgs, Message: err.Error()}
			}
		}

		stats := &report.Stats{}
		outcomes, err := walk.Run(context.Background(), root, policy, func(_ context.Context, rel string) (report.FileEntry, error) {
			return minifyOneFile(root, rel, outRoot, minifyDirFail)
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

		if err := emitReport(cmd, stats, minifyDirReport); err != nil {
			return err
		}
		return checkFailTriggers(stats, minifyDirReport)
	},
}

func init() {
	minifyDirDir.register(minifyDirCmd)
	minifyDirReport.register(minifyDirCmd)
	minifyDirCmd.Flags().BoolVar(&minifyDirFail.inPlace, "in-place", false, "write rewritten files back in place (default when --out-dir is unset)")
	minifyDirCmd.Flags().StringVar(&minifyDirFail.backupExt, "backup-ext", "", "rename the original file with this suffix before an in-place write")
	minifyDirCmd.Flags().BoolVar(&minifyDirFail.dryRun, "dry-run", false, "compute rewrites but skip writing any output")
	rootCmd.AddCommand(minifyDirCmd)
}

func buildPolicy(f dirFlags) (walk.Policy, error) {
	include := f.include
	exclude := f.exclude
	if f.includeFile != "" {
		patterns, err := readGlobFile(f.includeFile)
		if err != nil {
			return walk.Policy{}, err
		}
		include = append(include, patterns...)
	}
	if f.excludeFile != "" {
		patterns, err := readGlobFile(f.excludeFile)
		if err != nil {
			return walk.Policy{}, err
		}
		exclude = append(exclude, patterns...)
	}
	return walk.Policy{
		Include:          include,
		Exclude:          exclude,
		MaxDepth:         f.maxDepth,
		IncludeHidden:    f.includeHidden,
		FollowSymlinks:   f.followSymlinks,
		CaseInsensitive:  f.globCaseInsens,
		RespectGitignore: f.respectGitignore,
		Jobs:             f.jobs,
	}, nil
}

// readGlobFile reads newline-separated globs, skipping blank lines and
// `#`-prefixed comments (spec §6 "--include-file PATH...(newline-delimited,
// # comments)").
func readGlobFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

func minifyOneFile(root, rel, outRoot string, f rewriteFlags) (report.FileEntry, error) {
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

	mp, err := planFile(abs, src)
	if err != nil {
		if pf, ok := asParseFailure(err); ok {
			return report.FileEntry{Path: rel, Status: report.StatusError, Error: pf.Error()}, nil
		}
		return report.FileEntry{}, err
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

