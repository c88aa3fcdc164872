package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trimport/trimport/internal/distindex"
	"github.com/trimport/trimport/internal/imports"
	"github.com/trimport/trimport/internal/pyast"
	"github.com/trimport/trimport/internal/pyproject"
	"github.com/trimport/trimport/internal/slim"
	"github.com/trimport/trimport/internal/walk"
	"github.com/trimport/trimport/pkg/types"
)

var (
	slimDir    dirFlags
	slimOut    string
	slimStats  bool
	slimJSON   bool
)

var slimCmd = &cobra.Command{
	Use:   "slim <python-dir> <venv-dir>",
	Short: "Copy a virtualenv down to only the distributions a source tree imports",
	Args:  cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		slimDir.applyProjectConfig(cmd, projectConfig)
		if projectConfig != nil {
			if projectConfig.OutDir != "" && !cmd.Flags().Changed("output") {
				slimOut = projectConfig.OutDir
			}
			if projectConfig.Report.Stats && !cmd.Flags().Changed("stats") {
				slimStats = true
			}
			if projectConfig.Report.JSON && !cmd.Flags().Changed("json") {
				slimJSON = true
			}
		}

		pythonDir, venvDir := args[0], args[1]

		outRoot := slimOut
		if outRoot == "" {
			outRoot = venvDir + "-slim"
		}
		if err := walk.ValidateOutputPath(venvDir, outRoot); err != nil {
			return &types.ExitError{Code: types.ExitInvalidArgs, Message: err.Error()}
		}

		used, err := collectUsedModules(pythonDir, slimDir)
		if err != nil {
			return &types.ExitError{Code: types.ExitAnalysisError, Message: err.Error()}
		}

		idx, warnings, err := distindex.Scan(venvDir)
		if err != nil {
			return &types.ExitError{Code: types.ExitIOError, Message: err.Error()}
		}
		for _, w := range warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
		}

		report, err := slim.Slim(venvDir, used, outRoot, idx)
		if err != nil {
			return &types.ExitError{Code: types.ExitIOError, Message: err.Error()}
		}

		if slimStats {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d distribution(s) kept, %d unresolved import(s), %d file(s)/%d byte(s) copied\n",
				len(report.Kept), len(report.Unresolved), report.FilesCopied, report.BytesCopied)
			for _, u := range report.Unresolved {
				fmt.Fprintf(cmd.ErrOrStderr(), "  unresolved: %s\n", u)
			}
		}
		if slimJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		return nil
	},
}

func init() {
	slimDir.register(slimCmd)
	slimCmd.Flags().StringVarP(&slimOut, "output", "o", "", "output directory (default <venv-dir>-slim)")
	slimCmd.Flags().BoolVar(&slimStats, "stats", false, "print a summary of kept/unresolved distributions to stderr")
	slimCmd.Flags().BoolVar(&slimJSON, "json", false, "print the slim report as JSON to stdout")
	rootCmd.AddCommand(slimCmd)
}

// collectUsedModules walks pythonDir for .py files and merges their
// top-level imported module names (spec §4.7 step 1 "resolve the source
// tree's used top-level modules"). When pythonDir carries a
// pyproject.toml with a recognized local-dependency table, each
// dependency's project root is visited too (once per session, spec §6
// "recursive dependency-ordered minification"), so a used-but-vendored
// local project's own imports widen the kept set the same way.
func collectUsedModules(pythonDir string, f dirFlags) ([]string, error) {
	parser, err := pyast.NewParser()
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	merged := imports.NewSet()
	visited := map[string]bool{}

	var visit func(dir string) error
	visit = func(dir string) error {
		dir = filepath.Clean(dir)
		if visited[dir] {
			return nil
		}
		visited[dir] = true

		policy, err := buildPolicy(f)
		if err != nil {
			return err
		}
		rels, err := walk.Discover(dir, policy)
		if err != nil {
			return err
		}

		var paths []string
		for _, rel := range rels {
			if filepath.Ext(rel) == ".py" {
				paths = append(paths, filepath.Join(dir, rel))
			}
		}
		set, errs := imports.CollectFiles(parser, paths)
		for path, ferr := range errs {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", path, ferr)
		}
		merged.Merge(set)

		manifest := filepath.Join(dir, "pyproject.toml")
		if _, statErr := os.Stat(manifest); statErr != nil {
			return nil
		}
		deps, loadErr := pyproject.Load(manifest)
		if loadErr != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", manifest, loadErr)
			return nil
		}
		for _, dep := range pyproject.VisitOrder(deps) {
			if err := visit(dep.Root); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(pythonDir); err != nil {
		return nil, err
	}
	var used []string
	for _, m := range merged.Ordered() {
		if m != imports.Relative {
			used = append(used, m)
		}
	}
	return used, nil
}
