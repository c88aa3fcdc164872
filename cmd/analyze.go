package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trimport/trimport/internal/pyast"
	"github.com/trimport/trimport/internal/scope"
	"github.com/trimport/trimport/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.py>",
	Short: "Plan function-local renames and docstring deletions for a single file",
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

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(mp)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// planFile decodes src, parses it, and runs the scope planner over it,
// deriving the module name from its on-disk path.
func planFile(path string, src []byte) (*scope.ModulePlan, error) {
	info := rewriteEncodingOf(src)
	body, err := decodeForParse(src, info)
	if err != nil {
		return nil, &types.ParseFailure{Path: path, Message: err.Error()}
	}

	parser, err := pyast.NewParser()
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	tree, err := parser.Parse(path, body)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	if pyast.HasError(tree.RootNode()) {
		line, col, _ := pyast.FirstErrorLocation(tree.RootNode())
		return nil, &types.ParseFailure{Path: path, Line: line, Column: col, Message: "syntax error"}
	}

	return scope.PlanModule(tree, moduleNameFor(path)), nil
}
