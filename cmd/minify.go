package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/trimport/trimport/internal/diffout"
	"github.com/trimport/trimport/internal/rewrite"
	"github.com/trimport/trimport/pkg/types"
)

var minifyFlags rewriteFlags

var minifyCmd = &cobra.Command{
	Use:   "minify <file.py>",
	Short: "Plan and apply renames/docstring-stripping to a single file in one step",
	Args:  cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		minifyFlags.applyProjectConfig(cmd, projectConfig)

		path, src, err := readRewriteInput(cmd, args, minifyFlags)
		if err != nil {
			return err
		}

		info := rewriteEncodingOf(src)
		body, err := decodeForParse(src, info)
		if err != nil {
			return &types.ParseFailure{Path: path, Message: err.Error()}
		}

		mp, err := planFile(path, src)
		if err != nil {
			return err
		}

		rewritten, err := applyPlanToBody(path, body, mp)
		if err != nil {
			return err
		}

		out, err := encodeForWrite(rewritten, info)
		if err != nil {
			return &types.ExitError{Code: types.ExitIOError, Message: err.Error()}
		}

		return writeRewriteOutput(cmd, path, src, out, minifyFlags)
	},
}

func init() {
	minifyFlags.register(minifyCmd)
	rootCmd.AddCommand(minifyCmd)
}

func readRewriteInput(cmd *cobra.Command, args []string, f rewriteFlags) (string, []byte, error) {
	if f.stdin {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", nil, &types.ExitError{Code: types.ExitIOError, Message: err.Error()}
		}
		return "<stdin>", src, nil
	}
	if len(args) != 1 {
		return "", nil, &types.ExitError{Code: types.ExitInvalidArgs, Message: "expected exactly one file argument, or --stdin"}
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return "", nil, &types.ExitError{Code: types.ExitAnalysisError, Message: fmt.Sprintf("reading %s: %v", args[0], err)}
	}
	return args[0], src, nil
}

func writeRewriteOutput(cmd *cobra.Command, path string, before, after []byte, f rewriteFlags) error {
	switch {
	case f.diff:
		return diffout.Render(cmd.OutOrStdout(), path, before, after, diffout.Options{Context: f.diffCtx})
	case f.dryRun:
		return nil
	case f.stdout || f.stdin || !f.inPlace:
		_, err := cmd.OutOrStdout().Write(after)
		return err
	case f.inPlace:
		if f.backupExt != "" {
			if err := os.WriteFile(path+f.backupExt, before, 0o644); err != nil {
				return &types.ExitError{Code: types.ExitIOError, Message: err.Error()}
			}
		}
		if err := os.WriteFile(path, after, 0o644); err != nil {
			return &types.ExitError{Code: types.ExitIOError, Message: err.Error()}
		}
	}
	return nil
}
