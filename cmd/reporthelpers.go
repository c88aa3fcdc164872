package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/trimport/trimport/internal/report"
	"github.com/trimport/trimport/pkg/types"
)

func asParseFailure(err error) (*types.ParseFailure, bool) {
	var pf *types.ParseFailure
	ok := errors.As(err, &pf)
	return pf, ok
}

// emitReport writes the run summary per the verb's --stats/--json/--output-json
// flags.
func emitReport(cmd *cobra.Command, stats *report.Stats, f reportFlags) error {
	if f.stats {
		if err := report.WriteTerminal(cmd.ErrOrStderr(), stats); err != nil {
			return err
		}
	}
	if f.jsonOut {
		if err := report.WriteJSON(cmd.OutOrStdout(), stats); err != nil {
			return err
		}
	}
	if f.outputJSON != "" {
		file, err := os.Create(f.outputJSON)
		if err != nil {
			return &types.ExitError{Code: types.ExitIOError, Message: err.Error()}
		}
		defer file.Close()
		if err := report.WriteJSON(file, stats); err != nil {
			return &types.ExitError{Code: types.ExitIOError, Message: err.Error()}
		}
	}
	return nil
}

// checkFailTriggers maps --fail-on-* flags to the process exit code per
// spec §6's exit-code contract.
func checkFailTriggers(stats *report.Stats, f reportFlags) error {
	if f.failOnError && stats.Errors > 0 {
		return &types.ExitError{Code: types.ExitFailOnTrigger, Message: "one or more files failed to parse or rewrite"}
	}
	if f.failOnBailout && stats.Bailouts > 0 {
		return &types.ExitError{Code: types.ExitFailOnTrigger, Message: "one or more functions bailed out of renaming"}
	}
	if f.failOnChange && stats.Rewritten > 0 {
		return &types.ExitError{Code: types.ExitFailOnTrigger, Message: "one or more files would be rewritten"}
	}
	return nil
}
