// Package report renders per-run statistics for the minify-dir and
// apply-plan-dir verbs as either a terminal summary or a JSON document (`--stats`,
// `--json`/`--output-json`).
package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// FileStatus is one file's outcome for a rewrite/analyze run.
type FileStatus string

const (
	StatusRewritten FileStatus = "rewritten"
	StatusUnchanged FileStatus = "unchanged"
	StatusBailout   FileStatus = "bailout"
	StatusError     FileStatus = "error"
)

// FileEntry is one file's contribution to a Stats report. BailoutFunctions
// counts functions that bailed out of renaming within the file (spec §3
// "bailout" is a per-function flag, not a file-level one) independent of
// Status, since a file can be partly rewritten and partly bailed-out.
type FileEntry struct {
	Path             string     `json:"path"`
	Status           FileStatus `json:"status"`
	RenamedCount     int        `json:"renamed_count,omitempty"`
	BailoutFunctions int        `json:"bailout_functions,omitempty"`
	BailoutReason    string     `json:"bailout_reason,omitempty"`
	Error            string     `json:"error,omitempty"`
}

// Stats aggregates a directory-driver run for `--stats`/`--json` output
// (spec §5 "Aggregated output... collected in completion order... final
// sort on relative path").
type Stats struct {
	Files          []FileEntry `json:"files"`
	TotalFiles     int         `json:"total_files"`
	Rewritten      int         `json:"rewritten"`
	Unchanged      int         `json:"unchanged"`
	Bailouts       int         `json:"bailouts"`
	Errors         int         `json:"errors"`
	TotalRenamed   int         `json:"total_renamed"`
}

// Add folds one file's outcome into the running totals. Callers append in
// whatever order files complete; sort by Path before calling WriteJSON /
// WriteTerminal for reproducible output.
func (s *Stats) Add(entry FileEntry) {
	s.Files = append(s.Files, entry)
	s.TotalFiles++
	switch entry.Status {
	case StatusRewritten:
		s.Rewritten++
		s.TotalRenamed += entry.RenamedCount
	case StatusUnchanged:
		s.Unchanged++
	case StatusBailout:
		s.Bailouts++
	case StatusError:
		s.Errors++
	}
	if entry.Status != StatusBailout && entry.BailoutFunctions > 0 {
		s.Bailouts += entry.BailoutFunctions
	}
}

// WriteJSON marshals the Stats as indented JSON to w.
func WriteJSON(w io.Writer, s *Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteTerminal renders a short human-readable summary to w.
func WriteTerminal(w io.Writer, s *Stats) error {
	_, err := fmt.Fprintf(w, "%d file(s): %d rewritten, %d unchanged, %d bailout(s), %d error(s) (%d identifiers renamed)\n",
		s.TotalFiles, s.Rewritten, s.Unchanged, s.Bailouts, s.Errors, s.TotalRenamed)
	if err != nil {
		return err
	}
	for _, f := range s.Files {
		switch {
		case f.Status == StatusError:
			if _, err := fmt.Fprintf(w, "  error    %s: %s\n", f.Path, f.Error); err != nil {
				return err
			}
		case f.BailoutFunctions > 0:
			if _, err := fmt.Fprintf(w, "  bailout  %s (%d function(s))\n", f.Path, f.BailoutFunctions); err != nil {
				return err
			}
		}
	}
	return nil
}
