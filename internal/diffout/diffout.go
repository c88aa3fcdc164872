// Package diffout renders unified diffs between a file's original and
// rewritten contents, with TTY-aware coloring for the `--diff` flag.
package diffout

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pmezard/go-difflib/difflib"
)

// Options controls diff rendering.
type Options struct {
	Context int  // lines of context around each change, mirrors `--diff-context`
	Color   bool // force color on; when false Render auto-detects the writer's TTY-ness
}

// Render writes a unified diff of before -> after (labeled path/path) to w.
// Added lines are rendered green, removed lines red, when coloring applies.
func Render(w io.Writer, path string, before, after []byte, opts Options) error {
	context := opts.Context
	if context <= 0 {
		context = 3
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: path,
		ToFile:   path,
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Errorf("diffout: rendering diff for %s: %w", path, err)
	}
	if text == "" {
		return nil
	}

	if !useColor(w, opts) {
		_, err := io.WriteString(w, text)
		return err
	}

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	hunk := color.New(color.FgCyan)

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
			fmt.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			added.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			removed.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			hunk.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
	return nil
}

// useColor decides whether to colorize, honoring NO_COLOR and an explicit
// Options.Color override, falling back to TTY detection on w when it is
// an *os.File.
func useColor(w io.Writer, opts Options) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if opts.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
