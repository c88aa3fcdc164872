package cmd

import (
	"path"
	"path/filepath"
	"strings"
)

// moduleNameFor derives the dotted module name PlanModule records for a
// file, given its path relative to some import root (".", for a
// standalone invocation with no package context).
func moduleNameFor(relPath string) string {
	rel := filepath.ToSlash(relPath)
	rel = strings.TrimSuffix(rel, ".py")
	rel = strings.TrimSuffix(rel, "/__init__")
	if rel == "" || rel == "." {
		return path.Base(relPath)
	}
	return strings.ReplaceAll(rel, "/", ".")
}
