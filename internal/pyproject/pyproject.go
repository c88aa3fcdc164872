// Package pyproject reads the local-dependency table this system
// recognizes in pyproject.toml for recursive, dependency-ordered
// minification (spec §6 "Local-dependency pyproject section"): a table
// whose keys are distribution names and whose values are relative paths
// to each dependency's project root.
package pyproject

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// LocalDependency is one entry of the recognized table: a distribution
// name mapped to its project root, canonicalized to an absolute path.
type LocalDependency struct {
	Name string
	Root string
}

// tomlDoc mirrors only the subset of pyproject.toml this system reads:
// `[tool.trimport.local-dependencies]`, a table of name -> relative path.
type tomlDoc struct {
	Tool struct {
		Trimport struct {
			LocalDependencies map[string]string `toml:"local-dependencies"`
		} `toml:"trimport"`
	} `toml:"tool"`
}

// Load reads path's local-dependency table and canonicalizes each relative
// path against path's own directory.
func Load(path string) ([]LocalDependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pyproject: %w", err)
	}

	var doc tomlDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("pyproject: parsing %s: %w", path, err)
	}

	base := filepath.Dir(path)
	var deps []LocalDependency
	for name, rel := range doc.Tool.Trimport.LocalDependencies {
		root := filepath.Clean(filepath.Join(base, rel))
		deps = append(deps, LocalDependency{Name: name, Root: root})
	}
	return deps, nil
}

// VisitOrder deduplicates deps by canonical root so each project root is
// visited exactly once per session (spec §6 "visited once per session"),
// keeping first occurrences in input order. It does no topological sort:
// the table itself carries no inter-dependency edges.
func VisitOrder(all []LocalDependency) []LocalDependency {
	seen := make(map[string]bool, len(all))
	var out []LocalDependency
	for _, d := range all {
		if seen[d.Root] {
			continue
		}
		seen[d.Root] = true
		out = append(out, d)
	}
	return out
}
