package imports

import (
	"fmt"
	"os"

	"github.com/trimport/trimport/internal/pyast"
)

// CollectFiles parses every path with parser and merges their top-level
// module sets into one (spec §4.2 "merged across a tree"). Parse failures
// for an individual file are returned as a map from path to error rather
// than aborting the whole collection, so callers (the directory driver)
// can apply their own fail-fast policy.
func CollectFiles(parser *pyast.Parser, paths []string) (*Set, map[string]error) {
	merged := NewSet()
	errs := make(map[string]error)

	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			errs[path] = fmt.Errorf("read %s: %w", path, err)
			continue
		}
		tree, err := parser.Parse(path, src)
		if err != nil {
			errs[path] = err
			continue
		}
		merged.Merge(CollectTopLevel(tree))
		tree.Close()
	}

	return merged, errs
}
