package plan

import (
	"github.com/trimport/trimport/internal/pyast"
	"github.com/trimport/trimport/internal/rewrite"
	"github.com/trimport/trimport/internal/scope"
)

// ApplyToSource re-parses src and applies mp to it via internal/rewrite,
// re-locating every function header and docstring range declared in mp
// (spec §5 "applying a plan to text whose byte boundaries have shifted...
// is detected by re-locating the declared function header"). A
// *types.PlanDriftError is returned when the source no longer matches.
func ApplyToSource(parser *pyast.Parser, path string, src []byte, mp *scope.ModulePlan) ([]byte, error) {
	tree, err := parser.Parse(path, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return rewrite.Apply(tree, src, mp)
}
