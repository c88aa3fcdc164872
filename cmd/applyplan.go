package cmd

import (
	"github.com/trimport/trimport/internal/plan"
	"github.com/trimport/trimport/internal/pyast"
	"github.com/trimport/trimport/internal/scope"
)

// applyPlanToBody re-parses body and applies mp to it; a stale plan
// surfaces as internal/plan.ApplyToSource's own *types.PlanDriftError.
func applyPlanToBody(path string, body []byte, mp *scope.ModulePlan) ([]byte, error) {
	parser, err := pyast.NewParser()
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	return plan.ApplyToSource(parser, path, body, mp)
}
