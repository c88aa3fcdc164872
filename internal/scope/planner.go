package scope

import (
	"sort"
	"strings"

	"github.com/trimport/trimport/internal/namegen"
	"github.com/trimport/trimport/internal/pyast"
)

// PythonSyntaxTarget is the Python grammar version the planner was built
// against (spec §3 "python_syntax_target").
const PythonSyntaxTarget = "3.12"

// discoveredFunction pairs a function_definition node with the dotted
// qualified name built from its enclosing function/class definitions.
type discoveredFunction struct {
	node *pyast.Node
	name string
}

// PlanModule runs the full scope planner over a parsed module and produces
// its ModulePlan (spec §3, §4.3–§4.5). moduleName is the dotted import path
// the caller resolved for this file (spec §4.2 naming).
func PlanModule(tree *pyast.Tree, moduleName string) *ModulePlan {
	mp := &ModulePlan{
		ModuleName:         moduleName,
		FormatVersion:      FormatVersion,
		PythonSyntaxTarget: PythonSyntaxTarget,
		Keywords:           sortedKeys(Keywords),
		Builtins:           sortedKeys(Builtins),
		Docstrings:         collectDocstrings(tree),
	}

	for _, d := range discoverFunctions(tree.RootNode(), tree.Source) {
		mp.Functions = append(mp.Functions, buildFunctionPlan(d, tree.Source))
	}

	return mp
}

// discoverFunctions finds every function_definition node in the tree,
// nested arbitrarily deep through functions, classes, and control-flow
// statements, in source order. Qualified names are built from the chain
// of enclosing function/class definitions (spec §4.3 "qualified_name").
func discoverFunctions(root *pyast.Node, src []byte) []discoveredFunction {
	var out []discoveredFunction
	pyast.Walk(root, func(n *pyast.Node) {
		if n.Kind() == "function_definition" {
			out = append(out, discoveredFunction{node: n, name: qualifiedNameOf(n, src)})
		}
	})
	return out
}

func qualifiedNameOf(n *pyast.Node, src []byte) string {
	var segs []string
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Kind() == "function_definition" || cur.Kind() == "class_definition" {
			if nameNode := cur.ChildByFieldName("name"); nameNode != nil {
				segs = append(segs, pyast.Text(nameNode, src))
			}
		}
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, ".")
}

func buildFunctionPlan(d discoveredFunction, src []byte) *FunctionPlan {
	fa := analyzeFunctionScope(d.node, src)
	start, end := pyast.ByteRange(d.node)

	var renamable []string
	var excluded []ExcludedName
	for _, name := range fa.bindingOrder {
		if reason := resolveReason(fa, name); reason != "" {
			excluded = append(excluded, ExcludedName{Name: name, Reason: reason})
		} else {
			renamable = append(renamable, name)
		}
	}
	if fa.starImported {
		excluded = append(excluded, ExcludedName{Name: "*", Reason: ReasonStarImported})
	}

	attrHazard := attributeSyncHazard(fa)
	fstrHazard := fstringHazard(fa, renamable)
	nested := containsNestedConstruct(fa)
	bailout := nested || fa.hasGlobalOrNonlocal || fa.hasBareReflective || attrHazard || fstrHazard

	var renames []Rename
	if !bailout {
		seq := namegen.NewSequence()
		assigned := make(map[string]bool, len(renamable))
		for _, name := range renamable {
			next := seq.Next(func(c string) bool {
				if Keywords[c] || Builtins[c] || c == "_" {
					return true
				}
				if fa.identifierSurface[c] {
					return true
				}
				return assigned[c]
			})
			assigned[next] = true
			renames = append(renames, Rename{Original: name, Renamed: next})
		}
	}

	return &FunctionPlan{
		QualifiedName:      d.name,
		Range:              Range{Start: int(start), End: int(end)},
		Renames:            renames,
		ExcludedNames:      excluded,
		HasNestedFunctions: nested,
		Bailout:            bailout,
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
