// Package callgraph builds an advisory, intra-file call graph used to
// flag potentially dead functions (spec §4.9). It never drives any
// rewrite decision — only reporting.
package callgraph

import (
	"strings"

	"github.com/trimport/trimport/internal/pyast"
)

// EntryKind classifies why a function is treated as reachable without any
// incoming call edge.
type EntryKind int

const (
	Regular EntryKind = iota
	ModuleInit
	ScriptMain
	TestFunction
	Dunder
	PublicExport
)

func (k EntryKind) String() string {
	switch k {
	case ModuleInit:
		return "module-init"
	case ScriptMain:
		return "script-main"
	case TestFunction:
		return "test-function"
	case Dunder:
		return "dunder"
	case PublicExport:
		return "public-export"
	default:
		return "regular"
	}
}

// Function is one registered function node.
type Function struct {
	QualifiedName string
	Node          *pyast.Node
	Kind          EntryKind
}

// Graph is the per-file call graph: nodes plus directed call edges
// (caller qualified name -> callee qualified name).
type Graph struct {
	Functions map[string]*Function
	Edges     map[string][]string
	order     []string
}

// Build walks tree and produces its Graph (spec §4.9).
func Build(tree *pyast.Tree) *Graph {
	g := &Graph{
		Functions: make(map[string]*Function),
		Edges:     make(map[string][]string),
	}

	hasDunderAll, exported := collectDunderAll(tree.RootNode(), tree.Source)

	discoverFunctions(tree.RootNode(), tree.Source, "", func(qname string, node *pyast.Node) {
		kind := classify(qname, node, tree.Source, hasDunderAll, exported)
		g.Functions[qname] = &Function{QualifiedName: qname, Node: node, Kind: kind}
		g.order = append(g.order, qname)
	})

	for qname, fn := range g.Functions {
		g.Edges[qname] = collectCallEdges(fn.Node, tree.Source, g.Functions)
	}

	if hasTopLevelExecutableCode(tree.RootNode()) {
		g.Functions["<module>"] = &Function{QualifiedName: "<module>", Kind: ModuleInit}
		g.Edges["<module>"] = collectCallEdges(tree.RootNode(), tree.Source, g.Functions)
	}

	return g
}

// EntryPoints returns the qualified names of every function treated as
// reachable without an incoming call edge.
func (g *Graph) EntryPoints() []string {
	var out []string
	for _, name := range g.order {
		if g.Functions[name].Kind != Regular {
			out = append(out, name)
		}
	}
	if _, ok := g.Functions["<module>"]; ok {
		out = append(out, "<module>")
	}
	return out
}

// Reachable runs a breadth-first traversal from the entry-point set and
// returns every function name reached.
func (g *Graph) Reachable() map[string]bool {
	seen := make(map[string]bool)
	queue := g.EntryPoints()
	for _, name := range queue {
		seen[name] = true
	}
	for i := 0; i < len(queue); i++ {
		for _, callee := range g.Edges[queue[i]] {
			if !seen[callee] {
				seen[callee] = true
				queue = append(queue, callee)
			}
		}
	}
	return seen
}

// PotentiallyDead returns every registered function not reached from the
// entry-point set, in discovery order. Spec §4.9: advisory only, never a
// basis for automatic removal.
func (g *Graph) PotentiallyDead() []string {
	reachable := g.Reachable()
	var dead []string
	for _, name := range g.order {
		if !reachable[name] {
			dead = append(dead, name)
		}
	}
	return dead
}

func discoverFunctions(n *pyast.Node, src []byte, prefix string, emit func(string, *pyast.Node)) {
	for _, child := range pyast.NamedChildren(n) {
		switch child.Kind() {
		case "function_definition":
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			qname := pyast.Text(nameNode, src)
			if prefix != "" {
				qname = prefix + "." + qname
			}
			emit(qname, child)
			if body := child.ChildByFieldName("body"); body != nil {
				discoverFunctions(body, src, qname, emit)
			}
		case "class_definition":
			nameNode := child.ChildByFieldName("name")
			classPrefix := prefix
			if nameNode != nil {
				name := pyast.Text(nameNode, src)
				if prefix != "" {
					classPrefix = prefix + "." + name
				} else {
					classPrefix = name
				}
			}
			if body := child.ChildByFieldName("body"); body != nil {
				discoverFunctions(body, src, classPrefix, emit)
			}
		default:
			discoverFunctions(child, src, prefix, emit)
		}
	}
}

func classify(qname string, node *pyast.Node, src []byte, hasDunderAll bool, exported map[string]bool) EntryKind {
	simpleName := qname
	if i := strings.LastIndex(qname, "."); i >= 0 {
		simpleName = qname[i+1:]
	}
	if strings.HasPrefix(simpleName, "__") && strings.HasSuffix(simpleName, "__") {
		return Dunder
	}
	if strings.HasPrefix(simpleName, "test_") {
		return TestFunction
	}
	if hasDunderAll && exported[simpleName] {
		return PublicExport
	}
	_ = node
	return Regular
}

// collectDunderAll finds a module-level `__all__ = [...]` assignment and
// returns the set of string literal names it lists.
func collectDunderAll(root *pyast.Node, src []byte) (bool, map[string]bool) {
	exported := make(map[string]bool)
	found := false
	for _, child := range pyast.NamedChildren(root) {
		if child.Kind() != "expression_statement" {
			continue
		}
		assign := child.NamedChild(0)
		if assign == nil || assign.Kind() != "assignment" {
			continue
		}
		left := assign.ChildByFieldName("left")
		if left == nil || pyast.Text(left, src) != "__all__" {
			continue
		}
		found = true
		right := assign.ChildByFieldName("right")
		if right == nil {
			continue
		}
		for _, elt := range pyast.NamedChildren(right) {
			if elt.Kind() == "string" {
				exported[stringLiteralValue(elt, src)] = true
			}
		}
	}
	return found, exported
}

func stringLiteralValue(strNode *pyast.Node, src []byte) string {
	text := pyast.Text(strNode, src)
	text = strings.Trim(text, "'\"")
	return text
}

// hasTopLevelExecutableCode reports whether the module has any statement
// at module scope other than imports, function/class defs, and docstrings
// — the signal for a synthetic module-init entry point.
func hasTopLevelExecutableCode(root *pyast.Node) bool {
	for i, child := range pyast.NamedChildren(root) {
		switch child.Kind() {
		case "function_definition", "class_definition", "import_statement", "import_from_statement":
			continue
		case "expression_statement":
			if first := child.NamedChild(0); i == 0 && first != nil && first.Kind() == "string" {
				continue // leading docstring
			}
			return true
		default:
			return true
		}
	}
	return false
}

// collectCallEdges walks fnNode's body (stopping at nested function/class
// boundaries handled separately by discoverFunctions) and records an edge
// to every callee resolvable against the name table: a bare identifier
// call, or `self.method(...)`/`ClassName.method(...)` attribute calls that
// match a known qualified name's simple suffix.
func collectCallEdges(fnNode *pyast.Node, src []byte, functions map[string]*Function) []string {
	var edges []string
	seen := make(map[string]bool)
	pyast.WalkUntil(fnNode, func(n *pyast.Node) bool {
		if n.Id() != fnNode.Id() && (n.Kind() == "function_definition" || n.Kind() == "class_definition") {
			return false
		}
		if n.Kind() != "call" {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil {
			return true
		}
		switch fn.Kind() {
		case "identifier":
			name := pyast.Text(fn, src)
			if callee, ok := resolveBareCallee(name, functions); ok && !seen[callee] {
				seen[callee] = true
				edges = append(edges, callee)
			}
		case "attribute":
			attrNode := fn.ChildByFieldName("attribute")
			if attrNode == nil {
				return true
			}
			suffix := "." + pyast.Text(attrNode, src)
			if callee, ok := resolveAttributeCallee(suffix, functions); ok && !seen[callee] {
				seen[callee] = true
				edges = append(edges, callee)
			}
		}
		return true
	})
	return edges
}

func resolveBareCallee(name string, functions map[string]*Function) (string, bool) {
	if _, ok := functions[name]; ok {
		return name, true
	}
	return "", false
}

// resolveAttributeCallee matches `recv.method(...)` against the current
// file's qualified names by simple-name suffix only: no cross-package
// type inference (spec §4.9 "no cross-package resolution beyond tracked
// imports").
func resolveAttributeCallee(dottedSuffix string, functions map[string]*Function) (string, bool) {
	var match string
	count := 0
	for qname := range functions {
		if strings.HasSuffix(qname, dottedSuffix) {
			match = qname
			count++
		}
	}
	if count == 1 {
		return match, true
	}
	return "", false
}
