package scope

import (
	"strings"

	"github.com/trimport/trimport/internal/pyast"
)

// functionAnalysis accumulates everything the planner needs to know about
// a single function's own scope, collected by a scope-bounded walk that
// stops descending into nested function/class definitions (spec §4.3).
type functionAnalysis struct {
	bindingOrder     []string
	bindingSeen      map[string]bool
	dottedImport     map[string]bool // names bound by any import with no alias (plain or from-import)
	globalNonlocal   map[string]string // name -> ReasonGlobal/ReasonNonlocal
	attributeSyncRHS map[string]bool   // identifiers used as RHS of an attribute-write assignment
	identifierSurface map[string]bool // every identifier token's text anywhere in the function range
	fstringIdents    map[string]bool // identifiers referenced inside f-string interpolations

	hasNestedDef        bool
	hasNestedClass      bool
	hasComprehension    bool
	hasMatch            bool
	hasGlobalOrNonlocal bool
	hasBareReflective   bool
	starImported        bool
}

func newFunctionAnalysis() *functionAnalysis {
	return &functionAnalysis{
		bindingSeen:       make(map[string]bool),
		dottedImport:      make(map[string]bool),
		globalNonlocal:    make(map[string]string),
		attributeSyncRHS:  make(map[string]bool),
		identifierSurface: make(map[string]bool),
		fstringIdents:     make(map[string]bool),
	}
}

func (fa *functionAnalysis) addBinding(name string) {
	if name == "" {
		return
	}
	if !fa.bindingSeen[name] {
		fa.bindingSeen[name] = true
		fa.bindingOrder = append(fa.bindingOrder, name)
	}
}

// analyzeFunctionScope walks fnNode's parameters and body, collecting
// bindings and bailout signals scoped to this function alone.
func analyzeFunctionScope(fnNode *pyast.Node, src []byte) *functionAnalysis {
	fa := newFunctionAnalysis()

	if params := fnNode.ChildByFieldName("parameters"); params != nil {
		fa.collectParameters(params, src)
	}

	if body := fnNode.ChildByFieldName("body"); body != nil {
		pyast.WalkUntil(body, func(n *pyast.Node) bool {
			return fa.visit(n, src)
		})
	}

	pyast.Walk(fnNode, func(n *pyast.Node) {
		if n.Kind() == "identifier" {
			fa.identifierSurface[pyast.Text(n, src)] = true
		}
		if n.Kind() == "interpolation" {
			pyast.Walk(n, func(inner *pyast.Node) {
				if inner.Kind() == "identifier" {
					fa.fstringIdents[pyast.Text(inner, src)] = true
				}
			})
		}
	})

	return fa
}

func (fa *functionAnalysis) collectParameters(params *pyast.Node, src []byte) {
	for _, child := range pyast.Children(params) {
		if name, ok := paramBindingName(child, src); ok {
			fa.addBinding(name)
		}
	}
}

// paramBindingName extracts the bound identifier from a single parameter
// slot node, covering every slot kind in spec §4.1: positional-only,
// normal, default, annotated, annotated-default, *args, **kwargs. Bare
// slot separators ("/" and "*") bind nothing.
func paramBindingName(n *pyast.Node, src []byte) (string, bool) {
	switch n.Kind() {
	case "identifier":
		return pyast.Text(n, src), true
	case "typed_parameter", "default_parameter", "typed_default_parameter":
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			return pyast.Text(nameNode, src), true
		}
		// typed_parameter wraps its bound name as a first named child
		// rather than a "name" field: either a plain identifier
		// (grammar-version dependent), or a *args/**kwargs splat pattern
		// (`def f(*args: int)`, `def f(**kwargs: dict)`).
		if first := n.NamedChild(0); first != nil {
			switch first.Kind() {
			case "identifier":
				return pyast.Text(first, src), true
			case "list_splat_pattern", "dictionary_splat_pattern":
				return paramBindingName(first, src)
			}
		}
	case "list_splat_pattern", "dictionary_splat_pattern":
		if first := n.NamedChild(0); first != nil {
			return paramBindingName(first, src)
		}
	}
	return "", false
}

func (fa *functionAnalysis) visit(n *pyast.Node, src []byte) bool {
	switch n.Kind() {
	case "function_definition":
		fa.hasNestedDef = true
		return false
	case "class_definition":
		fa.hasNestedClass = true
		return false
	case "list_comprehension", "set_comprehension", "dictionary_comprehension", "generator_expression":
		fa.hasComprehension = true
		return false
	case "match_statement":
		fa.hasMatch = true
		return true
	case "global_statement":
		fa.collectDeclared(n, src, ReasonGlobal)
		fa.hasGlobalOrNonlocal = true
		return true
	case "nonlocal_statement":
		fa.collectDeclared(n, src, ReasonNonlocal)
		fa.hasGlobalOrNonlocal = true
		return true
	case "assignment":
		fa.handleAssignment(n, src)
		return true
	case "augmented_assignment":
		if left := n.ChildByFieldName("left"); left != nil {
			fa.collectTarget(left, src)
		}
		return true
	case "for_statement":
		if left := n.ChildByFieldName("left"); left != nil {
			fa.collectTarget(left, src)
		}
		return true
	case "with_item":
		if alias := n.ChildByFieldName("alias"); alias != nil {
			fa.collectTarget(alias, src)
		}
		return true
	case "except_clause":
		if name := n.ChildByFieldName("name"); name != nil {
			fa.collectTarget(name, src)
		}
		return true
	case "import_statement":
		fa.handleImportStatement(n, src)
		return true
	case "import_from_statement":
		fa.handleImportFromStatement(n, src)
		return true
	case "named_expression":
		if name := n.ChildByFieldName("name"); name != nil {
			fa.collectTarget(name, src)
		}
		return true
	case "call":
		fa.checkBareReflectiveCall(n, src)
		return true
	}
	return true
}

func (fa *functionAnalysis) collectDeclared(n *pyast.Node, src []byte, reason string) {
	for _, child := range pyast.NamedChildren(n) {
		if child.Kind() == "identifier" {
			fa.globalNonlocal[pyast.Text(child, src)] = reason
			fa.addBinding(pyast.Text(child, src))
		}
	}
}

// collectTarget recursively records every identifier bound by an
// assignment-like target, descending into tuple/list unpacking patterns
// and splat patterns. Attribute and subscript targets mutate an existing
// object rather than binding a new local name, so they contribute nothing.
func (fa *functionAnalysis) collectTarget(n *pyast.Node, src []byte) {
	switch n.Kind() {
	case "identifier":
		fa.addBinding(pyast.Text(n, src))
	case "tuple_pattern", "list_pattern", "pattern_list":
		for _, child := range pyast.NamedChildren(n) {
			fa.collectTarget(child, src)
		}
	case "list_splat_pattern":
		if first := n.NamedChild(0); first != nil {
			fa.collectTarget(first, src)
		}
	case "attribute", "subscript":
		// mutates an existing binding/object; not a new binding site.
	}
}

func (fa *functionAnalysis) handleAssignment(n *pyast.Node, src []byte) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil {
		return
	}
	fa.collectTarget(left, src)

	if left.Kind() == "attribute" && right != nil && right.Kind() == "identifier" {
		fa.attributeSyncRHS[pyast.Text(right, src)] = true
	}
}

// handleImportStatement binds plain `import a`/`import a.b` names and
// aliased `import a.b as c` aliases. A plain, unaliased import name is
// always recorded as excluded (dottedImport), even when it has a single
// segment: substituting its spelling would have to change the literal
// module name the import statement resolves, not just a local binding,
// which the rewriter never does (spec §4.5 "literal name in an import
// statement"). Only the alias of an `as` clause is a genuinely fresh
// local binding safe to rename.
func (fa *functionAnalysis) handleImportStatement(n *pyast.Node, src []byte) {
	for _, child := range pyast.NamedChildren(n) {
		switch child.Kind() {
		case "dotted_name":
			segments := strings.Split(pyast.Text(child, src), ".")
			fa.dottedImport[segments[0]] = true
			fa.addBinding(segments[0])
		case "aliased_import":
			if alias := child.ChildByFieldName("alias"); alias != nil {
				fa.addBinding(pyast.Text(alias, src))
			}
		}
	}
}

func (fa *functionAnalysis) handleImportFromStatement(n *pyast.Node, src []byte) {
	for _, child := range pyast.NamedChildren(n) {
		switch child.Kind() {
		case "wildcard_import":
			fa.starImported = true
		case "aliased_import":
			if alias := child.ChildByFieldName("alias"); alias != nil {
				fa.addBinding(pyast.Text(alias, src))
			}
		case "dotted_name":
			// Only the module_name field is a dotted_name at the
			// top level of a from-import; imported names are single
			// identifiers. Skip the module_name occurrence itself by
			// checking the field name.
			if fieldIsModuleName(n, child) {
				continue
			}
			name := pyast.Text(child, src)
			fa.dottedImport[name] = true
			fa.addBinding(name)
		}
	}
}

func fieldIsModuleName(parent, child *pyast.Node) bool {
	moduleName := parent.ChildByFieldName("module_name")
	return moduleName != nil && moduleName.Id() == child.Id()
}

func (fa *functionAnalysis) checkBareReflectiveCall(n *pyast.Node, src []byte) {
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" {
		return
	}
	switch pyast.Text(fn, src) {
	case "locals", "vars", "eval", "exec":
		fa.hasBareReflective = true
	}
}
