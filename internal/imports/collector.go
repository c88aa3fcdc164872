// Package imports implements the top-level module collector (spec §4.2):
// a purely syntactic walk that extracts the set of first-dotted-segment
// module names referenced by a Python source file or tree, folding
// duplicates and recording relative imports as a sentinel excluded from
// slim input.
package imports

import (
	"github.com/trimport/trimport/internal/pyast"
)

// Relative is the sentinel yielded for `from . import x` / `from .pkg
// import x` style relative imports. It is never emitted into the slim
// input (spec §3 "Top-level module set").
const Relative = "\x00relative"

// Set is an insertion-ordered, duplicate-folded collection of top-level
// module names. Equality is set-wise (spec §4.2 "Result stability");
// Ordered exists only for deterministic output.
type Set struct {
	order []string
	seen  map[string]bool
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{seen: make(map[string]bool)}
}

// Add folds name into the set if not already present, preserving first-seen
// order.
func (s *Set) Add(name string) {
	if name == "" || s.seen[name] {
		return
	}
	s.seen[name] = true
	s.order = append(s.order, name)
}

// Has reports whether name is present in the set.
func (s *Set) Has(name string) bool {
	return s.seen[name]
}

// Ordered returns the set's members in first-seen order.
func (s *Set) Ordered() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Merge folds every member of other into s.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}
	for _, name := range other.order {
		s.Add(name)
	}
}

// Len returns the number of distinct members.
func (s *Set) Len() int {
	return len(s.order)
}

// CollectTopLevel walks tree and returns the top-level module set it
// references, applying the rules of spec §4.2: plain/aliased/dotted
// imports, from-imports, relative imports (recorded as Relative), wildcard
// imports, and imports nested under function/class/try/if/with bodies
// (collected identically to module-level ones; the collector assumes
// conservative, unconditional reachability and does not descend into
// TYPE_CHECKING-guard detection — it is purely syntactic).
func CollectTopLevel(tree *pyast.Tree) *Set {
	set := NewSet()
	pyast.Walk(tree.RootNode(), func(n *pyast.Node) {
		switch n.Kind() {
		case "import_statement":
			collectImportStatement(n, tree.Source, set)
		case "import_from_statement":
			collectImportFromStatement(n, tree.Source, set)
		}
	})
	return set
}

func collectImportStatement(n *pyast.Node, src []byte, set *Set) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			set.Add(firstSegment(child, src))
		case "aliased_import":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				set.Add(firstSegment(nameNode, src))
			}
		}
	}
}

func collectImportFromStatement(n *pyast.Node, src []byte, set *Set) {
	moduleNode := n.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}
	switch moduleNode.Kind() {
	case "relative_import":
		set.Add(Relative)
	case "dotted_name":
		set.Add(firstSegment(moduleNode, src))
	}
	// `from a import *` and `from a import x[, y as z]` contribute no
	// additional top-level modules beyond module_name: the imported names
	// are local bindings, not module references (spec §4.2).
}

// firstSegment returns the first identifier segment of a dotted_name node,
// i.e. the top-level module name of `a.b.c`.
func firstSegment(dottedName *pyast.Node, src []byte) string {
	if dottedName.Kind() != "dotted_name" {
		return pyast.Text(dottedName, src)
	}
	if first := dottedName.NamedChild(0); first != nil {
		return pyast.Text(first, src)
	}
	return pyast.Text(dottedName, src)
}
