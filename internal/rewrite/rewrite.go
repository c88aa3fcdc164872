package rewrite

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/trimport/trimport/internal/pyast"
	"github.com/trimport/trimport/internal/scope"
	"github.com/trimport/trimport/pkg/types"
)

// edit is a single half-open byte-range replacement.
type edit struct {
	start, end int
	text       []byte
}

// Apply rewrites src per plan: renaming non-bailout functions' bindings and
// deleting every recorded docstring (spec §4.5). tree must be a fresh parse
// of src (not necessarily the tree that produced plan — Apply re-locates
// every function header and docstring by byte range and returns a
// *types.PlanDriftError if the source has shifted underneath the plan).
func Apply(tree *pyast.Tree, src []byte, plan *scope.ModulePlan) ([]byte, error) {
	var edits []edit

	for _, d := range plan.Docstrings {
		e, err := docstringEdit(tree.RootNode(), src, d)
		if err != nil {
			return nil, err
		}
		if e != nil {
			edits = append(edits, *e)
		}
	}

	for _, fp := range plan.Functions {
		fnNode, err := locateFunction(tree.RootNode(), fp)
		if err != nil {
			return nil, err
		}
		simple := fp.QualifiedName
		if i := bytes.LastIndexByte([]byte(simple), '.'); i >= 0 {
			simple = simple[i+1:]
		}
		if name := fnNode.ChildByFieldName("name"); name == nil || pyast.Text(name, src) != simple {
			return nil, &types.PlanDriftError{QualifiedName: fp.QualifiedName, Offset: fp.Range.Start}
		}
		if fp.Bailout || len(fp.Renames) == 0 {
			continue
		}
		edits = append(edits, collectRenameEdits(fnNode, src, fp)...)
	}

	return applyEdits(src, edits)
}

func applyEdits(src []byte, edits []edit) ([]byte, error) {
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	for i := 1; i < len(edits); i++ {
		if edits[i].start < edits[i-1].end {
			return nil, fmt.Errorf("rewrite: overlapping edits at byte %d and [%d,%d)", edits[i].start, edits[i-1].start, edits[i-1].end)
		}
	}

	var out bytes.Buffer
	out.Grow(len(src))
	cursor := 0
	for _, e := range edits {
		out.Write(src[cursor:e.start])
		out.Write(e.text)
		cursor = e.end
	}
	out.Write(src[cursor:])
	return out.Bytes(), nil
}

// locateFunction re-finds the function_definition node a FunctionPlan
// describes by its declared start byte, and confirms the header still
// spans the declared range (spec §5 "re-matching the function header").
func locateFunction(root *pyast.Node, fp *scope.FunctionPlan) (*pyast.Node, error) {
	node := findNodeAt(root, "function_definition", uint(fp.Range.Start))
	if node == nil {
		return nil, &types.PlanDriftError{QualifiedName: fp.QualifiedName, Offset: fp.Range.Start}
	}
	start, end := pyast.ByteRange(node)
	if int(start) != fp.Range.Start || int(end) != fp.Range.End {
		return nil, &types.PlanDriftError{QualifiedName: fp.QualifiedName, Offset: fp.Range.Start}
	}
	return node, nil
}

func findNodeAt(root *pyast.Node, kind string, startByte uint) *pyast.Node {
	var found *pyast.Node
	pyast.Walk(root, func(n *pyast.Node) {
		if found != nil {
			return
		}
		if n.Kind() == kind && n.StartByte() == startByte {
			found = n
		}
	})
	return found
}

// collectRenameEdits walks fnNode's parameters and body (stopping at
// nested function/class boundaries, mirroring the planner's own scope
// bound) and emits a replacement edit for every eligible identifier
// occurrence whose spelling is a rename key.
func collectRenameEdits(fnNode *pyast.Node, src []byte, fp *scope.FunctionPlan) []edit {
	renameOf := make(map[string]string, len(fp.Renames))
	for _, r := range fp.Renames {
		renameOf[r.Original] = r.Renamed
	}

	var edits []edit
	visit := func(n *pyast.Node) {
		if n.Kind() != "identifier" {
			return
		}
		newName, ok := renameOf[pyast.Text(n, src)]
		if !ok || !eligibleForRename(n) {
			return
		}
		start, end := pyast.ByteRange(n)
		edits = append(edits, edit{int(start), int(end), []byte(newName)})
	}

	if params := fnNode.ChildByFieldName("parameters"); params != nil {
		pyast.Walk(params, visit)
	}
	if body := fnNode.ChildByFieldName("body"); body != nil {
		pyast.WalkUntil(body, func(n *pyast.Node) bool {
			switch n.Kind() {
			case "function_definition", "class_definition":
				return false
			}
			visit(n)
			return true
		})
	}
	return edits
}

// eligibleForRename reports whether identifier node n is a genuine
// occurrence of a local binding rather than an attribute-access name, a
// call's keyword-argument name, or literal import text (spec §4.5's
// rewriter edit-site exceptions).
func eligibleForRename(n *pyast.Node) bool {
	if parent := n.Parent(); parent != nil {
		switch parent.Kind() {
		case "attribute":
			if attr := parent.ChildByFieldName("attribute"); attr != nil && attr.Id() == n.Id() {
				return false
			}
		case "keyword_argument":
			if name := parent.ChildByFieldName("name"); name != nil && name.Id() == n.Id() {
				return false
			}
		}
	}
	return !isFrozenImportToken(n)
}

// isFrozenImportToken reports whether n is reached by walking up into an
// import statement without having passed through an aliased_import's
// alias field — i.e. it is literal external module/symbol text, not a
// local binding the rewriter may touch.
func isFrozenImportToken(n *pyast.Node) bool {
	child := n
	for cur := child.Parent(); cur != nil; child, cur = cur, cur.Parent() {
		switch cur.Kind() {
		case "aliased_import":
			alias := cur.ChildByFieldName("alias")
			return !(alias != nil && alias.Id() == child.Id())
		case "import_statement", "import_from_statement":
			return true
		case "function_definition", "class_definition":
			return false
		}
	}
	return false
}

// docstringEdit computes the deletion edit for one recorded docstring
// range (spec §4.5 "Docstring deletion"): the surrounding line collapses
// entirely only when the docstring was the sole content on its line(s); a
// function left with no remaining statement gets a synthesized `pass` at
// the original indentation.
func docstringEdit(root *pyast.Node, src []byte, d scope.DocRange) (*edit, error) {
	strNode := findNodeAt(root, "string", uint(d.Range.Start))
	if strNode == nil {
		return nil, &types.PlanDriftError{QualifiedName: "<docstring>", Offset: d.Range.Start}
	}
	start, end := pyast.ByteRange(strNode)
	if int(start) != d.Range.Start || int(end) != d.Range.End {
		return nil, &types.PlanDriftError{QualifiedName: "<docstring>", Offset: d.Range.Start}
	}

	lineStart := lineStartBefore(src, int(start))
	lineEnd := lineEndAfter(src, int(end))
	indent := src[lineStart:start]
	trailing := src[end:lineEnd]

	if !isBlank(indent) || !isBareLineEnd(trailing) {
		// Content shares the line with the docstring; only the string
		// span itself is removed, nothing collapses.
		return &edit{int(start), int(end), nil}, nil
	}

	if needsSynthesizedPass(strNode) {
		replacement := make([]byte, 0, len(indent)+4+len(trailing))
		replacement = append(replacement, indent...)
		replacement = append(replacement, "pass"...)
		replacement = append(replacement, trailing...)
		return &edit{lineStart, lineEnd, replacement}, nil
	}

	return &edit{lineStart, lineEnd, nil}, nil
}

// needsSynthesizedPass reports whether strNode is the sole statement in a
// function body, such that deleting it would leave the function body-less.
func needsSynthesizedPass(strNode *pyast.Node) bool {
	exprStmt := strNode.Parent()
	if exprStmt == nil {
		return false
	}
	block := exprStmt.Parent()
	if block == nil || block.Kind() != "block" {
		return false
	}
	if len(pyast.NamedChildren(block)) != 1 {
		return false
	}
	owner := block.Parent()
	return owner != nil && owner.Kind() == "function_definition"
}

func lineStartBefore(src []byte, pos int) int {
	if idx := bytes.LastIndexByte(src[:pos], '\n'); idx >= 0 {
		return idx + 1
	}
	return 0
}

func lineEndAfter(src []byte, pos int) int {
	if idx := bytes.IndexByte(src[pos:], '\n'); idx >= 0 {
		return pos + idx + 1
	}
	return len(src)
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

// isBareLineEnd reports whether b is exactly a line terminator (or empty,
// at end of file) with no other trailing content.
func isBareLineEnd(b []byte) bool {
	return len(b) == 0 || bytes.Equal(b, []byte("\n")) || bytes.Equal(b, []byte("\r\n"))
}
