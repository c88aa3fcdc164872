package scope

import "github.com/trimport/trimport/internal/pyast"

// collectDocstrings finds the module docstring plus every class and
// function docstring, in source order (spec §3 "docstrings", §4.5). A
// docstring is a bare string-literal expression statement in the first
// statement position of a module, class body, or function body.
func collectDocstrings(tree *pyast.Tree) []DocRange {
	var out []DocRange

	if n := leadingDocstring(tree.RootNode()); n != nil {
		out = append(out, docRangeOf(n))
	}

	pyast.Walk(tree.RootNode(), func(n *pyast.Node) {
		switch n.Kind() {
		case "class_definition", "function_definition":
			body := n.ChildByFieldName("body")
			if body == nil {
				return
			}
			if doc := leadingDocstring(body); doc != nil {
				out = append(out, docRangeOf(doc))
			}
		}
	})

	return out
}

// leadingDocstring returns the string node of block's first statement if
// that statement is a bare string-literal expression statement, else nil.
func leadingDocstring(block *pyast.Node) *pyast.Node {
	if block == nil {
		return nil
	}
	first := block.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" {
		return nil
	}
	expr := first.NamedChild(0)
	if expr == nil || expr.Kind() != "string" {
		return nil
	}
	return expr
}

func docRangeOf(n *pyast.Node) DocRange {
	start, end := pyast.ByteRange(n)
	return DocRange{Range: Range{Start: int(start), End: int(end)}}
}
