package pyast

// Walk visits node and every descendant depth-first, calling fn for each.
func Walk(node *Node, fn func(*Node)) {
	if node == nil {
		return
	}
	fn(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			Walk(child, fn)
		}
	}
}

// WalkUntil visits node and descendants depth-first, stopping the recursion
// into a subtree when fn returns false for its root.
func WalkUntil(node *Node, fn func(*Node) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			WalkUntil(child, fn)
		}
	}
}

// Text returns the source text spanned by node.
func Text(node *Node, src []byte) string {
	if node == nil {
		return ""
	}
	return string(src[node.StartByte():node.EndByte()])
}

// ByteRange returns node's half-open [start, end) byte interval.
func ByteRange(node *Node) (start, end uint) {
	return node.StartByte(), node.EndByte()
}

// NamedChildren returns every named child of node in source order.
func NamedChildren(node *Node) []*Node {
	var out []*Node
	if node == nil {
		return out
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if c := node.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Children returns every child of node (named and anonymous) in source order.
func Children(node *Node) []*Node {
	var out []*Node
	if node == nil {
		return out
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if c := node.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}
