// Package pyast wraps Tree-sitter's Python grammar behind a small,
// mutex-serialized parser adapter. Tree-sitter parsers are not thread-safe;
// parsing is serialized internally so callers may share one Parser across
// goroutines (trees returned from parsing are themselves safe to read
// concurrently once produced).
package pyast

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/trimport/trimport/pkg/types"
)

// Node is a Tree-sitter syntax node, byte-ranged against the source buffer
// it was parsed from.
type Node = tree_sitter.Node

// Tree wraps a parsed Tree-sitter tree with the source bytes it was parsed
// from. Close must be called when the tree is no longer needed.
type Tree struct {
	Path    string
	Source  []byte
	inner   *tree_sitter.Tree
}

// RootNode returns the tree's root module node.
func (t *Tree) RootNode() *Node {
	return t.inner.RootNode()
}

// Close releases the underlying Tree-sitter tree.
func (t *Tree) Close() {
	if t.inner != nil {
		t.inner.Close()
	}
}

// Parser holds a pooled Tree-sitter parser for the Python grammar.
type Parser struct {
	mu     sync.Mutex
	inner  *tree_sitter.Parser
}

// NewParser constructs a Parser with the Python language loaded.
func NewParser() (*Parser, error) {
	p := tree_sitter.NewParser()
	lang := tree_sitter.NewLanguage(tree_sitter_python.Language())
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("set python language: %w", err)
	}
	return &Parser{inner: p}, nil
}

// Close releases the underlying parser.
func (p *Parser) Close() {
	if p.inner != nil {
		p.inner.Close()
	}
}

// Parse parses source content into a Tree. The caller must Close the
// returned tree. A syntax error does not itself fail parsing (Tree-sitter
// is error-tolerant); callers wanting hard failure should check HasError.
func (p *Parser) Parse(path string, src []byte) (*Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tree := p.inner.Parse(src, nil)
	if tree == nil {
		return nil, &types.ParseFailure{Path: path, Line: 1, Column: 1, Message: "tree-sitter parse returned nil"}
	}

	return &Tree{Path: path, Source: src, inner: tree}, nil
}

// HasError reports whether the tree contains a Tree-sitter ERROR node,
// i.e. the source was not cleanly parseable as Python.
func HasError(root *Node) bool {
	return root.HasError()
}

// FirstErrorLocation walks the tree for the first ERROR or MISSING node and
// returns its 1-indexed (line, column), matching the AST library's
// convention (spec source-location data model).
func FirstErrorLocation(root *Node) (line, col int, found bool) {
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n.IsError() || n.IsMissing() {
			pt := n.StartPosition()
			line, col, found = int(pt.Row)+1, int(pt.Column)+1, true
			return true
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			c := n.Child(i)
			if c != nil && walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return
}
