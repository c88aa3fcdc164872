package imports

import (
	"testing"

	"github.com/trimport/trimport/internal/pyast"
)

func parse(t *testing.T, src string) *pyast.Tree {
	t.Helper()
	p, err := pyast.NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	t.Cleanup(p.Close)
	tree, err := p.Parse("test.py", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	t.Cleanup(tree.Close)
	return tree
}

func TestCollectTopLevel(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"plain", "import os\n", []string{"os"}},
		{"aliased", "import numpy as np\n", []string{"numpy"}},
		{"dotted", "import os.path\n", []string{"os"}},
		{"from", "from collections import OrderedDict\n", []string{"collections"}},
		{"from dotted", "from a.b import x\n", []string{"a"}},
		{"from aliased", "from a.b import x as y\n", []string{"a"}},
		{"relative dot", "from . import x\n", []string{Relative}},
		{"relative pkg", "from .pkg import x\n", []string{Relative}},
		{"wildcard", "from a import *\n", []string{"a"}},
		{"multi one line", "import os, sys\n", []string{"os", "sys"}},
		{"nested in function", "def f():\n    import json\n", []string{"json"}},
		{"nested in try", "try:\n    import simplejson as json\nexcept ImportError:\n    import json\n", []string{"simplejson", "json"}},
		{"nested in if", "if True:\n    import os\n", []string{"os"}},
		{"type checking guard", "from typing import TYPE_CHECKING\nif TYPE_CHECKING:\n    import foo\n", []string{"typing", "foo"}},
		{"duplicate folded", "import os\nimport os\n", []string{"os"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.src)
			got := CollectTopLevel(tree).Ordered()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSetMerge(t *testing.T) {
	a := NewSet()
	a.Add("os")
	a.Add("sys")
	b := NewSet()
	b.Add("sys")
	b.Add("json")
	a.Merge(b)
	want := []string{"os", "sys", "json"}
	got := a.Ordered()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
