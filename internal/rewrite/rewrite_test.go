package rewrite

import (
	"testing"

	"github.com/trimport/trimport/internal/pyast"
	"github.com/trimport/trimport/internal/scope"
)

func parseAndPlan(t *testing.T, src string) (*pyast.Tree, []byte, *scope.ModulePlan) {
	t.Helper()
	p, err := pyast.NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	t.Cleanup(p.Close)
	b := []byte(src)
	tree, err := p.Parse("test.py", b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	t.Cleanup(tree.Close)
	return tree, b, scope.PlanModule(tree, "pkg.mod")
}

func TestApplyRenamesSimpleFunction(t *testing.T) {
	src := "def total(items, tax):\n" +
		"    s = 0\n" +
		"    for i in items:\n" +
		"        s += i\n" +
		"    return s * (1 + tax)\n"
	tree, b, plan := parseAndPlan(t, src)

	out, err := Apply(tree, b, plan)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := "def total(a, b):\n" +
		"    c = 0\n" +
		"    for d in a:\n" +
		"        c += d\n" +
		"    return c * (1 + b)\n"
	if string(out) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestApplyDeletesDocstringAndSynthesizesPass(t *testing.T) {
	src := "def f():\n" +
		"    \"\"\"Docstring only.\"\"\"\n"
	tree, b, plan := parseAndPlan(t, src)

	out, err := Apply(tree, b, plan)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := "def f():\n    pass\n"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestApplyDeletesLeadingDocstringKeepsBody(t *testing.T) {
	src := "def f(x):\n" +
		"    \"\"\"Doc.\"\"\"\n" +
		"    return x\n"
	tree, b, plan := parseAndPlan(t, src)

	out, err := Apply(tree, b, plan)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := "def f(a):\n    return a\n"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestApplySkipsBailoutFunctionBody(t *testing.T) {
	src := "def f(items):\n" +
		"    return [x * 2 for x in items]\n"
	tree, b, plan := parseAndPlan(t, src)

	out, err := Apply(tree, b, plan)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if string(out) != src {
		t.Fatalf("bailout function body must be untouched, got %q", out)
	}
}

func TestApplyLeavesAttributeAccessAlone(t *testing.T) {
	src := "class C:\n" +
		"    def f(self, value):\n" +
		"        return self.compute(value)\n"
	tree, b, plan := parseAndPlan(t, src)

	out, err := Apply(tree, b, plan)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := "class C:\n" +
		"    def f(a, b):\n" +
		"        return a.compute(b)\n"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestApplyLeavesUnaliasedImportAlone(t *testing.T) {
	src := "def f():\n" +
		"    import os\n" +
		"    return os.sep\n"
	tree, b, plan := parseAndPlan(t, src)

	out, err := Apply(tree, b, plan)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if string(out) != src {
		t.Fatalf("unaliased import must be untouched, got %q", out)
	}
}

func TestDetectEncodingBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x = 1\n")...)
	info := DetectEncoding(src)
	if !info.HasBOM {
		t.Fatalf("expected BOM detected")
	}
	decoded, err := Decode(src, info)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(decoded) != "x = 1\n" {
		t.Fatalf("decoded = %q", decoded)
	}
	reencoded, err := Encode(decoded, info)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(reencoded) != string(src) {
		t.Fatalf("round trip mismatch")
	}
}

func TestDetectEncodingCRLF(t *testing.T) {
	info := DetectEncoding([]byte("x = 1\r\ny = 2\r\n"))
	if info.LineEnding != CRLF {
		t.Fatalf("LineEnding = %q, want CRLF", info.LineEnding)
	}
}
