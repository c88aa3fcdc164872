package scope

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

func renameMap(fp *FunctionPlan) map[string]string {
	m := make(map[string]string, len(fp.Renames))
	for _, r := range fp.Renames {
		m[r.Original] = r.Renamed
	}
	return m
}

func excludedReason(fp *FunctionPlan, name string) (string, bool) {
	for _, e := range fp.ExcludedNames {
		if e.Name == name {
			return e.Reason, true
		}
	}
	return "", false
}

func TestPlanModuleSimpleFunction(t *testing.T) {
	src := "def total(items, tax):\n" +
		"    s = 0\n" +
		"    for i in items:\n" +
		"        s += i\n" +
		"    return s * (1 + tax)\n"
	tree := parse(t, src)
	mp := PlanModule(tree, "pkg.mod")

	if len(mp.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(mp.Functions))
	}
	fp := mp.Functions[0]
	if fp.QualifiedName != "total" {
		t.Fatalf("qualified name = %q", fp.QualifiedName)
	}
	if fp.Bailout {
		t.Fatalf("unexpected bailout")
	}
	got := renameMap(fp)
	want := map[string]string{"items": "a", "tax": "b", "s": "c", "i": "d"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("rename[%q] = %q, want %q (full: %v)", k, got[k], v, got)
		}
	}
}

func TestPlanModuleNestedMethodQualifiedName(t *testing.T) {
	src := "class Widget:\n" +
		"    def render(self, ctx):\n" +
		"        return ctx\n"
	tree := parse(t, src)
	mp := PlanModule(tree, "pkg.mod")
	if len(mp.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(mp.Functions))
	}
	if got := mp.Functions[0].QualifiedName; got != "Widget.render" {
		t.Fatalf("qualified name = %q, want Widget.render", got)
	}
}

func TestPlanModuleBailoutOnComprehension(t *testing.T) {
	src := "def f(items):\n" +
		"    return [x * 2 for x in items]\n"
	tree := parse(t, src)
	mp := PlanModule(tree, "pkg.mod")
	fp := mp.Functions[0]
	if !fp.Bailout {
		t.Fatalf("expected bailout due to comprehension")
	}
	if !fp.HasNestedFunctions {
		t.Fatalf("expected HasNestedFunctions (comprehension) flag set")
	}
	if len(fp.Renames) != 0 {
		t.Fatalf("bailout function must have empty renames, got %v", fp.Renames)
	}
}

func TestPlanModuleBailoutOnGlobal(t *testing.T) {
	src := "counter = 0\n" +
		"def bump():\n" +
		"    global counter\n" +
		"    counter += 1\n"
	tree := parse(t, src)
	mp := PlanModule(tree, "pkg.mod")
	fp := mp.Functions[0]
	if !fp.Bailout {
		t.Fatalf("expected bailout due to global declaration")
	}
	reason, ok := excludedReason(fp, "counter")
	if !ok || reason != ReasonGlobal {
		t.Fatalf("counter excluded = (%q, %v), want (global, true)", reason, ok)
	}
}

func TestPlanModuleExcludesBuiltinsKeywordsDunders(t *testing.T) {
	src := "def f(list, _, __class__):\n" +
		"    pass\n"
	tree := parse(t, src)
	mp := PlanModule(tree, "pkg.mod")
	fp := mp.Functions[0]

	if reason, ok := excludedReason(fp, "list"); !ok || reason != ReasonBuiltin {
		t.Fatalf("list excluded = (%q, %v)", reason, ok)
	}
	if reason, ok := excludedReason(fp, "_"); !ok || reason != ReasonSingleUnderscore {
		t.Fatalf("_ excluded = (%q, %v)", reason, ok)
	}
	if reason, ok := excludedReason(fp, "__class__"); !ok || reason != ReasonDunder {
		t.Fatalf("__class__ excluded = (%q, %v)", reason, ok)
	}
}

func TestPlanModuleDottedImportExcluded(t *testing.T) {
	src := "def f():\n" +
		"    import os.path\n" +
		"    return os.path.sep\n"
	tree := parse(t, src)
	mp := PlanModule(tree, "pkg.mod")
	fp := mp.Functions[0]
	if reason, ok := excludedReason(fp, "os"); !ok || reason != ReasonDottedImport {
		t.Fatalf("os excluded = (%q, %v)", reason, ok)
	}
}

func TestPlanModuleUnaliasedFromImportExcluded(t *testing.T) {
	src := "def f():\n" +
		"    from json import loads\n" +
		"    return loads(\"{}\")\n"
	tree := parse(t, src)
	mp := PlanModule(tree, "pkg.mod")
	fp := mp.Functions[0]
	if reason, ok := excludedReason(fp, "loads"); !ok || reason != ReasonDottedImport {
		t.Fatalf("loads excluded = (%q, %v), want (dotted_import, true)", reason, ok)
	}
}

func TestPlanModuleAliasedImportRenamable(t *testing.T) {
	src := "def f():\n" +
		"    import numpy as np\n" +
		"    return np.array([1])\n"
	tree := parse(t, src)
	mp := PlanModule(tree, "pkg.mod")
	fp := mp.Functions[0]
	got := renameMap(fp)
	if _, ok := got["np"]; !ok {
		t.Fatalf("expected np (alias) to be renamable, got %v", got)
	}
}

func TestPlanModuleAttributeSyncHazard(t *testing.T) {
	src := "class C:\n" +
		"    def __init__(self, foo):\n" +
		"        self.foo = foo\n"
	tree := parse(t, src)
	mp := PlanModule(tree, "pkg.mod")
	fp := mp.Functions[0]
	if !fp.Bailout {
		t.Fatalf("expected bailout from attribute-sync hazard")
	}
}

func TestPlanModuleDocstrings(t *testing.T) {
	src := "\"\"\"module doc.\"\"\"\n" +
		"class C:\n" +
		"    \"\"\"class doc.\"\"\"\n" +
		"    def f(self):\n" +
		"        \"\"\"func doc.\"\"\"\n" +
		"        return 1\n"
	tree := parse(t, src)
	mp := PlanModule(tree, "pkg.mod")
	if len(mp.Docstrings) != 3 {
		t.Fatalf("got %d docstrings, want 3", len(mp.Docstrings))
	}
}

func TestPlanModuleRenamesSelfUsedOnlyAsAttributeReceiver(t *testing.T) {
	src := "class C:\n" +
		"    def f(self, value):\n" +
		"        return self.compute(value)\n"
	tree := parse(t, src)
	mp := PlanModule(tree, "pkg.mod")
	fp := mp.Functions[0]
	got := renameMap(fp)
	if _, ok := got["self"]; !ok {
		t.Fatalf("expected self to be a renamable candidate, got %v", got)
	}
}

func TestPlanModuleBindsTypedSplatParameters(t *testing.T) {
	src := "def f(x: int, *args: int, **kwargs: dict) -> int:\n" +
		"    return x + len(args) + len(kwargs)\n"
	tree := parse(t, src)
	mp := PlanModule(tree, "pkg.mod")
	fp := mp.Functions[0]
	got := renameMap(fp)
	for _, name := range []string{"x", "args", "kwargs"} {
		if _, ok := got[name]; !ok {
			t.Errorf("expected %q to be a renamable parameter, got %v", name, got)
		}
	}
}
