package pyproject

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadReadsLocalDependencyTable(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "pyproject.toml")
	writeFile(t, manifest, `
[project]
name = "app"

[tool.trimport.local-dependencies]
mylib = "../mylib"
shared = "./vendor/shared"
`)

	deps, err := Load(manifest)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(deps) != 2 {
		t.Fatalf("len(deps) = %d, want 2", len(deps))
	}

	want := map[string]string{
		"mylib":  filepath.Clean(filepath.Join(dir, "..", "mylib")),
		"shared": filepath.Clean(filepath.Join(dir, "vendor", "shared")),
	}
	for _, d := range deps {
		root, ok := want[d.Name]
		if !ok {
			t.Fatalf("unexpected dependency %q", d.Name)
		}
		if d.Root != root {
			t.Errorf("dependency %q: Root = %q, want %q", d.Name, d.Root, root)
		}
	}
}

func TestLoadWithoutLocalDependenciesTableIsEmpty(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "pyproject.toml")
	writeFile(t, manifest, `
[project]
name = "app"
`)

	deps, err := Load(manifest)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(deps) != 0 {
		t.Fatalf("len(deps) = %d, want 0", len(deps))
	}
}

func TestVisitOrderDeduplicatesByCanonicalRoot(t *testing.T) {
	in := []LocalDependency{
		{Name: "a", Root: "/repo/a"},
		{Name: "b", Root: "/repo/b"},
		{Name: "a-again", Root: "/repo/a"},
	}
	out := VisitOrder(in)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].Root != "/repo/a" || out[1].Root != "/repo/b" {
		t.Fatalf("unexpected order: %+v", out)
	}
}
