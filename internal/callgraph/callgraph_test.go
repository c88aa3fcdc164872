package callgraph

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

func TestBuildSimpleCallChainAllReachable(t *testing.T) {
	src := `def helper():
    return 1


def main():
    return helper()


if __name__ == "__main__":
    main()
`
	g := Build(parse(t, src))
	dead := g.PotentiallyDead()
	if len(dead) != 0 {
		t.Fatalf("expected nothing dead, got %v", dead)
	}
}

func TestBuildUnreachableFunctionIsPotentiallyDead(t *testing.T) {
	src := `def used():
    return 1


def unused():
    return 2


def main():
    return used()
`
	g := Build(parse(t, src))
	dead := g.PotentiallyDead()
	if len(dead) != 3 || dead[0] != "used" || dead[1] != "unused" || dead[2] != "main" {
		t.Fatalf("expected [used unused main] dead, got %v", dead)
	}
}

func TestBuildTestFunctionIsEntryPoint(t *testing.T) {
	src := `def test_something():
    assert helper()


def helper():
    return True
`
	g := Build(parse(t, src))
	fn, ok := g.Functions["test_something"]
	if !ok {
		t.Fatal("expected test_something registered")
	}
	if fn.Kind != TestFunction {
		t.Fatalf("expected TestFunction kind, got %v", fn.Kind)
	}
	dead := g.PotentiallyDead()
	if len(dead) != 0 {
		t.Fatalf("expected nothing dead (helper reached via test_something), got %v", dead)
	}
}

func TestBuildDunderAllMarksPublicExport(t *testing.T) {
	src := `__all__ = ["public_fn"]


def public_fn():
    return 1


def private_fn():
    return 2
`
	g := Build(parse(t, src))
	if g.Functions["public_fn"].Kind != PublicExport {
		t.Fatalf("expected public_fn to be PublicExport, got %v", g.Functions["public_fn"].Kind)
	}
	dead := g.PotentiallyDead()
	if len(dead) != 1 || dead[0] != "private_fn" {
		t.Fatalf("expected [private_fn] dead, got %v", dead)
	}
}

func TestBuildMethodCallViaSelfResolves(t *testing.T) {
	src := `class Widget:
    def render(self):
        return self.paint()

    def paint(self):
        return 1


def main():
    Widget().render()


if __name__ == "__main__":
    main()
`
	g := Build(parse(t, src))
	dead := g.PotentiallyDead()
	if len(dead) != 0 {
		t.Fatalf("expected nothing dead, got %v", dead)
	}
}

func TestBuildDunderMethodIsEntryPoint(t *testing.T) {
	src := `class Widget:
    def __init__(self):
        pass
`
	g := Build(parse(t, src))
	fn, ok := g.Functions["Widget.__init__"]
	if !ok {
		t.Fatal("expected Widget.__init__ registered")
	}
	if fn.Kind != Dunder {
		t.Fatalf("expected Dunder kind, got %v", fn.Kind)
	}
}
