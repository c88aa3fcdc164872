package diffout

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderProducesUnifiedDiffHeader(t *testing.T) {
	var buf bytes.Buffer
	before := []byte("def f(x):\n    return x\n")
	after := []byte("def f(a):\n    return a\n")

	if err := Render(&buf, "mod.py", before, after, Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "--- mod.py") || !strings.Contains(out, "+++ mod.py") {
		t.Fatalf("expected unified diff headers, got:\n%s", out)
	}
	if !strings.Contains(out, "-def f(x):") || !strings.Contains(out, "+def f(a):") {
		t.Fatalf("expected changed lines in diff, got:\n%s", out)
	}
}

func TestRenderIdenticalContentProducesNoOutput(t *testing.T) {
	var buf bytes.Buffer
	same := []byte("x = 1\n")
	if err := Render(&buf, "mod.py", same, same, Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for identical content, got:\n%s", buf.String())
	}
}

func TestRenderNonTTYWriterSkipsColorCodes(t *testing.T) {
	var buf bytes.Buffer
	before := []byte("a = 1\n")
	after := []byte("a = 2\n")
	if err := Render(&buf, "mod.py", before, after, Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no ANSI escapes writing to a plain buffer, got:\n%q", buf.String())
	}
}
