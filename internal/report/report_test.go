package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestStatsAddAggregatesCounts(t *testing.T) {
	s := &Stats{}
	s.Add(FileEntry{Path: "a.py", Status: StatusRewritten, RenamedCount: 3})
	s.Add(FileEntry{Path: "b.py", Status: StatusUnchanged})
	s.Add(FileEntry{Path: "c.py", Status: StatusUnchanged, BailoutFunctions: 1})
	s.Add(FileEntry{Path: "d.py", Status: StatusError, Error: "parse failure"})

	if s.TotalFiles != 4 {
		t.Fatalf("TotalFiles = %d, want 4", s.TotalFiles)
	}
	if s.Rewritten != 1 || s.TotalRenamed != 3 {
		t.Fatalf("Rewritten/TotalRenamed = %d/%d, want 1/3", s.Rewritten, s.TotalRenamed)
	}
	if s.Unchanged != 2 || s.Bailouts != 1 || s.Errors != 1 {
		t.Fatalf("unexpected bucket counts: %+v", s)
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	s := &Stats{}
	s.Add(FileEntry{Path: "a.py", Status: StatusRewritten, RenamedCount: 2})

	var buf bytes.Buffer
	if err := WriteJSON(&buf, s); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded Stats
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.TotalFiles != 1 || decoded.Rewritten != 1 {
		t.Fatalf("decoded stats mismatch: %+v", decoded)
	}
}

func TestWriteTerminalListsBailoutsAndErrors(t *testing.T) {
	s := &Stats{}
	s.Add(FileEntry{Path: "c.py", Status: StatusUnchanged, BailoutFunctions: 2})
	s.Add(FileEntry{Path: "d.py", Status: StatusError, Error: "parse failure"})

	var buf bytes.Buffer
	if err := WriteTerminal(&buf, s); err != nil {
		t.Fatalf("WriteTerminal: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "c.py (2 function(s))") {
		t.Fatalf("expected bailout line, got:\n%s", out)
	}
	if !strings.Contains(out, "d.py: parse failure") {
		t.Fatalf("expected error line, got:\n%s", out)
	}
}
