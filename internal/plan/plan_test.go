package plan

import (
	"testing"

	"github.com/trimport/trimport/internal/scope"
	"github.com/trimport/trimport/pkg/types"
)

func sampleModulePlan() *scope.ModulePlan {
	return &scope.ModulePlan{
		ModuleName:         "pkg.mod",
		FormatVersion:      scope.FormatVersion,
		PythonSyntaxTarget: "3",
		Functions: []*scope.FunctionPlan{
			{
				QualifiedName: "pkg.mod.f",
				Range:         scope.Range{Start: 0, End: 10},
				Renames:       []scope.Rename{{Original: "items", Renamed: "a"}},
			},
		},
	}
}

func TestEncodeDecodeRoundTrips(t *testing.T) {
	mp := sampleModulePlan()
	data, err := Encode(mp)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode("plan.json", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.ModuleName != mp.ModuleName {
		t.Errorf("ModuleName = %q, want %q", decoded.ModuleName, mp.ModuleName)
	}
	if len(decoded.Functions) != 1 || decoded.Functions[0].Renames[0].Renamed != "a" {
		t.Errorf("unexpected decoded functions: %+v", decoded.Functions)
	}
}

func TestDecodeRejectsNewerFormatVersion(t *testing.T) {
	data := []byte(`{"format_version": "2", "module": "x", "functions": []}`)
	_, err := Decode("plan.json", data)
	if err == nil {
		t.Fatal("expected an error for a newer format_version")
	}
	exitErr, ok := err.(*types.ExitError)
	if !ok {
		t.Fatalf("expected *types.ExitError, got %T: %v", err, err)
	}
	if exitErr.Code != types.ExitPlanVersionError {
		t.Errorf("Code = %d, want %d", exitErr.Code, types.ExitPlanVersionError)
	}
}

func TestDecodeRejectsIntegerFormatVersion(t *testing.T) {
	data := []byte(`{"format_version": 1, "module": "x", "functions": []}`)
	_, err := Decode("plan.json", data)
	if err == nil {
		t.Fatal("expected an error for a non-string format_version")
	}
	if _, ok := err.(*types.PlanSchemaError); !ok {
		t.Fatalf("expected *types.PlanSchemaError, got %T: %v", err, err)
	}
}

func TestEncodeDecodeBundleRoundTrips(t *testing.T) {
	bundle := &Bundle{
		FormatVersion: SupportedFormatVersion,
		Entries: []Entry{
			{Path: "a.py", Plan: sampleModulePlan()},
			{Path: "b/c.py", Plan: sampleModulePlan()},
		},
	}

	data, err := EncodeBundle(bundle)
	if err != nil {
		t.Fatalf("EncodeBundle: %v", err)
	}

	decoded, err := DecodeBundle("bundle.json", data)
	if err != nil {
		t.Fatalf("DecodeBundle: %v", err)
	}
	if len(decoded.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(decoded.Entries))
	}
	if decoded.Entries[0].Path != "a.py" || decoded.Entries[1].Path != "b/c.py" {
		t.Errorf("unexpected entry order: %+v", decoded.Entries)
	}
}

func TestDecodeBundleRejectsNewerFormatVersion(t *testing.T) {
	data := []byte(`{"format_version": "99", "entries": []}`)
	_, err := DecodeBundle("bundle.json", data)
	if err == nil {
		t.Fatal("expected an error for a newer bundle format_version")
	}
}
