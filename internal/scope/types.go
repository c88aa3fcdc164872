// Package scope implements the per-function scope planner (spec §4.3): a
// depth-first walk that collects function-local bindings, decides which
// are safe to rename, assigns fresh short names via namegen, and flags
// functions that must bail out of rewriting entirely.
package scope

// FormatVersion is the current plan schema version (spec §3, §6). It is a
// string; integer-compatible values are forbidden by the wire format.
const FormatVersion = "1"

// Range is a half-open [Start, End) byte interval over the source buffer's
// encoded bytes, matching spec §3 "Function range".
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Rename is one (original, renamed) binding substitution.
type Rename struct {
	Original string `json:"original"`
	Renamed  string `json:"renamed"`
}

// Exclusion reason tags (spec §3 "excluded_names").
const (
	ReasonKeyword         = "keyword"
	ReasonBuiltin         = "builtin"
	ReasonDunder          = "dunder"
	ReasonSingleUnderscore = "single_underscore"
	ReasonReserved        = "reserved"
	ReasonGlobal          = "global"
	ReasonNonlocal        = "nonlocal"
	ReasonDottedImport    = "dotted_import"
	ReasonStarImported    = "star_imported"
)

// ExcludedName is a binding observed in scope but withheld from renaming.
type ExcludedName struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// FunctionPlan is the rename plan for a single function definition (spec
// §3 "Function plan").
type FunctionPlan struct {
	QualifiedName      string         `json:"qualified_name"`
	Range              Range          `json:"range"`
	Renames            []Rename       `json:"renames"`
	ExcludedNames      []ExcludedName `json:"excluded_names"`
	HasNestedFunctions bool           `json:"has_nested_functions"`
	Bailout            bool           `json:"bailout"`
}

// DocRange is a byte range of a docstring scheduled for deletion by the
// rewriter, in source order (spec §3 "docstrings").
type DocRange struct {
	Range Range `json:"range"`
}

// ModulePlan is the aggregated rename plan for one module (spec §3 "Module
// plan").
type ModulePlan struct {
	ModuleName         string         `json:"module"`
	FormatVersion      string         `json:"format_version"`
	PythonSyntaxTarget string         `json:"python_syntax_target"`
	Keywords           []string       `json:"keywords"`
	Builtins           []string       `json:"builtins"`
	Docstrings         []DocRange     `json:"docstrings"`
	Functions          []*FunctionPlan `json:"functions"`
}
