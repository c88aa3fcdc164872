// Package plan serializes and reloads scope.ModulePlan documents (spec §3,
// §6 "Plan format (stable)"), and bundles many of them for a directory run.
package plan

import (
	"encoding/json"
	"fmt"

	"github.com/trimport/trimport/internal/scope"
	"github.com/trimport/trimport/pkg/types"
)

// SupportedFormatVersion is the highest plan format version this binary
// understands. Appliers must reject a version strictly greater than this
// (spec §6).
const SupportedFormatVersion = "1"

// Entry pairs a relative path with its module plan, as produced by
// minify-plan-dir (spec §6 "A plan bundle... {format_version, entries:
// [{path, plan}]}").
type Entry struct {
	Path string             `json:"path"`
	Plan *scope.ModulePlan `json:"plan"`
}

// Bundle is a directory-wide collection of per-file plans.
type Bundle struct {
	FormatVersion string  `json:"format_version"`
	Entries       []Entry `json:"entries"`
}

// Encode marshals a single ModulePlan as indented JSON.
func Encode(mp *scope.ModulePlan) ([]byte, error) {
	return json.MarshalIndent(mp, "", "  ")
}

// Decode unmarshals a single ModulePlan document, rejecting an
// unsupported (too new) format_version. Unknown additive fields are
// accepted silently, per Go's default json.Unmarshal behavior.
func Decode(path string, data []byte) (*scope.ModulePlan, error) {
	var probe struct {
		FormatVersion json.RawMessage `json:"format_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &types.PlanSchemaError{Path: path, Message: err.Error()}
	}
	if err := checkVersion(path, probe.FormatVersion); err != nil {
		return nil, err
	}

	var mp scope.ModulePlan
	if err := json.Unmarshal(data, &mp); err != nil {
		return nil, &types.PlanSchemaError{Path: path, Message: err.Error()}
	}
	return &mp, nil
}

// EncodeBundle and DecodeBundle do the same for a minify-plan-dir bundle.
func EncodeBundle(b *Bundle) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

func DecodeBundle(path string, data []byte) (*Bundle, error) {
	var probe struct {
		FormatVersion json.RawMessage `json:"format_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &types.PlanSchemaError{Path: path, Message: err.Error()}
	}
	if err := checkVersion(path, probe.FormatVersion); err != nil {
		return nil, err
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, &types.PlanSchemaError{Path: path, Message: err.Error()}
	}
	return &b, nil
}

// checkVersion enforces the wire format's explicit ban on an
// integer-compatible format_version value and its "reject too new"
// compatibility rule.
func checkVersion(path string, raw json.RawMessage) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return &types.PlanSchemaError{Path: path, Message: "format_version must be a JSON string, not a number"}
	}
	if s > SupportedFormatVersion {
		return &types.ExitError{
			Code:    types.ExitPlanVersionError,
			Message: fmt.Sprintf("%s: plan format_version %q is newer than supported version %q", path, s, SupportedFormatVersion),
		}
	}
	return nil
}
