// Package rewrite applies a scope.ModulePlan to source bytes: it renames
// function-local bindings and deletes docstrings while preserving
// observable behavior byte-exactly outside of those edits (spec §4.5).
package rewrite

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// LineEnding records which line-terminator style a source buffer used, so
// the rewriter can reproduce it exactly (spec §5 "Encoding handling").
type LineEnding string

const (
	LF   LineEnding = "\n"
	CRLF LineEnding = "\r\n"
)

// EncodingInfo describes how a source buffer was decoded, so Apply can
// re-encode its output the same way.
type EncodingInfo struct {
	Name       string // "utf-8" or a PEP-263 codec name (e.g. "latin-1")
	HasBOM     bool
	LineEnding LineEnding
	codec      encoding.Encoding // nil for plain UTF-8
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// pep263 matches a coding cookie on the first or second line, per
// https://peps.python.org/pep-0263/: `# -*- coding: <name> -*-` or the
// looser `# coding: <name>` / `# coding=<name>` forms.
var pep263 = regexp.MustCompile(`coding[:=]\s*([-\w.]+)`)

// DetectEncoding inspects the first two lines for a BOM or PEP-263 coding
// cookie, defaulting to UTF-8 with no BOM. A recognized non-UTF-8 codec
// name resolves to its golang.org/x/text encoding.Encoding via the IANA
// index; an unresolvable name falls back to UTF-8 (the common case, and
// safer than guessing).
func DetectEncoding(raw []byte) EncodingInfo {
	info := EncodingInfo{Name: "utf-8", LineEnding: detectLineEnding(raw)}

	body := raw
	if bytes.HasPrefix(raw, utf8BOM) {
		info.HasBOM = true
		body = raw[len(utf8BOM):]
	}

	for i, line := range bytes.SplitN(body, []byte("\n"), 3) {
		if i >= 2 {
			break
		}
		if m := pep263.FindSubmatch(line); m != nil {
			name := strings.ToLower(string(m[1]))
			if info.HasBOM {
				break // a BOM always wins over a coding cookie
			}
			if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
				info.Name = name
				info.codec = enc
			}
			break
		}
	}

	return info
}

func detectLineEnding(raw []byte) LineEnding {
	if idx := bytes.IndexByte(raw, '\n'); idx > 0 && raw[idx-1] == '\r' {
		return CRLF
	}
	return LF
}

// Decode returns source bytes transcoded to UTF-8 (the coordinate space
// the tree-sitter parser and scope planner operate in), stripping any BOM.
// The returned bytes are what the parser must be given.
func Decode(raw []byte, info EncodingInfo) ([]byte, error) {
	body := raw
	if info.HasBOM {
		body = raw[len(utf8BOM):]
	}
	if info.codec == nil {
		return body, nil
	}
	out, _, err := transform.Bytes(info.codec.NewDecoder(), body)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Encode transcodes rewritten UTF-8 bytes back to the original encoding
// and reapplies a stripped BOM.
func Encode(body []byte, info EncodingInfo) ([]byte, error) {
	out := body
	if info.codec != nil {
		transcoded, _, err := transform.Bytes(info.codec.NewEncoder(), body)
		if err != nil {
			return nil, err
		}
		out = transcoded
	}
	if info.HasBOM {
		withBOM := make([]byte, 0, len(utf8BOM)+len(out))
		withBOM = append(withBOM, utf8BOM...)
		withBOM = append(withBOM, out...)
		return withBOM, nil
	}
	return out, nil
}
