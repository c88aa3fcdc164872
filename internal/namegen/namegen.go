// Package namegen implements the deterministic short-identifier sequence
// used by the scope planner (spec §4.4): single lowercase letters, then
// two-letter, three-letter, and so on, treating the alphabet as base-26
// with `a` as the zero digit. Candidates colliding with a keyword, a
// builtin, `_`, or an already-taken name are skipped, never numbered
// around.
package namegen

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Sequence produces successive base-26 identifiers starting from "a".
type Sequence struct {
	n int // next ordinal to render, 0-indexed
}

// NewSequence returns a fresh Sequence starting at "a". A planner resets
// the generator's state per function (spec §4.3 "Determinism").
func NewSequence() *Sequence {
	return &Sequence{}
}

// render returns the base-26 identifier for ordinal n (0 -> "a", 25 ->
// "z", 26 -> "aa", ...).
func render(n int) string {
	// This is bijective base-26: unlike ordinary base-26, there is no
	// digit for "nothing", so each position's digit set is 'a'..'z' and
	// the length grows by one every 26^k boundary without a leading zero.
	digits := make([]byte, 0, 4)
	for {
		digits = append(digits, alphabet[n%26])
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	// reverse in place
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// Next advances the sequence and returns the next candidate not rejected by
// taken. taken should return true for keywords, builtins, `_`, and any name
// already present in the function's identifier surface.
func (s *Sequence) Next(taken func(string) bool) string {
	for {
		candidate := render(s.n)
		s.n++
		if taken != nil && taken(candidate) {
			continue
		}
		return candidate
	}
}
