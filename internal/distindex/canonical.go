package distindex

import "strings"

// Canonicalize implements PEP 503's name normalization: lowercase, with
// runs of `-`, `_`, `.` folded to a single hyphen (spec §3 "Distribution
// record... canonicalized").
func Canonicalize(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	lastWasSep := false
	for _, r := range lower {
		if r == '-' || r == '_' || r == '.' {
			if !lastWasSep && b.Len() > 0 {
				b.WriteByte('-')
				lastWasSep = true
			}
			continue
		}
		b.WriteRune(r)
		lastWasSep = false
	}
	return strings.Trim(b.String(), "-")
}
