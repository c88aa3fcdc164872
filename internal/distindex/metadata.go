package distindex

import (
	"bufio"
	"bytes"
	"strings"
)

// metadataFields is the decoded subset of a dist-info METADATA file this
// system needs: Name, Version, and every Requires-Dist line (spec §4.6
// "Parse METADATA for Name and Version", §4.7 item 3).
type metadataFields struct {
	Name         string
	Version      string
	RequiresDist []string
}

// parseMetadata reads RFC 822-style "Key: value" headers, the
// email-message format dist-info METADATA files use. Continuation lines
// (leading whitespace) are not folded into the previous value; those
// following a Requires-Dist header are skipped.
func parseMetadata(data []byte) metadataFields {
	var fields metadataFields
	var lastKey string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break // blank line ends the header block; body (long description) follows
		}
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && lastKey == "Requires-Dist" {
			continue // continuation of a wrapped Requires-Dist value, rare; ignore overflow
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		lastKey = key
		switch key {
		case "Name":
			fields.Name = value
		case "Version":
			fields.Version = value
		case "Requires-Dist":
			fields.RequiresDist = append(fields.RequiresDist, value)
		}
	}
	return fields
}
