package cmd

import (
	"github.com/trimport/trimport/internal/rewrite"
)

// rewriteEncodingOf is a thin convenience wrapper so verb commands don't
// each import internal/rewrite just for encoding detection.
func rewriteEncodingOf(raw []byte) rewrite.EncodingInfo {
	return rewrite.DetectEncoding(raw)
}

func decodeForParse(raw []byte, info rewrite.EncodingInfo) ([]byte, error) {
	return rewrite.Decode(raw, info)
}

func encodeForWrite(body []byte, info rewrite.EncodingInfo) ([]byte, error) {
	return rewrite.Encode(body, info)
}
