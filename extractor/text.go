package extractor

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

type TextExtractor struct{}

// Extract decodes plain text as UTF-8 when valid, otherwise falls back to
// a single-byte Latin-1 decode.
func (TextExtractor) Extract(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: decode text: %v", ErrExtractionFailed, err)
	}
	return string(decoded), nil
}
