package extractor

import (
	"errors"
	"testing"
)

func TestPDFExtractMalformed(t *testing.T) {
	_, err := PDFExtractor{}.Extract([]byte("%PDF-1.7 truncated garbage"))
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("Extract() error = %v, want ErrExtractionFailed", err)
	}
}
