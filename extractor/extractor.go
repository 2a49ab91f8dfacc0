package extractor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/passai/material-service/models"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrExtractionFailed    = errors.New("text extraction failed")
)

// Extractor converts raw file bytes into plain text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// Registry dispatches extraction by file type tag. One extractor is bound
// per tag at construction; lookups outside the closed set fail with
// ErrUnsupportedFileType.
type Registry struct {
	extractors map[models.FileType]Extractor
}

// NewRegistry binds the default extractor set. ocr handles the image tag;
// pass a client with an empty endpoint to run without an OCR backend.
func NewRegistry(ocr *OCRClient) *Registry {
	return &Registry{
		extractors: map[models.FileType]Extractor{
			models.FileTypePDF:   PDFExtractor{},
			models.FileTypeDOCX:  DOCXExtractor{},
			models.FileTypePPTX:  PPTXExtractor{},
			models.FileTypeImage: ocr,
			models.FileTypeText:  TextExtractor{},
		},
	}
}

// Extract runs the extractor bound to fileType and applies the shared
// post-filter to its output: trim surrounding whitespace and strip NUL
// bytes, which Postgres rejects in text columns. The filter applies to
// every extractor, not only the formats whose sources emit NUL.
func (r *Registry) Extract(fileType models.FileType, data []byte) (string, error) {
	ex, ok := r.extractors[fileType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, fileType)
	}
	text, err := ex.Extract(data)
	if err != nil {
		return "", err
	}
	return sanitize(text), nil
}

func sanitize(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\x00", ""))
}
