package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/passai/material-service/models"
)

func TestRegistryExtract(t *testing.T) {
	registry := NewRegistry(NewOCRClient(""))

	tests := []struct {
		name     string
		fileType models.FileType
		data     []byte
		want     string
		wantErr  error
	}{
		{
			name:     "plain text passes through",
			fileType: models.FileTypeText,
			data:     []byte("hello world"),
			want:     "hello world",
		},
		{
			name:     "surrounding whitespace trimmed",
			fileType: models.FileTypeText,
			data:     []byte("  \n\thello\n  "),
			want:     "hello",
		},
		{
			name:     "nul bytes stripped",
			fileType: models.FileTypeText,
			data:     []byte("he\x00llo\x00"),
			want:     "hello",
		},
		{
			name:     "unknown tag rejected",
			fileType: models.FileType("video"),
			data:     []byte("x"),
			wantErr:  ErrUnsupportedFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.Extract(tt.fileType, tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Extract() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextExtractorLatin1Fallback(t *testing.T) {
	// 0xE9 is é in Latin-1 but not valid UTF-8 on its own.
	data := []byte("caf\xe9")
	got, err := TextExtractor{}.Extract(data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "café" {
		t.Errorf("Extract() = %q, want %q", got, "café")
	}
}

func TestTextExtractorUTF8(t *testing.T) {
	data := []byte("日本語 text")
	got, err := TextExtractor{}.Extract(data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "日本語 text" {
		t.Errorf("Extract() = %q", got)
	}
}

func TestSanitizeKeepsInteriorWhitespace(t *testing.T) {
	got := sanitize("  line one\nline two  ")
	if !strings.Contains(got, "\n") {
		t.Errorf("sanitize collapsed interior newline: %q", got)
	}
	if got != "line one\nline two" {
		t.Errorf("sanitize() = %q", got)
	}
}
