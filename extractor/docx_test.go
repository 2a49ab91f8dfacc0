package extractor

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

const docxDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestDOCXExtract(t *testing.T) {
	data := buildArchive(t, map[string]string{
		"word/document.xml": docxDocument,
		"word/styles.xml":   `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	})

	got, err := DOCXExtractor{}.Extract(data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := "First paragraph.\nSecond paragraph.\n"
	if got != want {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestDOCXExtractMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "not a zip", data: []byte("plainly not an archive")},
		{name: "zip without document.xml", data: nil},
	}
	tests[1].data = buildArchive(t, map[string]string{"word/styles.xml": "<x/>"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DOCXExtractor{}.Extract(tt.data)
			if !errors.Is(err, ErrExtractionFailed) {
				t.Errorf("Extract() error = %v, want ErrExtractionFailed", err)
			}
		})
	}
}
