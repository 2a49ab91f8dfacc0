package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

type DOCXExtractor struct{}

func (DOCXExtractor) Extract(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open docx archive: %v", ErrExtractionFailed, err)
	}

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: open document.xml: %v", ErrExtractionFailed, err)
		}
		defer rc.Close()

		text, err := collectRunText(rc)
		if err != nil {
			return "", fmt.Errorf("%w: parse document.xml: %v", ErrExtractionFailed, err)
		}
		return text, nil
	}
	return "", fmt.Errorf("%w: docx has no word/document.xml", ErrExtractionFailed)
}

// collectRunText walks OOXML tokens collecting character data inside <t>
// runs, with a newline per closed paragraph. Shared by docx and pptx since
// wordprocessing and drawing ML use the same local element names.
func collectRunText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	inRun := false
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch el := token.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inRun = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inRun = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inRun {
				sb.Write(el)
			}
		}
	}
	return sb.String(), nil
}
