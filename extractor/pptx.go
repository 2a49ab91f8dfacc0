package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type PPTXExtractor struct{}

func (PPTXExtractor) Extract(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pptx archive: %v", ErrExtractionFailed, err)
	}

	slides := make([]*zip.File, 0, len(archive.File))
	for _, file := range archive.File {
		if strings.HasPrefix(file.Name, "ppt/slides/slide") && strings.HasSuffix(file.Name, ".xml") {
			slides = append(slides, file)
		}
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("%w: pptx has no slides", ErrExtractionFailed)
	}
	sort.Slice(slides, func(i, j int) bool {
		return slideIndex(slides[i].Name) < slideIndex(slides[j].Name)
	})

	var sb strings.Builder
	for _, slide := range slides {
		rc, err := slide.Open()
		if err != nil {
			return "", fmt.Errorf("%w: open %s: %v", ErrExtractionFailed, slide.Name, err)
		}
		text, err := collectRunText(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: parse %s: %v", ErrExtractionFailed, slide.Name, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func slideIndex(name string) int {
	n := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
	index, err := strconv.Atoi(n)
	if err != nil {
		return 0
	}
	return index
}
