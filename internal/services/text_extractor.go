package services

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

type TextExtractor interface {
	ExtractText(filename string, data []byte) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

var (
	xmlTagPattern   = regexp.MustCompile(`<[^>]+>`)
	docxTabPattern  = regexp.MustCompile(`<w:tab(\s[^>]*)?/>`)
	docxLinePattern = regexp.MustCompile(`<w:(br|cr)(\s[^>]*)?/>|</w:p>`)
)

// ExtractText picks a decoder from the file extension.
func (t *textExtractor) ExtractText(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDFText(data)
	case ".docx":
		text, err = extractDocxText(data)
	case ".txt", ".md":
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(filename))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	text = CleanText(text)
	if text == "" {
		return "", fmt.Errorf("%w: no text content found in %s", ErrExtraction, filename)
	}

	return text, nil
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// skip unreadable pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = docxTabPattern.ReplaceAllString(content, " ")
	content = docxLinePattern.ReplaceAllString(content, "\n")
	content = xmlTagPattern.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
