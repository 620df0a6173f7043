// Package parser extracts plain text from uploaded documents.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"ragqa/internal/domain"
)

// Extensions lists the file types Parse accepts.
var Extensions = []string{".txt", ".pdf"}

// Files parses .txt and .pdf documents. Extensions match case-insensitively.
type Files struct{}

// New returns a parser for the supported extensions.
func New() *Files { return &Files{} }

// Supported reports whether filename carries an extension Parse accepts.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Parse reads r fully and returns the document text.
func (Files) Parse(filename string, r io.Reader) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return parseText(filename, r)
	case ".pdf":
		return parsePDF(filename, r)
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, filename)
	}
}

func parseText(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrInvalidDocument, filename)
	}
	return string(data), nil
}

func parsePDF(filename string, r io.Reader) (text string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("%w: %s: malformed pdf: %v", domain.ErrInvalidDocument, filename, p)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrInvalidDocument, filename, err)
	}
	pages := make([]string, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: %s page %d: %w", domain.ErrInvalidDocument, filename, i, err)
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n"), nil
}
