// internal/document/document.go
// Package document loads raw source files into text and splits that text
// into the overlapping segments used for embedding and retrieval.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrSourceUnavailable marks a document that could not be read or parsed.
// Ingestion of that source fails as a whole; no partial result is produced.
var ErrSourceUnavailable = errors.New("document source unavailable")

// Document is the immutable result of loading one source file.
type Document struct {
	Name string
	Text string
}

// Segment is a contiguous slice of a document's text, the unit of
// embedding and retrieval.
type Segment struct {
	Doc   string
	Index int
	Text  string
}

// Load reads the file at path and extracts its text. The parser is chosen
// by extension: PDF content is extracted page by page, anything else is
// read as UTF-8 text.
func Load(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}

	name := filepath.Base(path)
	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = extractPDF(raw)
		if err != nil {
			return Document{}, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
		}
	default:
		text = string(raw)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Document{}, fmt.Errorf("%w: %s: no text content", ErrSourceUnavailable, path)
	}
	return Document{Name: name, Text: text}, nil
}

func extractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 0; i < numPages; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i+1, err)
		}
		buf.WriteString(text)
		if i < numPages-1 {
			buf.WriteByte('\n')
		}
	}
	return buf.String(), nil
}
