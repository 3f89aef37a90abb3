// Package extract turns the bytes of a minutes file into plain text. HTML,
// PDF, DOCX and plain text inputs are supported.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is the text recovered from one file.
type Document struct {
	Title  string
	Text   string
	Format Format
	// Pages is the page count for paged formats, zero otherwise.
	Pages int
}

// Format names an input format.
type Format string

const (
	FormatUnknown Format = ""
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatHTML    Format = "html"
	FormatText    Format = "txt"
)

// ErrUnsupported is returned for files whose format cannot be read.
var ErrUnsupported = errors.New("unsupported format")

// Detect picks a format from the file name, falling back to the leading
// bytes when the extension is missing or unknown.
func Detect(name string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".html", ".htm":
		return FormatHTML
	case ".txt", ".text":
		return FormatText
	}
	switch {
	case bytes.HasPrefix(head, []byte("%PDF-")):
		return FormatPDF
	case bytes.HasPrefix(head, []byte("PK\x03\x04")):
		return FormatDOCX
	}
	lower := bytes.ToLower(head[:min(len(head), 512)])
	if bytes.Contains(lower, []byte("<html")) || bytes.Contains(lower, []byte("<!doctype html")) {
		return FormatHTML
	}
	return FormatUnknown
}

// Supported reports whether name has an extension this package reads.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".docx", ".html", ".htm", ".txt", ".text":
		return true
	}
	return false
}

// FromBytes extracts text from b, choosing the reader by format.
func FromBytes(name string, b []byte) (Document, error) {
	f := Detect(name, b)
	ex, ok := ForFormat(f)
	if !ok {
		return Document{}, fmt.Errorf("%s: %w", name, ErrUnsupported)
	}
	doc, err := ex.Extract(b)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", name, err)
	}
	doc.Format = f
	return doc, nil
}

// File reads path and extracts its text.
func File(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return FromBytes(path, b)
}
