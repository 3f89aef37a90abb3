package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoTextLayer marks PDFs that parse but carry no extractable text, such
// as scanned minutes without OCR.
var ErrNoTextLayer = errors.New("pdf has no text layer")

// FromPDF reads the text layer page by page. Pages that fail to decode are
// skipped; the document fails only when no page yields text.
func FromPDF(input []byte) (doc Document, err error) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc, err = Document{}, fmt.Errorf("read pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(input), int64(len(input)))
	if err != nil {
		return Document{}, fmt.Errorf("open pdf: %w", err)
	}
	var b strings.Builder
	fonts := make(map[string]*pdf.Font)
	n := r.NumPage()
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, perr := page.GetPlainText(fonts)
		if perr != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return Document{Pages: n}, ErrNoTextLayer
	}
	return Document{Text: text, Pages: n}, nil
}
