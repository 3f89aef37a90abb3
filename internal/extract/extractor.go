package extract

// Extractor converts the raw bytes of one format into a Document.
// Implementations are stateless and safe for concurrent use.
type Extractor interface {
	Extract(input []byte) (Document, error)
}

// HTMLExtractor reads HTML exports of the minutes.
type HTMLExtractor struct{}

func (HTMLExtractor) Extract(input []byte) (Document, error) {
	return FromHTML(input), nil
}

// PDFExtractor reads the text layer of PDF files.
type PDFExtractor struct{}

func (PDFExtractor) Extract(input []byte) (Document, error) {
	return FromPDF(input)
}

// DOCXExtractor reads Word documents.
type DOCXExtractor struct{}

func (DOCXExtractor) Extract(input []byte) (Document, error) {
	return FromDOCX(input)
}

// TextExtractor reads plain text in UTF-8 or Latin-1.
type TextExtractor struct{}

func (TextExtractor) Extract(input []byte) (Document, error) {
	return FromText(input), nil
}

// ForFormat returns the Extractor for f.
func ForFormat(f Format) (Extractor, bool) {
	switch f {
	case FormatPDF:
		return PDFExtractor{}, true
	case FormatDOCX:
		return DOCXExtractor{}, true
	case FormatHTML:
		return HTMLExtractor{}, true
	case FormatText:
		return TextExtractor{}, true
	}
	return nil, false
}
