package extract

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FromText decodes plain text. Input that is not valid UTF-8 is read as
// Windows-1252, the usual encoding of text exported from office suites.
func FromText(input []byte) Document {
	input = bytes.TrimPrefix(input, utf8BOM)
	if utf8.Valid(input) {
		return Document{Text: string(input)}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(input)
	if err != nil {
		return Document{Text: string(bytes.ToValidUTF8(input, []byte("�")))}
	}
	return Document{Text: string(out)}
}
