package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// FromDOCX reads word/document.xml from the archive. Paragraphs become
// lines; numbered and bulleted paragraphs get a leading "- " so they split
// into items like bullets in PDF text.
func FromDOCX(input []byte) (Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(input), int64(len(input)))
	if err != nil {
		return Document{}, fmt.Errorf("open docx: %w", err)
	}
	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return Document{}, fmt.Errorf("word/document.xml not found in archive")
	}
	rc, err := docFile.Open()
	if err != nil {
		return Document{}, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	// depth counts open w:p elements; a text box nests whole paragraphs
	// inside the outer one and its text joins the outer line.
	var (
		lines    []string
		title    string
		cur      strings.Builder
		depth    int
		inText   bool
		numbered bool
		style    string
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Document{}, fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				if t.Name.Space != wordNS {
					continue
				}
				if depth == 0 {
					numbered, style = false, ""
					cur.Reset()
				} else {
					cur.WriteByte(' ')
				}
				depth++
				continue
			}
			switch t.Name.Local {
			case "numPr":
				numbered = numbered || depth == 1
			case "pStyle":
				if depth != 1 {
					continue
				}
				for _, a := range t.Attr {
					if a.Name.Local == "val" {
						style = a.Value
					}
				}
			case "t":
				inText = true
			case "tab":
				cur.WriteByte(' ')
			case "br", "cr":
				cur.WriteByte('\n')
			}
		case xml.CharData:
			if depth > 0 && inText {
				cur.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if t.Name.Space != wordNS || depth == 0 {
					continue
				}
				depth--
				if depth > 0 {
					continue
				}
				text := strings.TrimSpace(cur.String())
				if text == "" {
					continue
				}
				if title == "" && isTitleStyle(style) {
					title = text
				}
				if numbered || strings.HasPrefix(strings.ToLower(style), "list") {
					text = "- " + text
				}
				lines = append(lines, text)
			}
		}
	}
	return Document{Title: title, Text: strings.Join(lines, "\n")}, nil
}

func isTitleStyle(style string) bool {
	s := strings.ToLower(style)
	return s == "title" || strings.HasPrefix(s, "heading1") || strings.HasPrefix(s, "ttulo1") || strings.HasPrefix(s, "titulo1")
}
