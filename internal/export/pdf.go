package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/goactas/internal/record"
)

// PDFOptions controls the summary report.
type PDFOptions struct {
	Title string
	// Columns selects header names to print; empty prints every column.
	Columns []string
	GeneratedAt time.Time
}

// maxCellRunes keeps long titles from blowing up row heights.
const maxCellRunes = 180

// WritePDFFile renders t as a landscape table, one row per record, with a
// title line and a record count. Column widths follow the header share of
// the page; text wraps inside cells.
func WritePDFFile(path string, t record.Table, opts PDFOptions) error {
	cols := pickColumns(t.Header, opts.Columns)
	if len(cols) == 0 {
		return fmt.Errorf("pdf: no columns to print")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	// Core fonts are cp1252; translate UTF-8 so accents survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	title := opts.Title
	if title == "" {
		title = "Actas"
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	when := opts.GeneratedAt
	if when.IsZero() {
		when = time.Now()
	}
	pdf.CellFormat(0, 5, tr("Registros: "+strconv.Itoa(len(t.Rows))+"  Generado: "+when.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	widths := columnWidths(t, cols, pageW-left-right)

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for i, c := range cols {
			pdf.CellFormat(widths[i], 6, tr(t.Header[c]), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 7)
	}
	header()

	const lineH = 3.5
	_, pageH := pdf.GetPageSize()
	for _, row := range t.Rows {
		cells := make([]string, len(cols))
		lines := 1
		for i, c := range cols {
			cells[i] = tr(clipRunes(cellAt(row, c), maxCellRunes))
			if n := len(pdf.SplitLines([]byte(cells[i]), widths[i]-1)); n > lines {
				lines = n
			}
		}
		h := float64(lines) * lineH
		if pdf.GetY()+h > pageH-10 {
			pdf.AddPage()
			header()
		}
		x, y := pdf.GetXY()
		for i := range cols {
			pdf.Rect(x, y, widths[i], h, "D")
			pdf.MultiCell(widths[i], lineH, cells[i], "", "L", false)
			x += widths[i]
			pdf.SetXY(x, y)
		}
		pdf.SetXY(left, y+h)
	}
	return pdf.OutputFileAndClose(path)
}

func pickColumns(header, want []string) []int {
	if len(want) == 0 {
		out := make([]int, len(header))
		for i := range header {
			out[i] = i
		}
		return out
	}
	var out []int
	for _, w := range want {
		for i, h := range header {
			if h == w {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// columnWidths shares total by the average cell length of each column,
// with a floor so short columns stay readable.
func columnWidths(t record.Table, cols []int, total float64) []float64 {
	weights := make([]float64, len(cols))
	sum := 0.0
	for i, c := range cols {
		n := len([]rune(t.Header[c]))
		for _, r := range t.Rows {
			n += len([]rune(clipRunes(cellAt(r, c), maxCellRunes)))
		}
		w := float64(n) / float64(len(t.Rows)+1)
		if w < 6 {
			w = 6
		}
		if w > 60 {
			w = 60
		}
		weights[i] = w
		sum += w
	}
	out := make([]float64, len(cols))
	for i, w := range weights {
		out[i] = total * w / sum
	}
	return out
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func clipRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
