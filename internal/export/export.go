// Package export writes record tables as CSV, XLSX and PDF, and reads CSV
// and XLSX tables back.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/goactas/internal/record"
)

// SheetName is the worksheet used for XLSX output.
const SheetName = "Actas"

// WriteFile writes t to path, choosing the format from the extension.
func WriteFile(path string, t record.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSVFile(path, t)
	case ".xlsx":
		return WriteXLSXFile(path, t)
	case ".pdf":
		return WritePDFFile(path, t, PDFOptions{})
	}
	return fmt.Errorf("unsupported output extension %q", filepath.Ext(path))
}

// ReadFile reads a CSV or XLSX table. The first row is the header.
func ReadFile(path string) (record.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return record.Table{}, err
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSXFile(path)
	}
	return record.Table{}, fmt.Errorf("unsupported input extension %q", filepath.Ext(path))
}

func splitTable(rows [][]string) record.Table {
	if len(rows) == 0 {
		return record.Table{}
	}
	t := record.Table{Header: rows[0], Rows: make([][]string, 0, len(rows)-1)}
	for _, r := range rows[1:] {
		// Pad short rows so every row matches the header width.
		if len(r) < len(t.Header) {
			r = append(r, make([]string, len(t.Header)-len(r))...)
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}
