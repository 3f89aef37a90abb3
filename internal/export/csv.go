package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/hyperifyio/goactas/internal/record"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes a UTF-8, comma separated table with a header row.
func WriteCSV(w io.Writer, t record.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteCSVFile writes t to path.
func WriteCSVFile(path string, t record.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := WriteCSV(bw, t); err != nil {
		_ = f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV reads a table written by WriteCSV or exported by a spreadsheet.
// A leading byte order mark is ignored and ragged rows are accepted.
func ReadCSV(r io.Reader) (record.Table, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && string(b) == string(utf8BOM) {
		_, _ = br.Discard(3)
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return record.Table{}, fmt.Errorf("read csv: %w", err)
	}
	return splitTable(rows), nil
}
