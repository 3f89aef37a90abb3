package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hyperifyio/goactas/internal/record"
)

// WriteXLSXFile writes t to the Actas sheet of a new workbook with a
// frozen, bold header row.
func WriteXLSXFile(path string, t record.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := fillSheet(f, SheetName, t); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func fillSheet(f *excelize.File, sheet string, t record.Table) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, t.Header); err != nil {
		return err
	}
	if len(t.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return err
		}
	}
	for i, row := range t.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func setRow(f *excelize.File, sheet string, n int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(cells))
	for i, c := range cells {
		vals[i] = c
	}
	return f.SetSheetRow(sheet, cell, &vals)
}

// ReadXLSXFile reads the Actas sheet, or the first sheet when there is no
// sheet by that name.
func ReadXLSXFile(path string) (record.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return record.Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheet := SheetName
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		list := f.GetSheetList()
		if len(list) == 0 {
			return record.Table{}, nil
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return record.Table{}, fmt.Errorf("read xlsx: %w", err)
	}
	return splitTable(rows), nil
}
