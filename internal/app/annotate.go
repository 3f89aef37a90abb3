package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goactas/internal/export"
	"github.com/hyperifyio/goactas/internal/header"
	"github.com/hyperifyio/goactas/internal/record"
)

// ErrEmptyTable is returned when the table to annotate has no data rows.
var ErrEmptyTable = errors.New("table has no rows")

// AnnotateYear returns a copy of t with an Año column in first position,
// inferred from each row's Fecha cell. A table without a Fecha column gets
// an empty Año column. An existing Año column is replaced.
func AnnotateYear(t record.Table, ex *header.Extractor) record.Table {
	dateCol := -1
	yearCol := -1
	for i, h := range t.Header {
		switch h {
		case record.ColDate:
			dateCol = i
		case record.ColYear:
			yearCol = i
		}
	}
	out := record.Table{Header: make([]string, 0, len(t.Header)+1), Rows: make([][]string, 0, len(t.Rows))}
	out.Header = append(out.Header, record.ColYear)
	out.Header = append(out.Header, dropIndex(t.Header, yearCol)...)
	for _, r := range t.Rows {
		year := ""
		if dateCol >= 0 && dateCol < len(r) {
			if y := ex.InferYear(r[dateCol]); y != 0 {
				year = strconv.Itoa(y)
			}
		}
		row := make([]string, 0, len(r)+1)
		row = append(row, year)
		row = append(row, dropIndex(r, yearCol)...)
		out.Rows = append(out.Rows, row)
	}
	return out
}

func dropIndex(cells []string, i int) []string {
	if i < 0 || i >= len(cells) {
		return cells
	}
	out := make([]string, 0, len(cells)-1)
	out = append(out, cells[:i]...)
	return append(out, cells[i+1:]...)
}

func (a *App) annotate(ctx context.Context) error {
	t, err := export.ReadFile(a.cfg.Annotate)
	if err != nil {
		return fmt.Errorf("read %s: %w", a.cfg.Annotate, err)
	}
	if len(t.Rows) == 0 {
		return fmt.Errorf("%s: %w", a.cfg.Annotate, ErrEmptyTable)
	}
	out := AnnotateYear(t, a.years)
	log.Info().Str("in", a.cfg.Annotate).Int("rows", len(out.Rows)).Msg("added Año column")

	for _, p := range []string{a.cfg.OutputCSV, a.cfg.OutputXLSX} {
		if p == "" {
			continue
		}
		if err := export.WriteFile(p, out); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
		log.Info().Str("out", p).Msg("wrote output")
	}
	if a.cfg.SheetID != "" {
		if err := a.upload(ctx, out); err != nil {
			return fmt.Errorf("sheets: %w", err)
		}
	}
	return nil
}
