// Package sheets publishes a record table to a Google Sheets worksheet,
// replacing whatever the worksheet held before.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/hyperifyio/goactas/internal/record"
)

// DefaultWorksheet is the tab name used when none is configured.
const DefaultWorksheet = "Actas"

// Service is the subset of the Sheets API the uploader needs.
type Service interface {
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	AddSheet(ctx context.Context, spreadsheetID, title string, rows, cols int) error
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error
}

// Google implements Service with the Sheets v4 API.
type Google struct {
	srv *gsheets.Service
}

// NewGoogle authenticates with a service-account key file. An empty path
// falls back to Application Default Credentials.
func NewGoogle(ctx context.Context, credentialsFile string) (*Google, error) {
	opts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	srv, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &Google{srv: srv}, nil
}

func (g *Google) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	ss, err := g.srv.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			out = append(out, sh.Properties.Title)
		}
	}
	return out, nil
}

func (g *Google) AddSheet(ctx context.Context, spreadsheetID, title string, rows, cols int) error {
	req := &gsheets.BatchUpdateSpreadsheetRequest{Requests: []*gsheets.Request{{
		AddSheet: &gsheets.AddSheetRequest{Properties: &gsheets.SheetProperties{
			Title: title,
			GridProperties: &gsheets.GridProperties{
				RowCount:    int64(rows),
				ColumnCount: int64(cols),
			},
		}},
	}}}
	_, err := g.srv.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

func (g *Google) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := g.srv.Spreadsheets.Values.Clear(spreadsheetID, rng, &gsheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (g *Google) Update(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	vr := &gsheets.ValueRange{Range: rng, MajorDimension: "ROWS", Values: values}
	_, err := g.srv.Spreadsheets.Values.Update(spreadsheetID, rng, vr).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// Minimum grid of a newly added worksheet.
const (
	minRows = 1000
	minCols = 20
)

// Upsert makes sure the worksheet exists, clears it and writes the header
// and rows starting at A1. It returns the number of data rows written.
func Upsert(ctx context.Context, svc Service, spreadsheetID, worksheet string, t record.Table) (int, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return 0, errors.New("spreadsheet id is empty")
	}
	if worksheet == "" {
		worksheet = DefaultWorksheet
	}
	titles, err := svc.SheetTitles(ctx, spreadsheetID)
	if err != nil {
		return 0, fmt.Errorf("open spreadsheet: %w", err)
	}
	if !contains(titles, worksheet) {
		rows := max(minRows, len(t.Rows)+1)
		cols := max(minCols, len(t.Header))
		if err := svc.AddSheet(ctx, spreadsheetID, worksheet, rows, cols); err != nil {
			return 0, fmt.Errorf("add worksheet %q: %w", worksheet, err)
		}
	}
	whole := quoteSheet(worksheet)
	if err := svc.Clear(ctx, spreadsheetID, whole); err != nil {
		return 0, fmt.Errorf("clear worksheet %q: %w", worksheet, err)
	}
	values := make([][]interface{}, 0, len(t.Rows)+1)
	values = append(values, cells(t.Header))
	for _, r := range t.Rows {
		values = append(values, cells(r))
	}
	if err := svc.Update(ctx, spreadsheetID, whole+"!A1", values); err != nil {
		return 0, fmt.Errorf("write worksheet %q: %w", worksheet, err)
	}
	return len(t.Rows), nil
}

// quoteSheet renders a sheet name for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func cells(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, c := range row {
		out[i] = c
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
