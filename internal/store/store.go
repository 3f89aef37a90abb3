// Package store keeps extracted records in SQLite so batches can be
// compared and re-exported without re-reading the source files.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/hyperifyio/goactas/internal/record"
	"github.com/hyperifyio/goactas/internal/topic"
)

// ErrBatchNotFound is returned when a batch ID is unknown.
var ErrBatchNotFound = errors.New("batch not found")

// Batch describes one run.
type Batch struct {
	ID        string
	CreatedAt time.Time
	Schema    string
	Documents int
	Records   int
}

// Store is a SQLite-backed record sink.
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

const schema = `
CREATE TABLE IF NOT EXISTS batches (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	schema_name TEXT NOT NULL,
	documents   INTEGER NOT NULL,
	records     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	batch_id    TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	year        INTEGER NOT NULL DEFAULT 0,
	act         TEXT NOT NULL DEFAULT '',
	date        TEXT NOT NULL DEFAULT '',
	unit        TEXT NOT NULL DEFAULT '',
	topic       TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	director    TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT '',
	destination TEXT NOT NULL DEFAULT '',
	grade       TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (batch_id, seq)
);
CREATE INDEX IF NOT EXISTS records_year_title ON records(year, title);
`

// insertChunk bounds the rows per INSERT to stay under SQLite's host
// parameter limit.
const insertChunk = 200

var recordColumns = []string{
	"batch_id", "seq", "year", "act", "date", "unit", "topic",
	"title", "director", "status", "destination", "grade", "source",
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer; SQLite serializes anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Question)}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveBatch stores b and its records in one transaction. Records keep
// their order through the seq column. b.Records is set from recs.
func (s *Store) SaveBatch(ctx context.Context, b Batch, recs []record.Record) (err error) {
	if b.ID == "" {
		return errors.New("batch id is empty")
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.Records = len(recs)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = s.sb.Insert("batches").
		Columns("id", "created_at", "schema_name", "documents", "records").
		Values(b.ID, b.CreatedAt.UTC().Format(time.RFC3339Nano), b.Schema, b.Documents, b.Records).
		RunWith(tx).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	for start := 0; start < len(recs); start += insertChunk {
		end := min(start+insertChunk, len(recs))
		q := s.sb.Insert("records").Columns(recordColumns...)
		for i := start; i < end; i++ {
			r := recs[i]
			q = q.Values(b.ID, i, r.Year, r.Act, r.Date, r.Unit, string(r.Topic),
				r.Title, r.Director, r.Status, r.Destination, r.Grade, r.Source)
		}
		if _, err = q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert records: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Batches lists stored batches, newest first.
func (s *Store) Batches(ctx context.Context) ([]Batch, error) {
	rows, err := s.sb.Select("id", "created_at", "schema_name", "documents", "records").
		From("batches").
		OrderBy("created_at DESC").
		RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var (
			b       Batch
			created string
		)
		if err := rows.Scan(&b.ID, &created, &b.Schema, &b.Documents, &b.Records); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		if b.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Records returns the records of a batch in their original order.
func (s *Store) Records(ctx context.Context, batchID string) ([]record.Record, error) {
	var n int
	err := s.sb.Select("COUNT(*)").From("batches").Where(sq.Eq{"id": batchID}).
		RunWith(s.db).QueryRowContext(ctx).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("lookup batch: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", batchID, ErrBatchNotFound)
	}

	rows, err := s.sb.Select(recordColumns[2:]...).
		From("records").
		Where(sq.Eq{"batch_id": batchID}).
		OrderBy("seq").
		RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []record.Record
	for rows.Next() {
		var (
			r   record.Record
			top string
		)
		if err := rows.Scan(&r.Year, &r.Act, &r.Date, &r.Unit, &top,
			&r.Title, &r.Director, &r.Status, &r.Destination, &r.Grade, &r.Source); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Topic = topic.Category(top)
		out = append(out, r)
	}
	return out, rows.Err()
}
