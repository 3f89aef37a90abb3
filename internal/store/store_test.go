package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperifyio/goactas/internal/record"
	"github.com/hyperifyio/goactas/internal/topic"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "actas.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndReadBatch(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	var recs []record.Record
	for i := 0; i < 450; i++ {
		recs = append(recs, record.Record{
			Year: 2024, Act: "345", Topic: topic.ProgressReports,
			Title: fmt.Sprintf("Proyecto %03d", i), Source: "acta_345.pdf",
		})
	}
	b := Batch{ID: "b1", Schema: "extended", Documents: 1, CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	if err := s.SaveBatch(ctx, b, recs); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Records(ctx, "b1")
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(got) != len(recs) {
		t.Fatalf("got %d records want %d", len(got), len(recs))
	}
	for i := range got {
		if got[i] != recs[i] {
			t.Fatalf("record %d: got %+v want %+v", i, got[i], recs[i])
		}
	}
	batches, err := s.Batches(ctx)
	if err != nil || len(batches) != 1 {
		t.Fatalf("batches: %v %+v", err, batches)
	}
	if batches[0].Records != 450 || !batches[0].CreatedAt.Equal(b.CreatedAt) {
		t.Fatalf("unexpected batch %+v", batches[0])
	}
}

func TestDuplicateBatchRollsBack(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	recs := []record.Record{{Title: "A"}}
	if err := s.SaveBatch(ctx, Batch{ID: "b1"}, recs); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveBatch(ctx, Batch{ID: "b1"}, recs); err == nil {
		t.Fatalf("expected error for duplicate batch id")
	}
	got, err := s.Records(ctx, "b1")
	if err != nil || len(got) != 1 {
		t.Fatalf("records after failed save: %v %d", err, len(got))
	}
}

func TestUnknownBatch(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Records(context.Background(), "nope"); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("expected ErrBatchNotFound, got %v", err)
	}
	if err := s.SaveBatch(context.Background(), Batch{}, nil); err == nil {
		t.Fatalf("expected error for empty id")
	}
}
