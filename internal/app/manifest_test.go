package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/goactas/internal/extract"
	"github.com/hyperifyio/goactas/internal/record"
)

func TestBuildManifestEntries_KeepsOrderAndErrors(t *testing.T) {
	docs := []DocResult{
		{Source: "a.pdf", Format: extract.FormatPDF, SHA256: computeSHA256Hex([]byte("a")), Chars: 120, Records: make([]record.Record, 3)},
		{Source: "b.pdf", Format: extract.FormatPDF, Err: errors.New("b.pdf: document has no readable text")},
	}
	entries := buildManifestEntries(docs)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries; got %d", len(entries))
	}
	if entries[0].Index != 1 || entries[0].Records != 3 || entries[0].Format != "pdf" || len(entries[0].SHA256) != 64 {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Index != 2 || entries[1].Error == "" || entries[1].Records != 0 {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
}

func TestMarshalManifestJSON(t *testing.T) {
	meta := manifestMeta{BatchID: "b-1", Schema: "extended", Documents: 1, Records: 2, GeneratedAt: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}
	b, err := marshalManifestJSON(meta, []manifestEntry{{Index: 1, File: "a.pdf", Records: 2}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(b)
	for _, want := range []string{`"batch_id": "b-1"`, `"generated_at": "2024-03-15T00:00:00Z"`, `"file": "a.pdf"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in:\n%s", want, out)
		}
	}
	if strings.Contains(out, `"error"`) {
		t.Fatalf("empty error should be omitted:\n%s", out)
	}
}

func TestDeriveManifestSidecarPath(t *testing.T) {
	if got := deriveManifestSidecarPath("out/actas.csv"); got != "out/actas.csv.manifest.json" {
		t.Fatalf("got %q", got)
	}
}
