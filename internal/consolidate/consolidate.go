// Package consolidate merges records that describe the same item across a
// batch, for example a project listed in both the order of the day and the
// minutes of the same meeting.
package consolidate

import (
	"strconv"

	"github.com/hyperifyio/goactas/internal/normalize"
	"github.com/hyperifyio/goactas/internal/record"
)

// Key identifies a record for deduplication: its year and its title with
// case, accents and spacing folded away.
func Key(r record.Record) string {
	return strconv.Itoa(r.Year) + "\x1f" + normalize.Fold(r.Title)
}

// Dedupe keeps the first record for each Key, in input order. Blank fields
// of the kept record are filled from later duplicates. Records without a
// title are never merged.
func Dedupe(recs []record.Record) []record.Record {
	out := make([]record.Record, 0, len(recs))
	index := make(map[string]int, len(recs))
	for _, r := range recs {
		if normalize.Fold(r.Title) == "" {
			out = append(out, r)
			continue
		}
		k := Key(r)
		if i, ok := index[k]; ok {
			fill(&out[i], r)
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}

func fill(dst *record.Record, src record.Record) {
	set := func(d *string, s string) {
		if *d == "" {
			*d = s
		}
	}
	set(&dst.Act, src.Act)
	set(&dst.Date, src.Date)
	set(&dst.Unit, src.Unit)
	set(&dst.Director, src.Director)
	set(&dst.Status, src.Status)
	set(&dst.Destination, src.Destination)
	set(&dst.Grade, src.Grade)
	if dst.Topic == "" {
		dst.Topic = src.Topic
	}
}
