// Package record defines the output row and the column layouts it is
// written in.
package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperifyio/goactas/internal/fields"
	"github.com/hyperifyio/goactas/internal/header"
	"github.com/hyperifyio/goactas/internal/topic"
)

// Record is one output row.
type Record struct {
	Year        int            `json:"year,omitempty"`
	Act         string         `json:"act"`
	Date        string         `json:"date"`
	Unit        string         `json:"unit"`
	Topic       topic.Category `json:"topic"`
	Title       string         `json:"title"`
	Director    string         `json:"director"`
	Status      string         `json:"status"`
	Destination string         `json:"destination"`
	Grade       string         `json:"grade"`
	Source      string         `json:"source"`
}

// Assemble builds a Record from document metadata and item fields.
func Assemble(meta header.Metadata, source, unit string, category topic.Category, f fields.Fields) Record {
	return Record{
		Year:        meta.Year,
		Act:         meta.Act,
		Date:        meta.Date,
		Unit:        unit,
		Topic:       category,
		Title:       f.Title,
		Director:    f.Director,
		Status:      f.Status,
		Destination: f.Destination,
		Grade:       f.Grade,
		Source:      source,
	}
}

// YearText renders Year, or "" when unknown.
func (r Record) YearText() string {
	if r.Year == 0 {
		return ""
	}
	return strconv.Itoa(r.Year)
}

// Column names.
const (
	ColYear        = "Año"
	ColAct         = "Acta"
	ColDate        = "Fecha"
	ColUnit        = "Facultad"
	ColTopic       = "Tipo_tema"
	ColTitle       = "Titulo_o_denominacion"
	ColDirector    = "Director"
	ColStatus      = "Estado"
	ColDestination = "Destino_publicacion"
	ColGrade       = "Categoria"
	ColSource      = "Fuente_archivo"
)

// Column names a header cell and how to fill it.
type Column struct {
	Name  string
	Value func(Record) string
}

var (
	yearCol        = Column{ColYear, Record.YearText}
	actCol         = Column{ColAct, func(r Record) string { return r.Act }}
	dateCol        = Column{ColDate, func(r Record) string { return r.Date }}
	unitCol        = Column{ColUnit, func(r Record) string { return r.Unit }}
	topicCol       = Column{ColTopic, func(r Record) string { return string(r.Topic) }}
	titleCol       = Column{ColTitle, func(r Record) string { return r.Title }}
	directorCol    = Column{ColDirector, func(r Record) string { return r.Director }}
	statusCol      = Column{ColStatus, func(r Record) string { return r.Status }}
	destinationCol = Column{ColDestination, func(r Record) string { return r.Destination }}
	gradeCol       = Column{ColGrade, func(r Record) string { return r.Grade }}
	sourceCol      = Column{ColSource, func(r Record) string { return r.Source }}
)

// Schema is an ordered list of columns.
type Schema struct {
	Name    string
	Columns []Column
}

// Schema names accepted by ParseSchema.
const (
	SchemaBasic    = "basic"
	SchemaExtended = "extended"
	SchemaWide     = "wide"
)

// Basic is the nine-column layout.
func Basic() Schema {
	return Schema{Name: SchemaBasic, Columns: []Column{
		yearCol, actCol, dateCol, unitCol, topicCol, titleCol, directorCol, statusCol, sourceCol,
	}}
}

// Extended adds publication destination and categorization grade.
func Extended() Schema {
	return Schema{Name: SchemaExtended, Columns: []Column{
		yearCol, actCol, dateCol, unitCol, topicCol, titleCol, directorCol, statusCol,
		destinationCol, gradeCol, sourceCol,
	}}
}

// Wide spreads title, director and unit into one column group per topic so
// each row fills only the group of its own topic.
func Wide(categories []topic.Category) Schema {
	cols := []Column{yearCol, actCol, dateCol, topicCol}
	for _, c := range categories {
		cat := c
		suffix := columnSuffix(cat)
		only := func(get func(Record) string) func(Record) string {
			return func(r Record) string {
				if r.Topic != cat {
					return ""
				}
				return get(r)
			}
		}
		cols = append(cols,
			Column{ColTitle + "_" + suffix, only(titleCol.Value)},
			Column{ColDirector + "_" + suffix, only(directorCol.Value)},
			Column{ColUnit + "_" + suffix, only(unitCol.Value)},
		)
	}
	cols = append(cols, statusCol, destinationCol, gradeCol, sourceCol)
	return Schema{Name: SchemaWide, Columns: cols}
}

func columnSuffix(c topic.Category) string {
	return strings.Join(strings.Fields(string(c)), "_")
}

// ParseSchema resolves a schema name. Wide needs the topic enumeration.
func ParseSchema(name string, categories []topic.Category) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SchemaExtended:
		return Extended(), nil
	case SchemaBasic:
		return Basic(), nil
	case SchemaWide:
		return Wide(categories), nil
	}
	return Schema{}, fmt.Errorf("unknown schema %q", name)
}

// Header returns the column names.
func (s Schema) Header() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

// Row renders rec in column order. Every cell is present.
func (s Schema) Row(rec Record) []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Value(rec)
	}
	return out
}

// Table is a header plus rendered rows, the form writers consume.
type Table struct {
	Header []string
	Rows   [][]string
}

// Table renders recs in input order.
func (s Schema) Table(recs []Record) Table {
	t := Table{Header: s.Header(), Rows: make([][]string, 0, len(recs))}
	for _, r := range recs {
		t.Rows = append(t.Rows, s.Row(r))
	}
	return t
}
