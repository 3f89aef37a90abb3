// Package pipeline turns the plain text of one council acta into records:
// normalize, read the header, cut sections, blocks and items, drop the
// narrative, extract fields and assemble rows.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/goactas/internal/fields"
	"github.com/hyperifyio/goactas/internal/filter"
	"github.com/hyperifyio/goactas/internal/header"
	"github.com/hyperifyio/goactas/internal/normalize"
	"github.com/hyperifyio/goactas/internal/record"
	"github.com/hyperifyio/goactas/internal/segment"
	"github.com/hyperifyio/goactas/internal/topic"
)

// Document is one input: its extracted text and the name it came from.
type Document struct {
	Source string
	Text   string
}

// Stats counts what happened to the items of one document.
type Stats struct {
	Sections int `json:"sections"`
	Blocks   int `json:"blocks"`
	Items    int `json:"items"`
	Filtered int `json:"filtered"`
	Untitled int `json:"untitled"`
	Records  int `json:"records"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Sections += o.Sections
	s.Blocks += o.Blocks
	s.Items += o.Items
	s.Filtered += o.Filtered
	s.Untitled += o.Untitled
	s.Records += o.Records
}

// Result is the outcome of Run.
type Result struct {
	Meta    header.Metadata
	Records []record.Record
	Stats   Stats
}

// Trace describes one item on its way through the pipeline.
type Trace struct {
	Section topic.Category
	Unit    string
	Item    string
	Verdict filter.Verdict
	Fields  fields.Fields
	// TitleStep names the strategy that produced the title.
	TitleStep string
	// Emitted is false for filtered and untitled items.
	Emitted bool
}

// Pipeline is immutable after New and safe for concurrent use.
type Pipeline struct {
	header     *header.Extractor
	classifier *topic.Classifier
	segmenter  *segment.Segmenter
	filter     *filter.Filter
	fields     *fields.Extractor
}

// New validates cfg and compiles every table.
func New(cfg Config) (*Pipeline, error) {
	classifier, err := topic.New(cfg.Topics)
	if err != nil {
		return nil, err
	}
	defs := classifier.Definitions()
	seg, err := segment.New(defs, cfg.Segment)
	if err != nil {
		return nil, err
	}
	flt, err := filter.New(cfg.Filter)
	if err != nil {
		return nil, err
	}
	fc := cfg.Fields
	// Section headings never make a title on their own.
	fc.NonTitlePrefixes = append([]string(nil), fc.NonTitlePrefixes...)
	for _, d := range defs {
		for _, h := range d.SectionPatterns() {
			fc.NonTitlePrefixes = append(fc.NonTitlePrefixes, `(?:`+h+`)\s*[.:]?\s*$`)
		}
	}
	fx, err := fields.New(fc)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		header:     header.New(cfg.Header),
		classifier: classifier,
		segmenter:  seg,
		filter:     flt,
		fields:     fx,
	}, nil
}

// MustNew is New for configurations known to be valid, such as the
// embedded defaults.
func MustNew(cfg Config) *Pipeline {
	p, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf("pipeline: %v", err))
	}
	return p
}

// Categories returns the topic enumeration in priority order.
func (p *Pipeline) Categories() []topic.Category {
	return p.classifier.Categories()
}

// Extract returns the records found in text, in document order. Empty
// text yields no records.
func (p *Pipeline) Extract(text, source string) []record.Record {
	return p.Run(Document{Source: source, Text: text}).Records
}

// Run is Extract with the document metadata and item counts.
func (p *Pipeline) Run(doc Document) Result {
	return p.walk(doc, nil)
}

// Trace reports every item, including the ones that produced no record.
func (p *Pipeline) Trace(doc Document) ([]Trace, Result) {
	var out []Trace
	res := p.walk(doc, func(t Trace) { out = append(out, t) })
	return out, res
}

func (p *Pipeline) walk(doc Document, visit func(Trace)) Result {
	text := normalize.Text(doc.Text)
	if text == "" {
		return Result{}
	}
	res := Result{Meta: p.header.Extract(text, doc.Source)}
	var lastUnit string
	for _, sec := range p.segmenter.Sections(text) {
		res.Stats.Sections++
		for _, blk := range p.segmenter.Blocks(sec.Text(text)) {
			res.Stats.Blocks++
			if blk.Unit != "" {
				lastUnit = blk.Unit
			}
			// A rejected lead-in such as "Se aprueban los siguientes
			// proyectos:" sets the status of the items that follow it.
			var inherited string
			for _, item := range p.segmenter.Items(blk.Text) {
				res.Stats.Items++
				tr := Trace{Section: sec.Topic, Unit: blk.Unit, Item: item}
				if tr.Verdict = p.filter.Check(item); tr.Verdict != filter.Keep {
					res.Stats.Filtered++
					if st := p.fields.Status(item); st != "" {
						inherited = st
					}
					if visit != nil {
						visit(tr)
					}
					continue
				}
				f := p.fields.Extract(item)
				tr.Fields = f
				if visit != nil && f.Title != "" {
					_, tr.TitleStep = p.fields.TitleChain().Apply(item)
				}
				if f.Title == "" {
					res.Stats.Untitled++
					if visit != nil {
						visit(tr)
					}
					continue
				}
				if f.Status == "" {
					f.Status = inherited
				}
				unit := firstNonEmpty(blk.Unit, f.Unit, lastUnit)
				if unit != "" {
					lastUnit = unit
				}
				category := sec.Topic
				if category == segment.General {
					category = p.classifier.Classify(item)
				}
				tr.Unit, tr.Fields, tr.Emitted = unit, f, true
				res.Records = append(res.Records, record.Assemble(res.Meta, doc.Source, unit, category, f))
				if visit != nil {
					visit(tr)
				}
			}
		}
	}
	res.Stats.Records = len(res.Records)
	return res
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
