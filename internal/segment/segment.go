// Package segment cuts a normalized acta into topical sections, each
// section into per-unit blocks, and each block into candidate items.
package segment

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hyperifyio/goactas/internal/topic"
)

// General names sections that no topic heading claims.
const General topic.Category = "General"

// Section is a half-open byte range [Start, End) of the document text.
type Section struct {
	Topic topic.Category
	Start int
	End   int
}

// Text returns the slice of text covered by the section.
func (s Section) Text(text string) string {
	if s.Start < 0 || s.End > len(text) || s.Start > s.End {
		return ""
	}
	return text[s.Start:s.End]
}

// Block is a run of lines filed under one organizational unit. Unit is
// empty until the first unit header.
type Block struct {
	Unit string
	Text string
}

// Config holds the segmentation grammar.
type Config struct {
	// UnitHeader matches a line that opens a unit block.
	UnitHeader string `yaml:"unitHeader" json:"unitHeader"`
	// UnitHeaderMaxChars rejects long lines that merely start with a unit
	// word. Zero disables the limit.
	UnitHeaderMaxChars int `yaml:"unitHeaderMaxChars" json:"unitHeaderMaxChars"`
	// ItemDelimiter matches the start of a bullet or numbered entry. It is
	// applied to the chunk with a leading newline added, so it should begin
	// with \n.
	ItemDelimiter string `yaml:"itemDelimiter" json:"itemDelimiter"`
	// MinItemChars drops split parts shorter than this many characters.
	MinItemChars int `yaml:"minItemChars" json:"minItemChars"`
}

// DefaultConfig returns the grammar used by the council minutes.
func DefaultConfig() Config {
	return Config{
		UnitHeader:         `(?i)^(?:Facultad|Escuela|Instituto|Vicerrectorado)\b`,
		UnitHeaderMaxChars: 150,
		ItemDelimiter:      `\n\s*(?:[\x{2022}\x{25CF}\x{25A0}\x{25E6}\x{25AA}\x{2013}\x{2014}*\-]|\d{1,3}[.)])\s*`,
		MinItemChars:       6,
	}
}

// Segmenter is immutable after New and safe for concurrent use.
type Segmenter struct {
	sectionRe  *regexp.Regexp
	groupTopic map[int]topic.Category
	unitRe     *regexp.Regexp
	unitMax    int
	itemRe     *regexp.Regexp
	minItem    int
}

// New builds a Segmenter from the category definitions (their section
// patterns, in priority order) and the grammar in cfg.
func New(defs []topic.Definition, cfg Config) (*Segmenter, error) {
	d := DefaultConfig()
	if strings.TrimSpace(cfg.UnitHeader) == "" {
		cfg.UnitHeader = d.UnitHeader
	}
	if strings.TrimSpace(cfg.ItemDelimiter) == "" {
		cfg.ItemDelimiter = d.ItemDelimiter
	}
	if cfg.MinItemChars <= 0 {
		cfg.MinItemChars = d.MinItemChars
	}
	s := &Segmenter{groupTopic: map[int]topic.Category{}, unitMax: cfg.UnitHeaderMaxChars, minItem: cfg.MinItemChars}

	var err error
	if s.unitRe, err = regexp.Compile(cfg.UnitHeader); err != nil {
		return nil, fmt.Errorf("segment: unit header: %w", err)
	}
	if s.itemRe, err = regexp.Compile(cfg.ItemDelimiter); err != nil {
		return nil, fmt.Errorf("segment: item delimiter: %w", err)
	}

	named := make([]string, 0, len(defs))
	for _, def := range defs {
		pats := def.SectionPatterns()
		if len(pats) == 0 {
			continue
		}
		name := "s" + strconv.Itoa(len(named))
		named = append(named, `(?P<`+name+`>\b(?:`+strings.Join(pats, `|`)+`)\b)`)
	}
	if len(named) > 0 {
		// Headings only count at the start of a line; the same words inside
		// an item title must not open a section.
		re, err := regexp.Compile(`(?im)^[ \t]*(?:` + strings.Join(named, `|`) + `)`)
		if err != nil {
			return nil, fmt.Errorf("segment: section patterns: %w", err)
		}
		s.sectionRe = re
		k := 0
		for _, def := range defs {
			if len(def.SectionPatterns()) == 0 {
				continue
			}
			s.groupTopic[re.SubexpIndex("s"+strconv.Itoa(k))] = def.Name
			k++
		}
	}
	return s, nil
}

type hit struct {
	topic topic.Category
	pos   int
}

// Sections returns contiguous, ordered, non-overlapping spans covering
// [0, len(text)). Each heading that opens a line starts a span that runs
// to the next one.
// Text before the first hit, or the whole text when there are no hits, is
// a General span.
func (s *Segmenter) Sections(text string) []Section {
	var hits []hit
	if s.sectionRe != nil {
		for _, m := range s.sectionRe.FindAllStringSubmatchIndex(text, -1) {
			if m[1] <= m[0] {
				continue
			}
			for g := 1; 2*g+1 < len(m); g++ {
				if m[2*g] < 0 {
					continue
				}
				if name, ok := s.groupTopic[g]; ok {
					hits = append(hits, hit{topic: name, pos: m[0]})
					break
				}
			}
		}
	}
	if len(hits) == 0 {
		return []Section{{Topic: General, Start: 0, End: len(text)}}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	spans := make([]Section, 0, len(hits)+1)
	if hits[0].pos > 0 {
		spans = append(spans, Section{Topic: General, Start: 0, End: hits[0].pos})
	}
	for i, h := range hits {
		end := len(text)
		if i+1 < len(hits) {
			end = hits[i+1].pos
		}
		spans = append(spans, Section{Topic: h.topic, Start: h.pos, End: end})
	}
	return spans
}

// IsUnitHeader reports whether line opens a unit block.
func (s *Segmenter) IsUnitHeader(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if s.unitMax > 0 && utf8.RuneCountInString(line) > s.unitMax {
		return false
	}
	return s.unitRe.MatchString(line)
}

// Blocks groups the non-empty lines of sectionText under the most recent
// unit header. A section without unit headers is one block with an empty
// unit. A unit header with no lines after it yields a block with empty
// text so callers still learn the unit.
func (s *Segmenter) Blocks(sectionText string) []Block {
	var (
		blocks  []Block
		current string
		buf     []string
		headers int
	)
	flush := func() {
		if len(buf) > 0 {
			blocks = append(blocks, Block{Unit: current, Text: strings.Join(buf, "\n")})
			buf = buf[:0]
		}
	}
	for _, ln := range strings.Split(sectionText, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		if s.IsUnitHeader(ln) {
			flush()
			current = strings.TrimRight(ln, " :.-")
			headers++
			continue
		}
		buf = append(buf, ln)
	}
	trailing := current != "" && len(buf) == 0
	flush()
	if headers == 0 && len(blocks) == 0 {
		return []Block{{Text: strings.TrimSpace(sectionText)}}
	}
	if trailing {
		blocks = append(blocks, Block{Unit: current})
	}
	return blocks
}

// Items splits chunk on bullet and numbering delimiters. Parts shorter than
// the minimum are dropped; when nothing survives the whole chunk is the
// single item. A blank chunk has no items.
func (s *Segmenter) Items(chunk string) []string {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" {
		return nil
	}
	parts := s.itemRe.Split("\n"+chunk, -1)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, " ;\n\t")
		if utf8.RuneCountInString(p) < s.minItem {
			continue
		}
		items = append(items, p)
	}
	if len(items) == 0 {
		return []string{chunk}
	}
	return items
}
