// Package header pulls document-level metadata out of the opening of an
// acta: the act number, the raw date clause and the year it refers to.
package header

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperifyio/goactas/internal/normalize"
)

const (
	minYear = 2000
	maxYear = 2100

	// headWindow bounds how much of the text is scanned for header data.
	headWindow       = 1500
	minDateLineChars = 20
	maxDateChars     = 300
)

// Metadata describes a single document.
type Metadata struct {
	Act  string
	Date string
	// Year is zero when no year could be inferred.
	Year int
}

// Config holds the tables the extractor works from.
type Config struct {
	// YearWords maps the word following "dos mil" (accent-free, lower case)
	// to its year.
	YearWords map[string]int `yaml:"yearWords" json:"yearWords"`
	// FilenameFallback takes the act number from the source name when the
	// text carries none, as order-of-the-day files are often only numbered
	// in their filename.
	FilenameFallback bool `yaml:"filenameFallback" json:"filenameFallback"`
}

// DefaultYearWords covers 2017 through 2030.
func DefaultYearWords() map[string]int {
	return map[string]int{
		"diecisiete":   2017,
		"dieciocho":    2018,
		"diecinueve":   2019,
		"veinte":       2020,
		"veintiuno":    2021,
		"veintidos":    2022,
		"veintitres":   2023,
		"veinticuatro": 2024,
		"veinticinco":  2025,
		"veintiseis":   2026,
		"veintisiete":  2027,
		"veintiocho":   2028,
		"veintinueve":  2029,
		"treinta":      2030,
	}
}

var (
	actRe        = regexp.MustCompile(`(?i)\bACTA\s+(?:N(?:ro|[º°o])?\.?\s*|N[uú]mero\s*)?(\d+)`)
	filenumRe    = regexp.MustCompile(`(?:^|\D)(\d{2,4})(?:\D|$)`)
	cityLineRe   = regexp.MustCompile(`(?i)en la ciudad[^\n]*`)
	dateClauseRe = regexp.MustCompile(`(?i)a los\s+[^\n]+?\s+d[ií]as[^\n]*?\s+del mes de\s+\S+\s+del?\s+(?:a[ñn]o\s+)?dos mil\s+\S+`)
	yearTokenRe  = regexp.MustCompile(`\b(20\d{2})\b`)
	yearWordsRe  = regexp.MustCompile(`dos mil\s+([a-z]+)`)
)

// Extractor derives Metadata. It is immutable once built.
type Extractor struct {
	yearWords        map[string]int
	filenameFallback bool
}

// New builds an Extractor, copying the tables so later edits to cfg do not
// leak in.
func New(cfg Config) *Extractor {
	words := cfg.YearWords
	if len(words) == 0 {
		words = DefaultYearWords()
	}
	e := &Extractor{yearWords: make(map[string]int, len(words)), filenameFallback: cfg.FilenameFallback}
	for k, v := range words {
		e.yearWords[normalize.Fold(k)] = v
	}
	return e
}

// Extract reads all metadata. The year comes from the date clause when it
// has one, otherwise from the head of the full text.
func (e *Extractor) Extract(text, source string) Metadata {
	m := Metadata{Act: ActNumber(text), Date: DateText(text)}
	if m.Act == "" && e.filenameFallback {
		m.Act = ActNumberFromFilename(source)
	}
	if m.Date != "" {
		m.Year = e.InferYear(m.Date)
	}
	if m.Year == 0 {
		m.Year = e.InferYear(text)
	}
	return m
}

// ActNumber returns the digits following "ACTA Nº", or "".
func ActNumber(text string) string {
	if m := actRe.FindStringSubmatch(text); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ActNumberFromFilename returns the first run of 2 to 4 digits in the base
// name of source, or "".
func ActNumberFromFilename(source string) string {
	base := filepath.Base(strings.TrimSpace(source))
	if base == "." || base == "/" {
		return ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if m := filenumRe.FindStringSubmatch(base); len(m) == 2 {
		return m[1]
	}
	return ""
}

// DateText returns the raw date clause of the document. Preference order:
// the "En la ciudad ..." line, the "a los N días del mes de X de dos mil Y"
// clause, the first line longer than 20 characters near the top, the first
// line.
func DateText(text string) string {
	if text == "" {
		return ""
	}
	if m := cityLineRe.FindString(text); m != "" {
		return clip(m)
	}
	if m := dateClauseRe.FindString(text); m != "" {
		return clip(m)
	}
	head := text
	if len(head) > headWindow {
		head = head[:headWindow]
	}
	for _, line := range strings.Split(head, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) > minDateLineChars {
			return clip(line)
		}
	}
	first, _, _ := strings.Cut(text, "\n")
	return clip(first)
}

// InferYear returns the year referred to by s, or 0. A literal 20xx token
// wins; with several candidates in the scanned window the largest is taken
// so the start of a range such as "2023-2024" is not picked. Otherwise a
// spelled-out "dos mil <word>" is looked up in the year-word table.
func (e *Extractor) InferYear(s string) int {
	if s == "" {
		return 0
	}
	head := s
	if len(head) > headWindow {
		head = head[:headWindow]
	}
	best := 0
	for _, m := range yearTokenRe.FindAllStringSubmatch(head, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < minYear || n > maxYear {
			continue
		}
		if n > best {
			best = n
		}
	}
	if best != 0 {
		return best
	}
	if m := yearWordsRe.FindStringSubmatch(normalize.Fold(s)); len(m) == 2 {
		if y, ok := e.yearWords[m[1]]; ok && y >= minYear && y <= maxYear {
			return y
		}
	}
	return 0
}

func clip(s string) string {
	s = normalize.Line(s)
	r := []rune(s)
	if len(r) > maxDateChars {
		return strings.TrimSpace(string(r[:maxDateChars]))
	}
	return s
}
