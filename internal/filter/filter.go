// Package filter tells record-bearing items apart from the procedural prose
// that surrounds them in the minutes.
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hyperifyio/goactas/internal/normalize"
)

// Config holds the narrative heuristics.
type Config struct {
	// MinChars rejects items shorter than this after whitespace collapsing.
	MinChars int `yaml:"minChars" json:"minChars"`
	// NarrativeOpenings are patterns matched case-insensitively at the start
	// of the item.
	NarrativeOpenings []string `yaml:"narrativeOpenings" json:"narrativeOpenings"`
	// Keywords are patterns whose presence marks a likely record.
	Keywords []string `yaml:"keywords" json:"keywords"`
	// UpperRun is the minimum run of upper-case letters that makes an item
	// look like it carries a title.
	UpperRun int `yaml:"upperRun" json:"upperRun"`
}

// Filter is immutable after New.
type Filter struct {
	minChars int
	openings *regexp.Regexp
	keywords *regexp.Regexp
	upperRe  *regexp.Regexp
}

// New compiles cfg.
func New(cfg Config) (*Filter, error) {
	if cfg.MinChars < 0 {
		return nil, fmt.Errorf("filter: negative minChars")
	}
	if cfg.UpperRun <= 0 {
		cfg.UpperRun = 3
	}
	f := &Filter{minChars: cfg.MinChars}
	var err error
	if f.openings, err = alternation(`^(?:`, cfg.NarrativeOpenings, `)`); err != nil {
		return nil, fmt.Errorf("filter: narrative openings: %w", err)
	}
	if f.keywords, err = alternation(`(?:`, cfg.Keywords, `)`); err != nil {
		return nil, fmt.Errorf("filter: keywords: %w", err)
	}
	f.upperRe = regexp.MustCompile(fmt.Sprintf(`\p{Lu}{%d,}`, cfg.UpperRun))
	return f, nil
}

func alternation(prefix string, pats []string, suffix string) (*regexp.Regexp, error) {
	kept := make([]string, 0, len(pats))
	for _, p := range pats {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil, nil
	}
	return regexp.Compile(`(?i)` + prefix + strings.Join(kept, `|`) + suffix)
}

// Verdict explains why an item was kept or rejected.
type Verdict string

const (
	Keep         Verdict = ""
	TooShort     Verdict = "too-short"
	Narrative    Verdict = "narrative-opening"
	NoRecordSign Verdict = "no-record-sign"
)

// Check classifies item. Any of the three tests rejects it: too short, a
// narrative opening, or neither a record keyword nor an upper-case run.
func (f *Filter) Check(item string) Verdict {
	s := normalize.Line(item)
	if utf8.RuneCountInString(s) < f.minChars {
		return TooShort
	}
	if f.openings != nil && f.openings.MatchString(s) {
		return Narrative
	}
	hasKeyword := f.keywords != nil && f.keywords.MatchString(s)
	if !hasKeyword && !f.upperRe.MatchString(s) {
		return NoRecordSign
	}
	return Keep
}

// IsNarrative reports whether item should be discarded.
func (f *Filter) IsNarrative(item string) bool {
	return f.Check(item) != Keep
}
