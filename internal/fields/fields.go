// Package fields recovers the per-record attributes of an item: title,
// director, status, publication destination, categorization grade and
// organizational unit.
package fields

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule maps a pattern to the label emitted when it matches.
type Rule struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Label   string `yaml:"label" json:"label"`
}

// Title fallbacks applied when no strategy finds a title.
const (
	PolicyDrop     = "drop"
	PolicyTruncate = "truncate"
)

// Config holds the pattern tables. Every pattern is compiled
// case-insensitively.
type Config struct {
	// TitleLabels introduce a title when followed by a colon.
	TitleLabels []string `yaml:"titleLabels" json:"titleLabels"`
	// CodeLabels are program codes (PROJOVI, PID, PPI) that precede a title.
	CodeLabels []string `yaml:"codeLabels" json:"codeLabels"`
	// MinQuotedChars is the shortest quoted span accepted as a title.
	MinQuotedChars int `yaml:"minQuotedChars" json:"minQuotedChars"`
	// MinUpperRatio is the upper-case letter share that makes a line look
	// like a title.
	MinUpperRatio float64 `yaml:"minUpperRatio" json:"minUpperRatio"`
	// NonTitlePrefixes open lines that never carry a title.
	NonTitlePrefixes []string `yaml:"nonTitlePrefixes" json:"nonTitlePrefixes"`
	// NonTitleLabels disqualify a line that contains them followed by a
	// colon.
	NonTitleLabels []string `yaml:"nonTitleLabels" json:"nonTitleLabels"`
	// TitlePolicy is PolicyDrop or PolicyTruncate.
	TitlePolicy string `yaml:"titlePolicy" json:"titlePolicy"`
	// MaxTitleChars caps titles in runes.
	MaxTitleChars int `yaml:"maxTitleChars" json:"maxTitleChars"`

	// DirectorLabel introduces the director name. A colon is required
	// after it.
	DirectorLabel string `yaml:"directorLabel" json:"directorLabel"`
	// Honorifics are stripped from the front of the name.
	Honorifics []string `yaml:"honorifics" json:"honorifics"`
	// DirectorStops end the name.
	DirectorStops []string `yaml:"directorStops" json:"directorStops"`

	Statuses     []Rule `yaml:"statuses" json:"statuses"`
	Destinations []Rule `yaml:"destinations" json:"destinations"`
	// GradePattern must have one capture group holding the grade token.
	GradePattern string `yaml:"gradePattern" json:"gradePattern"`
	// UnitPattern must have one capture group holding the unit name.
	UnitPattern string `yaml:"unitPattern" json:"unitPattern"`
}

// Fields are the attributes of one record. Missing values are "".
type Fields struct {
	Title       string
	Director    string
	Status      string
	Destination string
	Grade       string
	Unit        string
}

type rule struct {
	re    *regexp.Regexp
	label string
}

// Extractor is immutable after New and safe for concurrent use.
type Extractor struct {
	titleLabel   *regexp.Regexp
	codeLabel    *regexp.Regexp
	quoted       *regexp.Regexp
	nonTitle     *regexp.Regexp
	nonTitleLbl  *regexp.Regexp
	upperRun     *regexp.Regexp
	directorLbl  *regexp.Regexp
	honorifics   *regexp.Regexp
	directorStop *regexp.Regexp
	grade        *regexp.Regexp
	unit         *regexp.Regexp
	statuses     []rule
	destinations []rule
	minUpper     float64
	maxTitle     int
	titles       Chain
}

var (
	bulletRe    = regexp.MustCompile(`^(?:[\x{2022}\x{25CF}\x{25A0}\x{25E6}\x{25AA}\x{2013}\x{2014}*\-]|\d{1,3}[.)])\s*`)
	nextLabelRe = regexp.MustCompile(`\.\s+\p{Lu}[\p{L} ]{1,30}:`)
	spacesRe    = regexp.MustCompile(`\s+`)
)

const titleCutset = " \t\n.,;:-\"'“”‘’«»"

// New compiles cfg.
func New(cfg Config) (*Extractor, error) {
	if cfg.MinQuotedChars <= 0 {
		cfg.MinQuotedChars = 6
	}
	if cfg.MinUpperRatio <= 0 {
		cfg.MinUpperRatio = 0.4
	}
	if cfg.MaxTitleChars <= 0 {
		cfg.MaxTitleChars = 400
	}
	switch cfg.TitlePolicy {
	case "":
		cfg.TitlePolicy = PolicyDrop
	case PolicyDrop, PolicyTruncate:
	default:
		return nil, fmt.Errorf("fields: unknown title policy %q", cfg.TitlePolicy)
	}
	e := &Extractor{minUpper: cfg.MinUpperRatio, maxTitle: cfg.MaxTitleChars}
	var err error
	compile := func(dst **regexp.Regexp, name, prefix string, pats []string, suffix string) {
		if err != nil {
			return
		}
		if *dst, err = alternation(prefix, pats, suffix); err != nil {
			err = fmt.Errorf("fields: %s: %w", name, err)
		}
	}
	compile(&e.titleLabel, "title labels", `\b(?:`, cfg.TitleLabels, `)\s*:\s*`)
	compile(&e.codeLabel, "code labels", `\b(?:`, cfg.CodeLabels, `)\b[^:\n]{0,20}:\s*`)
	compile(&e.nonTitle, "non-title prefixes", `^(?:`, cfg.NonTitlePrefixes, `)`)
	compile(&e.nonTitleLbl, "non-title labels", `\b(?:`, cfg.NonTitleLabels, `)\s*:`)
	compile(&e.honorifics, "honorifics", `^(?:(?:`, cfg.Honorifics, `)\.?\s+)+`)
	compile(&e.directorStop, "director stops", `\b(?:`, cfg.DirectorStops, `)`)
	if cfg.DirectorLabel != "" {
		compile(&e.directorLbl, "director label", `\b(?:`, []string{cfg.DirectorLabel}, `)\s*:\s*`)
	}
	if cfg.GradePattern != "" {
		compile(&e.grade, "grade", ``, []string{cfg.GradePattern}, ``)
	}
	if cfg.UnitPattern != "" {
		compile(&e.unit, "unit", ``, []string{cfg.UnitPattern}, ``)
	}
	if err != nil {
		return nil, err
	}
	if e.grade != nil && e.grade.NumSubexp() < 1 {
		return nil, fmt.Errorf("fields: grade pattern needs a capture group")
	}
	if e.unit != nil && e.unit.NumSubexp() < 1 {
		return nil, fmt.Errorf("fields: unit pattern needs a capture group")
	}
	if e.statuses, err = compileRules(cfg.Statuses); err != nil {
		return nil, fmt.Errorf("fields: statuses: %w", err)
	}
	if e.destinations, err = compileRules(cfg.Destinations); err != nil {
		return nil, fmt.Errorf("fields: destinations: %w", err)
	}
	e.quoted = regexp.MustCompile(fmt.Sprintf(`["“«‘]([^"”»’\n]{%d,})["”»’]`, cfg.MinQuotedChars))
	e.upperRun = regexp.MustCompile(`\p{Lu}{3,}`)

	e.titles = Chain{
		{Name: "labeled", Run: e.labeledTitle},
		{Name: "code", Run: e.codeTitle},
		{Name: "quoted", Run: e.quotedTitle},
		{Name: "heuristic", Run: e.heuristicTitle},
	}
	if cfg.TitlePolicy == PolicyTruncate {
		e.titles = append(e.titles, Step{Name: "raw", Run: e.rawTitle})
	}
	return e, nil
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

func compileRules(rs []Rule) ([]rule, error) {
	out := make([]rule, 0, len(rs))
	for _, r := range rs {
		if strings.TrimSpace(r.Label) == "" {
			return nil, fmt.Errorf("empty label for %q", r.Pattern)
		}
		re, err := regexp.Compile(`(?i)` + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Label, err)
		}
		out = append(out, rule{re: re, label: r.Label})
	}
	return out, nil
}

// Extract runs every extractor over item.
func (e *Extractor) Extract(item string) Fields {
	return Fields{
		Title:       e.Title(item),
		Director:    e.Director(item),
		Status:      e.Status(item),
		Destination: e.Destination(item),
		Grade:       e.Grade(item),
		Unit:        e.Unit(item),
	}
}

// TitleChain exposes the title strategies in the order they are tried.
func (e *Extractor) TitleChain() Chain {
	out := make(Chain, len(e.titles))
	copy(out, e.titles)
	return out
}

// Title returns the first title any strategy finds, or "".
func (e *Extractor) Title(item string) string {
	return e.titles.Value(item)
}

func (e *Extractor) finishTitle(s string) (string, bool) {
	s = strings.Trim(spacesRe.ReplaceAllString(s, " "), titleCutset)
	if s == "" {
		return "", false
	}
	return clip(s, e.maxTitle), true
}

func (e *Extractor) labeledTitle(item string) (string, bool) {
	return e.afterLabel(e.titleLabel, item)
}

func (e *Extractor) codeTitle(item string) (string, bool) {
	return e.afterLabel(e.codeLabel, item)
}

// afterLabel takes the text after the first label match up to the end of
// its line or a Director label, whichever comes first.
func (e *Extractor) afterLabel(label *regexp.Regexp, item string) (string, bool) {
	if label == nil {
		return "", false
	}
	for _, loc := range label.FindAllStringIndex(item, -1) {
		rest := item[loc[1]:]
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			rest = rest[:i]
		}
		if e.directorLbl != nil {
			if d := e.directorLbl.FindStringIndex(rest); d != nil {
				rest = rest[:d[0]]
			}
		}
		if t, ok := e.finishTitle(rest); ok {
			return t, true
		}
	}
	return "", false
}

func (e *Extractor) quotedTitle(item string) (string, bool) {
	m := e.quoted.FindStringSubmatch(item)
	if m == nil {
		return "", false
	}
	return e.finishTitle(m[1])
}

// heuristicTitle picks the first line before any Director label that
// reads like a title.
func (e *Extractor) heuristicTitle(item string) (string, bool) {
	region := item
	if e.directorLbl != nil {
		if d := e.directorLbl.FindStringIndex(region); d != nil {
			region = region[:d[0]]
		}
	}
	for _, line := range strings.Split(region, "\n") {
		line = strings.TrimSpace(bulletRe.ReplaceAllString(strings.TrimSpace(line), ""))
		if utf8.RuneCountInString(line) < 6 {
			continue
		}
		if e.nonTitle != nil && e.nonTitle.MatchString(line) {
			continue
		}
		if e.nonTitleLbl != nil && e.nonTitleLbl.MatchString(line) {
			continue
		}
		if !e.looksLikeTitle(line) {
			continue
		}
		if t, ok := e.finishTitle(line); ok {
			return t, true
		}
	}
	return "", false
}

func (e *Extractor) looksLikeTitle(line string) bool {
	if e.upperRun.MatchString(line) {
		return true
	}
	letters, upper := 0, 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return false
	}
	if float64(upper)/float64(letters) >= e.minUpper {
		return true
	}
	return titleCase(line)
}

// titleCase reports whether every word of four or more letters starts
// upper-case.
func titleCase(line string) bool {
	long := 0
	for _, w := range strings.Fields(line) {
		w = strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) })
		if utf8.RuneCountInString(w) < 4 {
			continue
		}
		long++
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return long > 0
}

func (e *Extractor) rawTitle(item string) (string, bool) {
	return e.finishTitle(bulletRe.ReplaceAllString(strings.TrimSpace(item), ""))
}

// Director returns the name after the director label, stripped of
// honorifics and cut before the next role, unit or clause.
func (e *Extractor) Director(item string) string {
	if e.directorLbl == nil {
		return ""
	}
	var loc []int
	for _, m := range e.directorLbl.FindAllStringIndex(item, -1) {
		if !coPrefixed(item[:m[0]]) {
			loc = m
			break
		}
	}
	if loc == nil {
		return ""
	}
	rest := item[loc[1]:]
	if e.honorifics != nil {
		rest = e.honorifics.ReplaceAllString(rest, "")
	}
	end := len(rest)
	cut := func(i int) {
		if i >= 0 && i < end {
			end = i
		}
	}
	cut(strings.IndexByte(rest, ';'))
	cut(strings.IndexByte(rest, '\n'))
	cut(strings.Index(rest, "  "))
	if e.directorStop != nil {
		if m := e.directorStop.FindStringIndex(rest); m != nil {
			cut(m[0])
		}
	}
	if m := nextLabelRe.FindStringIndex(rest); m != nil {
		cut(m[0])
	}
	return strings.Trim(rest[:end], " \t.,;:-()")
}

// coPrefixed reports whether the text before a director label makes it a
// co-director label.
func coPrefixed(before string) bool {
	b := strings.ToLower(before)
	return strings.HasSuffix(b, "co-") || strings.HasSuffix(b, "co ")
}

// Status returns the label of the first status rule that matches.
func (e *Extractor) Status(text string) string {
	return firstLabel(e.statuses, text)
}

// Destination returns the label of the first destination rule that
// matches.
func (e *Extractor) Destination(text string) string {
	return firstLabel(e.destinations, text)
}

func firstLabel(rs []rule, text string) string {
	for _, r := range rs {
		if r.re.MatchString(text) {
			return r.label
		}
	}
	return ""
}

// Grade returns the categorization grade token, upper-cased.
func (e *Extractor) Grade(text string) string {
	if e.grade == nil {
		return ""
	}
	m := e.grade.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(m[1]))
}

// Unit returns a unit named inside text, such as "Facultad de Artes".
func (e *Extractor) Unit(text string) string {
	if e.unit == nil {
		return ""
	}
	m := e.unit.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.Trim(spacesRe.ReplaceAllString(m[1], " "), " .,;:-")
}

func clip(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}
