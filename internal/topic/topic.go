// Package topic maps free text to one of the fixed subject-matter classes
// used in the Tipo_tema column.
package topic

import (
	"fmt"
	"regexp"
	"strings"
)

// Category is one entry of the topic enumeration.
type Category string

const (
	ResearchProjects Category = "Proyectos de investigación"
	ChairProjects    Category = "Proyectos de cátedra"
	ProgressReports  Category = "Informes de avance"
	FinalReports     Category = "Informes finales"
	Categorization   Category = "Categorización"
	Conferences      Category = "Jornadas de investigación"
	Courses          Category = "Cursos"
	Publications     Category = "Trabajos Revista Cuadernos"
	Scholarships     Category = "Becas"
)

// Definition binds a category to the patterns that announce it. Patterns
// are regular expressions matched case-insensitively against item text.
// Headings are the narrower phrases that open a section of the document;
// when empty, Patterns double as headings.
type Definition struct {
	Name     Category `yaml:"name" json:"name"`
	Patterns []string `yaml:"patterns" json:"patterns"`
	Headings []string `yaml:"headings" json:"headings"`
}

// SectionPatterns returns the patterns that mark the start of a section.
func (d Definition) SectionPatterns() []string {
	if len(d.Headings) > 0 {
		return d.Headings
	}
	return d.Patterns
}

// Config lists definitions in priority order.
type Config struct {
	Categories []Definition `yaml:"categories" json:"categories"`
	Default    Category     `yaml:"default" json:"default"`
}

type compiled struct {
	name Category
	re   *regexp.Regexp
}

// Classifier assigns categories. It never fails: text that matches nothing
// gets the default category.
type Classifier struct {
	defs    []Definition
	entries []compiled
	def     Category
}

// New compiles cfg. Definitions without patterns are kept in the
// enumeration but never match.
func New(cfg Config) (*Classifier, error) {
	c := &Classifier{def: cfg.Default}
	seen := map[Category]bool{}
	for _, d := range cfg.Categories {
		name := Category(strings.TrimSpace(string(d.Name)))
		if name == "" {
			return nil, fmt.Errorf("topic: category with empty name")
		}
		if seen[name] {
			return nil, fmt.Errorf("topic: duplicate category %q", name)
		}
		seen[name] = true
		pats, err := compileAll(name, d.Patterns)
		if err != nil {
			return nil, err
		}
		heads, err := compileAll(name, d.Headings)
		if err != nil {
			return nil, err
		}
		c.defs = append(c.defs, Definition{Name: name, Patterns: pats, Headings: heads})
		if len(pats) > 0 {
			re := regexp.MustCompile(`(?i)(?:` + strings.Join(pats, `|`) + `)`)
			c.entries = append(c.entries, compiled{name: name, re: re})
		}
	}
	if len(c.defs) == 0 {
		return nil, fmt.Errorf("topic: no categories configured")
	}
	if c.def == "" {
		c.def = c.defs[0].Name
	}
	if !seen[c.def] {
		return nil, fmt.Errorf("topic: default category %q is not in the enumeration", c.def)
	}
	return c, nil
}

func compileAll(name Category, patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		if _, err := regexp.Compile(p); err != nil {
			return nil, fmt.Errorf("topic: category %q pattern %q: %w", name, p, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Classify returns the first category, in priority order, with a pattern
// matching text; otherwise the default.
func (c *Classifier) Classify(text string) Category {
	for _, e := range c.entries {
		if e.re.MatchString(text) {
			return e.name
		}
	}
	return c.def
}

// Default returns the fallback category.
func (c *Classifier) Default() Category { return c.def }

// Categories returns the enumeration in priority order.
func (c *Classifier) Categories() []Category {
	out := make([]Category, len(c.defs))
	for i, d := range c.defs {
		out[i] = d.Name
	}
	return out
}

// Definitions returns a copy of the validated definitions.
func (c *Classifier) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	for i, d := range c.defs {
		out[i] = Definition{
			Name:     d.Name,
			Patterns: append([]string(nil), d.Patterns...),
			Headings: append([]string(nil), d.Headings...),
		}
	}
	return out
}

// Valid reports whether cat belongs to the enumeration.
func (c *Classifier) Valid(cat Category) bool {
	for _, d := range c.defs {
		if d.Name == cat {
			return true
		}
	}
	return false
}
