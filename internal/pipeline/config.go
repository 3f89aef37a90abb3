package pipeline

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hyperifyio/goactas/internal/fields"
	"github.com/hyperifyio/goactas/internal/filter"
	"github.com/hyperifyio/goactas/internal/header"
	"github.com/hyperifyio/goactas/internal/segment"
	"github.com/hyperifyio/goactas/internal/topic"
)

//go:embed patterns.yaml
var defaultPatterns []byte

// Config gathers the tables of every stage. It is plain data: a YAML file
// with the same shape overrides the defaults field by field.
type Config struct {
	Header  header.Config  `yaml:"header" json:"header"`
	Topics  topic.Config   `yaml:"topics" json:"topics"`
	Segment segment.Config `yaml:"segment" json:"segment"`
	Filter  filter.Config  `yaml:"filter" json:"filter"`
	Fields  fields.Config  `yaml:"fields" json:"fields"`
}

// DefaultConfig returns the embedded pattern tables.
func DefaultConfig() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultPatterns, &cfg); err != nil {
		panic(fmt.Sprintf("pipeline: embedded patterns: %v", err))
	}
	return cfg
}

// LoadConfig reads a YAML (or JSON) pattern file and overlays it on the
// defaults. Lists in the file replace the default lists; maps are merged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read patterns: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse patterns %s: %w", path, err)
	}
	return cfg, nil
}
