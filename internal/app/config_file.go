package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/goactas/internal/record"
	"github.com/hyperifyio/goactas/internal/sheets"
)

// Defaults applied after flags, env and file config.
const (
	DefaultInputDir  = "actas"
	DefaultOutputCSV = "actas_extraccion.csv"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags and env.
type FileConfig struct {
	Input struct {
		Dir   string   `yaml:"dir" json:"dir"`
		Files []string `yaml:"files" json:"files"`
	} `yaml:"input" json:"input"`

	Output struct {
		CSV    string `yaml:"csv" json:"csv"`
		XLSX   string `yaml:"xlsx" json:"xlsx"`
		PDF    string `yaml:"pdf" json:"pdf"`
		DB     string `yaml:"db" json:"db"`
		Schema string `yaml:"schema" json:"schema"`
	} `yaml:"output" json:"output"`

	Patterns string `yaml:"patterns" json:"patterns"`

	Sheets struct {
		ID          string `yaml:"id" json:"id"`
		Worksheet   string `yaml:"worksheet" json:"worksheet"`
		Credentials string `yaml:"credentials" json:"credentials"`
	} `yaml:"sheets" json:"sheets"`

	Workers int  `yaml:"workers" json:"workers"`
	Dedupe  bool `yaml:"dedupe" json:"dedupe"`
	Verbose bool `yaml:"verbose" json:"verbose"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg. Flags and env are applied first so the
// file only supplies what they left open.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}

	if cfg.InputDir == "" && fc.Input.Dir != "" {
		cfg.InputDir = fc.Input.Dir
	}
	if len(cfg.Inputs) == 0 && len(fc.Input.Files) > 0 {
		cfg.Inputs = append([]string{}, fc.Input.Files...)
	}

	if cfg.OutputCSV == "" && fc.Output.CSV != "" {
		cfg.OutputCSV = fc.Output.CSV
	}
	if cfg.OutputXLSX == "" && fc.Output.XLSX != "" {
		cfg.OutputXLSX = fc.Output.XLSX
	}
	if cfg.OutputPDF == "" && fc.Output.PDF != "" {
		cfg.OutputPDF = fc.Output.PDF
	}
	if cfg.DBPath == "" && fc.Output.DB != "" {
		cfg.DBPath = fc.Output.DB
	}
	if cfg.Schema == "" && fc.Output.Schema != "" {
		cfg.Schema = fc.Output.Schema
	}
	if cfg.PatternsPath == "" && fc.Patterns != "" {
		cfg.PatternsPath = fc.Patterns
	}

	if cfg.SheetID == "" && fc.Sheets.ID != "" {
		cfg.SheetID = fc.Sheets.ID
	}
	if cfg.Worksheet == "" && fc.Sheets.Worksheet != "" {
		cfg.Worksheet = fc.Sheets.Worksheet
	}
	if cfg.Credentials == "" && fc.Sheets.Credentials != "" {
		cfg.Credentials = fc.Sheets.Credentials
	}

	if cfg.Workers == 0 && fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if !cfg.Dedupe && fc.Dedupe {
		cfg.Dedupe = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}

	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
}

// ApplyDefaults fills whatever flags, env and file config left unset.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.InputDir == "" && len(cfg.Inputs) == 0 {
		cfg.InputDir = DefaultInputDir
	}
	if cfg.OutputCSV == "" && cfg.Annotate == "" {
		cfg.OutputCSV = DefaultOutputCSV
	}
	if cfg.Schema == "" {
		cfg.Schema = record.SchemaExtended
	}
	if cfg.Worksheet == "" {
		cfg.Worksheet = sheets.DefaultWorksheet
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Annotate) != "" {
		if strings.TrimSpace(cfg.OutputCSV) == "" && strings.TrimSpace(cfg.OutputXLSX) == "" && strings.TrimSpace(cfg.SheetID) == "" {
			return errors.New("config: annotate needs an output (csv, xlsx or sheet)")
		}
		return nil
	}
	if strings.TrimSpace(cfg.InputDir) == "" && len(cfg.Inputs) == 0 {
		return errors.New("config: input directory or files are required (or set ACTAS_DIR)")
	}
	if strings.TrimSpace(cfg.OutputCSV) == "" && strings.TrimSpace(cfg.OutputXLSX) == "" &&
		strings.TrimSpace(cfg.OutputPDF) == "" && strings.TrimSpace(cfg.DBPath) == "" && strings.TrimSpace(cfg.SheetID) == "" {
		return errors.New("config: at least one output is required")
	}
	if _, err := record.ParseSchema(cfg.Schema, nil); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Workers < 0 {
		return errors.New("config: negative workers are not allowed")
	}
	return nil
}
