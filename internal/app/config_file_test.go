package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFile_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	y := filepath.Join(dir, "goactas.yaml")
	body := "input:\n  dir: actas2024\noutput:\n  csv: out.csv\n  schema: wide\nsheets:\n  id: s1\nworkers: 2\ncache:\n  maxAge: 1h\n"
	if err := os.WriteFile(y, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadConfigFile(y)
	if err != nil {
		t.Fatalf("LoadConfigFile yaml: %v", err)
	}
	if fc.Input.Dir != "actas2024" || fc.Output.Schema != "wide" || fc.Sheets.ID != "s1" || fc.Workers != 2 {
		t.Fatalf("unexpected yaml config %+v", fc)
	}
	if fc.Cache.MaxAge != time.Hour {
		t.Fatalf("maxAge got %v", fc.Cache.MaxAge)
	}

	j := filepath.Join(dir, "goactas.json")
	if err := os.WriteFile(j, []byte(`{"output":{"xlsx":"out.xlsx"},"dedupe":true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err = LoadConfigFile(j)
	if err != nil {
		t.Fatalf("LoadConfigFile json: %v", err)
	}
	if fc.Output.XLSX != "out.xlsx" || !fc.Dedupe {
		t.Fatalf("unexpected json config %+v", fc)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("output: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(bad); err == nil {
		t.Fatalf("expected parse error")
	}
}

// File values only fill fields flags and env left unset.
func TestApplyFileConfig_OverlaysUnset(t *testing.T) {
	var fc FileConfig
	fc.Input.Dir = "from-file"
	fc.Output.CSV = "file.csv"
	fc.Output.DB = "file.sqlite"
	fc.Workers = 6
	fc.Dedupe = true

	cfg := Config{OutputCSV: "flag.csv"}
	ApplyFileConfig(&cfg, fc)
	if cfg.OutputCSV != "flag.csv" {
		t.Fatalf("explicit csv overridden: %q", cfg.OutputCSV)
	}
	if cfg.InputDir != "from-file" || cfg.DBPath != "file.sqlite" || cfg.Workers != 6 || !cfg.Dedupe {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestApplyDefaultsAndValidate(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	if cfg.InputDir != DefaultInputDir || cfg.OutputCSV != DefaultOutputCSV || cfg.Schema != "extended" || cfg.Worksheet != "Actas" || cfg.Workers <= 0 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	for name, c := range map[string]Config{
		"no inputs":      {OutputCSV: "o.csv", Schema: "basic"},
		"no outputs":     {InputDir: "actas", Schema: "basic"},
		"bad schema":     {InputDir: "actas", OutputCSV: "o.csv", Schema: "narrow"},
		"neg workers":    {InputDir: "actas", OutputCSV: "o.csv", Workers: -1},
		"annotate alone": {Annotate: "in.csv"},
	} {
		if err := ValidateConfig(c); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	if err := ValidateConfig(Config{Annotate: "in.csv", OutputXLSX: "out.xlsx"}); err != nil {
		t.Fatalf("annotate with output: %v", err)
	}
}
