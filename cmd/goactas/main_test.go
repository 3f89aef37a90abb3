package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	apppkg "github.com/hyperifyio/goactas/internal/app"
)

// Smoke test: run writes a CSV for a directory with one acta.
func TestRun_WritesCSV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "actas")
	if err := os.MkdirAll(in, 0o755); err != nil {
		t.Fatal(err)
	}
	body := "ACTA Nº 345\nProyecto: Estudio de Suelos. Director: Juan Pérez."
	if err := os.WriteFile(filepath.Join(in, "acta_345.txt"), []byte(body), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	out := filepath.Join(dir, "out.csv")
	cfg, err := resolveConfig(apppkg.Config{InputDir: in, OutputCSV: out, Workers: 1}, "")
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if err := run(cfg); err != nil {
		t.Fatalf("run error: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil || len(b) == 0 {
		t.Fatalf("expected output file, err=%v", err)
	}
}

// Flags win over env, env wins over the config file.
func TestResolveConfig_Precedence(t *testing.T) {
	t.Setenv("OUTPUT_CSV", "env.csv")
	t.Setenv("ACTAS_DIR", "env-dir")
	t.Setenv("SCHEMA", "")
	path := filepath.Join(t.TempDir(), "goactas.yaml")
	body := "input:\n  dir: file-dir\noutput:\n  csv: file.csv\n  schema: basic\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolveConfig(apppkg.Config{InputDir: "flag-dir"}, path)
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.InputDir != "flag-dir" || cfg.OutputCSV != "env.csv" || cfg.Schema != "basic" {
		t.Fatalf("unexpected precedence: %+v", cfg)
	}
	if _, err := resolveConfig(apppkg.Config{}, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

// Ensures exit code policy conditions are surfaced.
func TestExitCode(t *testing.T) {
	if got := exitCode(fmt.Errorf("scan: %w", apppkg.ErrNoInputs)); got != 2 {
		t.Fatalf("ErrNoInputs exit %d", got)
	}
	if got := exitCode(apppkg.ErrNoRecords); got != 2 {
		t.Fatalf("ErrNoRecords exit %d", got)
	}
	if got := exitCode(os.ErrPermission); got != 1 {
		t.Fatalf("other error exit %d", got)
	}
}
