package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDumpPrintsVerdictsAndFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acta.txt")
	body := "ACTA Nº 9\n" +
		"- Se deja constancia de lo actuado en la sesión anterior.\n" +
		"- Proyecto: Estudio de Suelos. Director: Juan Pérez."
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := dump(&buf, path, "", false, false); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`acta: "9"`, "dropped: narrative-opening", "title (labeled): Estudio de Suelos", "director: Juan Pérez", "records=1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestDumpJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acta.txt")
	if err := os.WriteFile(path, []byte("Proyecto: Estudio de Suelos. Director: Juan Pérez."), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := dump(&buf, path, "", true, false); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(buf.String(), `"traces"`) || !strings.Contains(buf.String(), "Estudio de Suelos") {
		t.Fatalf("unexpected json:\n%s", buf.String())
	}
}

func TestDumpRecordsCarryBaseName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "2019", "consejo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "acta_31.txt")
	if err := os.WriteFile(path, []byte("Proyecto: Estudio de Suelos. Director: Juan Pérez."), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := dump(&buf, path, "", true, false); err != nil {
		t.Fatalf("dump: %v", err)
	}
	var out struct {
		Records []struct {
			Act    string `json:"act"`
			Source string `json:"source"`
		} `json:"records"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Records) != 1 || out.Records[0].Source != "acta_31.txt" || out.Records[0].Act != "31" {
		t.Fatalf("unexpected records %+v", out.Records)
	}
}

func TestDumpMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := dump(&buf, filepath.Join(t.TempDir(), "nope.pdf"), "", false, false); err == nil {
		t.Fatalf("expected error")
	}
}
