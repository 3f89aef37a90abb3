package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/goactas/internal/filter"
	"github.com/hyperifyio/goactas/internal/topic"
)

func newDefault(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestActNumberTitleAndDirector(t *testing.T) {
	p := newDefault(t)
	text := "ACTA Nº 345\n" +
		"En la ciudad de Mendoza, a los 15 días del mes de marzo de dos mil veinticuatro, se reúne el Consejo.\n" +
		"Proyecto: Estudio de Suelos. Director: Juan Pérez."
	recs := p.Extract(text, "acta_345.pdf")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(recs), recs)
	}
	r := recs[0]
	if r.Act != "345" {
		t.Fatalf("act got %q", r.Act)
	}
	if r.Title != "Estudio de Suelos" {
		t.Fatalf("title got %q", r.Title)
	}
	if r.Director != "Juan Pérez" {
		t.Fatalf("director got %q", r.Director)
	}
	if r.Topic != topic.ResearchProjects {
		t.Fatalf("topic got %q", r.Topic)
	}
	if r.Year != 2024 {
		t.Fatalf("year got %d", r.Year)
	}
	if r.Source != "acta_345.pdf" {
		t.Fatalf("source got %q", r.Source)
	}
}

func TestYearFromSpelledDate(t *testing.T) {
	p := newDefault(t)
	res := p.Run(Document{Text: "a los 15 días del mes de marzo de dos mil veinticuatro"})
	if res.Meta.Year != 2024 {
		t.Fatalf("year got %d", res.Meta.Year)
	}
}

func TestNarrativeItemNeverReachesFields(t *testing.T) {
	p := newDefault(t)
	traces, res := p.Trace(Document{Text: "Se deja constancia de lo actuado en la sesión anterior."})
	if len(res.Records) != 0 {
		t.Fatalf("expected no records, got %+v", res.Records)
	}
	if len(traces) != 1 || traces[0].Verdict != filter.Narrative {
		t.Fatalf("unexpected traces %+v", traces)
	}
	if traces[0].Fields.Title != "" {
		t.Fatalf("fields extracted for narrative item: %+v", traces[0].Fields)
	}
	if res.Stats.Filtered != 1 {
		t.Fatalf("filtered got %d", res.Stats.Filtered)
	}
}

func TestProgressReportSection(t *testing.T) {
	p := newDefault(t)
	recs := p.Extract("Informes de avance. Denominación: Cambio Climático Regional. Director: M. Gómez.", "")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Title != "Cambio Climático Regional" || r.Director != "M. Gómez" || r.Topic != topic.ProgressReports {
		t.Fatalf("unexpected record %+v", r)
	}
}

func TestNoTopicMarkersIsOneGeneralSection(t *testing.T) {
	p := newDefault(t)
	text := "Facultad de Artes\n" +
		"• ESTUDIO SOBRE MURALISMO LATINOAMERICANO. Director: Ana Paz\n" +
		"• Se deja constancia de lo actuado en la sesión."
	res := p.Run(Document{Source: "od.docx", Text: text})
	if res.Stats.Sections != 1 {
		t.Fatalf("sections got %d", res.Stats.Sections)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %+v", res.Records)
	}
	r := res.Records[0]
	if r.Title != "ESTUDIO SOBRE MURALISMO LATINOAMERICANO" || r.Director != "Ana Paz" {
		t.Fatalf("unexpected record %+v", r)
	}
	if r.Unit != "Facultad de Artes" {
		t.Fatalf("unit got %q", r.Unit)
	}
	if r.Topic != topic.ResearchProjects {
		t.Fatalf("topic got %q", r.Topic)
	}
}

func TestDuplicatesAreKept(t *testing.T) {
	p := newDefault(t)
	text := "ACTA Nº 7 del año 2023\n" +
		"- Proyecto: Agua y Territorio. Director: Ana Ruiz\n" +
		"- Proyecto: Agua y Territorio. Director: Ana Ruiz"
	recs := p.Extract(text, "")
	if len(recs) != 2 {
		t.Fatalf("expected both duplicates, got %d", len(recs))
	}
	if recs[0].Title != recs[1].Title || recs[0].Year != recs[1].Year {
		t.Fatalf("records differ: %+v", recs)
	}
}

func TestStatusInheritedFromLeadIn(t *testing.T) {
	p := newDefault(t)
	text := "Se aprueban y elevan los siguientes proyectos:\n" +
		"- PROYECTO: Redes Neuronales Aplicadas. Director: Ana Ruiz\n" +
		"- Proyecto: Suelos Áridos. Director: Luis Paz. Se otorga prórroga"
	recs := p.Extract(text, "")
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %+v", recs)
	}
	if recs[0].Status != "Aprobado y elevado" {
		t.Fatalf("inherited status got %q", recs[0].Status)
	}
	if recs[1].Status != "Prórroga" {
		t.Fatalf("own status got %q", recs[1].Status)
	}
	if recs[1].Director != "Luis Paz" {
		t.Fatalf("director got %q", recs[1].Director)
	}
}

func TestUnitCarriesIntoNextSection(t *testing.T) {
	p := newDefault(t)
	text := "Facultad de Artes\n" +
		"Informes de avance\n" +
		"- Denominación: Danza Contemporánea. Director: Eva Gil"
	recs := p.Extract(text, "")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %+v", recs)
	}
	if recs[0].Unit != "Facultad de Artes" || recs[0].Topic != topic.ProgressReports {
		t.Fatalf("unexpected record %+v", recs[0])
	}
}

func TestUnitNamedInItemCarriesForward(t *testing.T) {
	p := newDefault(t)
	text := "Informes de avance\n" +
		"- Proyecto: Riego por goteo, Facultad de Ciencias Agrarias. Director: Ana Ruiz.\n" +
		"- Proyecto: Suelos salinos. Director: Luis Paz."
	recs := p.Extract(text, "")
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %+v", recs)
	}
	for i, r := range recs {
		if r.Unit != "Facultad de Ciencias Agrarias" {
			t.Fatalf("record %d unit got %q", i, r.Unit)
		}
	}
}

func TestHeadingWordsInsideTitleKeepRecord(t *testing.T) {
	p := newDefault(t)
	text := "ACTA Nº 12\n" +
		"Proyectos de investigación\n" +
		"Facultad de Ingeniería\n" +
		"- Proyecto: Estudio de la categorización docente en la UCCuyo. Director: Ana Ruiz.\n" +
		"- Proyecto: Suelos áridos. Director: Luis Paz."
	recs := p.Extract(text, "")
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %+v", recs)
	}
	if recs[0].Title != "Estudio de la categorización docente en la UCCuyo" || recs[0].Director != "Ana Ruiz" {
		t.Fatalf("first record %+v", recs[0])
	}
	if recs[1].Title != "Suelos áridos" {
		t.Fatalf("second record %+v", recs[1])
	}
	for i, r := range recs {
		if r.Topic != topic.ResearchProjects {
			t.Fatalf("record %d topic got %q", i, r.Topic)
		}
	}

	recs = p.Extract("ACTA Nº 14\n- Proyecto: Agua y becas de investigación. Director: Ana Ruiz.", "")
	if len(recs) != 1 || recs[0].Title != "Agua y becas de investigación" {
		t.Fatalf("expected the becas project, got %+v", recs)
	}

	text = "Proyectos de investigación\n" +
		"- Proyecto: Muralismo urbano. Director: Eva Gil. Se aprueba su publicación en Revista Cuadernos.\n" +
		"- Proyecto: Suelos áridos. Director: Luis Paz."
	recs = p.Extract(text, "")
	if len(recs) != 2 || recs[1].Topic != topic.ResearchProjects {
		t.Fatalf("next project moved out of its section: %+v", recs)
	}
}

func TestEmptyTextHasNoRecords(t *testing.T) {
	p := newDefault(t)
	for _, in := range []string{"", "   \n\t ", "\x00"} {
		if recs := p.Extract(in, "x.pdf"); len(recs) != 0 {
			t.Fatalf("%q: got %+v", in, recs)
		}
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	p := newDefault(t)
	text := strings.Repeat("- Proyecto: Agua y Territorio. Director: Ana Ruiz\n", 5)
	a := p.Extract(text, "a")
	b := p.Extract(text, "a")
	if len(a) != len(b) || len(a) == 0 {
		t.Fatalf("lengths %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("record %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.yaml")
	body := "fields:\n  titlePolicy: truncate\n  maxTitleChars: 30\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Fields.TitlePolicy != "truncate" || cfg.Fields.MaxTitleChars != 30 {
		t.Fatalf("overlay not applied: %+v", cfg.Fields)
	}
	if len(cfg.Topics.Categories) != len(DefaultConfig().Topics.Categories) {
		t.Fatalf("defaults lost")
	}
	if _, err := New(cfg); err != nil {
		t.Fatalf("New: %v", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("topics: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
	cfg := DefaultConfig()
	cfg.Topics.Default = "Otro"
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error for unknown default topic")
	}
}
