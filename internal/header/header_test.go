package header

import "testing"

func TestActNumber_Variants(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ACTA Nº 345", "345"},
		{"ACTA No 345", "345"},
		{"acta n° 12 del Consejo", "12"},
		{"ACTA Nro. 7", "7"},
		{"ACTA 88", "88"},
		{"Orden del día", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := ActNumber(c.in); got != c.want {
			t.Fatalf("ActNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestActNumberFromFilename(t *testing.T) {
	cases := map[string]string{
		"Orden_del_dia_412.pdf":      "412",
		"/tmp/actas/acta-33.docx":    "33",
		"sin-numero.pdf":             "",
		"":                           "",
		"documento_123456_final.pdf": "",
	}
	for in, want := range cases {
		if got := ActNumberFromFilename(in); got != want {
			t.Fatalf("ActNumberFromFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDateText_PrefersCityLine(t *testing.T) {
	text := "ACTA Nº 345\nEn la ciudad de Posadas, a los quince días del mes de marzo de dos mil veinticuatro, se reúne el Consejo.\nOrden del día"
	got := DateText(text)
	want := "En la ciudad de Posadas, a los quince días del mes de marzo de dos mil veinticuatro, se reúne el Consejo."
	if got != want {
		t.Fatalf("DateText() = %q", got)
	}
}

func TestDateText_DateClause(t *testing.T) {
	text := "CONSEJO DE INVESTIGACIÓN\nReunidos a los 15 días del mes de marzo de dos mil veinticuatro los consejeros"
	got := DateText(text)
	if got != "a los 15 días del mes de marzo de dos mil veinticuatro" {
		t.Fatalf("DateText() = %q", got)
	}
}

func TestDateText_FallbackLines(t *testing.T) {
	if got := DateText("corto\nEsta es una línea suficientemente larga\notra"); got != "Esta es una línea suficientemente larga" {
		t.Fatalf("long line fallback: got %q", got)
	}
	if got := DateText("uno\ndos"); got != "uno" {
		t.Fatalf("first line fallback: got %q", got)
	}
	if got := DateText(""); got != "" {
		t.Fatalf("empty: got %q", got)
	}
}

func TestInferYear_SpelledOut(t *testing.T) {
	e := New(Config{})
	if got := e.InferYear("a los 15 días del mes de marzo de dos mil veinticuatro"); got != 2024 {
		t.Fatalf("InferYear() = %d, want 2024", got)
	}
	if got := e.InferYear("DOS MIL VEINTIDÓS"); got != 2022 {
		t.Fatalf("accented upper-case word: got %d", got)
	}
}

func TestInferYear_PrefersLargestLiteral(t *testing.T) {
	e := New(Config{})
	if got := e.InferYear("Convocatoria 2023-2024, dos mil veinte"); got != 2024 {
		t.Fatalf("InferYear() = %d, want 2024", got)
	}
}

func TestInferYear_BoundsAndAbsent(t *testing.T) {
	e := New(Config{YearWords: map[string]int{"cien": 2150}})
	inputs := []string{"", "sin año", "en 1999", "dos mil cien", "año 2099 y 3024", "2000", "20245"}
	for _, in := range inputs {
		y := e.InferYear(in)
		if y != 0 && (y < 2000 || y > 2100) {
			t.Fatalf("InferYear(%q) = %d out of bounds", in, y)
		}
	}
	if got := e.InferYear("dos mil cien"); got != 0 {
		t.Fatalf("out-of-range table entry should be rejected, got %d", got)
	}
	if got := e.InferYear("sin año"); got != 0 {
		t.Fatalf("expected absent year, got %d", got)
	}
}

func TestExtract_FilenameFallbackAndYearFromText(t *testing.T) {
	e := New(Config{FilenameFallback: true})
	m := e.Extract("ORDEN DEL DÍA\nReunión ordinaria del Consejo de Investigación 2023", "orden_55.pdf")
	if m.Act != "55" {
		t.Fatalf("Act = %q, want 55", m.Act)
	}
	if m.Year != 2023 {
		t.Fatalf("Year = %d, want 2023", m.Year)
	}

	e = New(Config{})
	if m := e.Extract("sin número", "orden_55.pdf"); m.Act != "" {
		t.Fatalf("fallback disabled, got %q", m.Act)
	}
}
