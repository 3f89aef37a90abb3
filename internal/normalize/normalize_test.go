package normalize

import "testing"

func TestText_CollapsesWhitespaceAndNewlines(t *testing.T) {
	in := "  ACTA Nº  345\r\n\r\n\n\tEn la\tciudad \x00 de Posadas  \n"
	got := Text(in)
	want := "ACTA No 345\n En la ciudad de Posadas"
	if got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
}

func TestText_EmptyAndBlank(t *testing.T) {
	if got := Text(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := Text(" \n\t  "); got != "" {
		t.Fatalf("expected blank input to normalize to empty, got %q", got)
	}
}

func TestText_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"a\n \n\nb",
		"é  x",
		"\x00́ start",
		"ﬁn de\r\r\rlínea",
		"Facultad de Ingeniería\n\n\n- Proyecto: X",
		" \t tabs\t\tand  spaces \n",
	}
	for _, in := range inputs {
		once := Text(in)
		twice := Text(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestFold_StripsAccentsAndCase(t *testing.T) {
	if got := Fold("  Veintidós\nMIL "); got != "veintidos mil" {
		t.Fatalf("Fold() = %q", got)
	}
}

func TestLine_JoinsLines(t *testing.T) {
	if got := Line("a\n b\t c"); got != "a b c" {
		t.Fatalf("Line() = %q", got)
	}
}
