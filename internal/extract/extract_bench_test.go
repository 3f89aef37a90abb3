package extract

import (
	"strings"
	"testing"
)

func BenchmarkFromHTML(b *testing.B) {
	small := []byte("<html><head><title>t</title></head><body><main><p>a</p></main></body></html>")
	large := makeHTML(200)

	b.Run("small", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = FromHTML(small)
		}
	})
	b.Run("large", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = FromHTML(large)
		}
	})
}

func makeHTML(items int) []byte {
	builder := new(strings.Builder)
	builder.WriteString("<html><head><title>acta</title></head><body><main><h2>Informes de avance</h2><ul>")
	for i := 0; i < items; i++ {
		builder.WriteString("<li>")
		builder.WriteString(sampleItem)
		builder.WriteString("</li>")
	}
	builder.WriteString("</ul></main></body></html>")
	return []byte(builder.String())
}

const sampleItem = "Denominación: Manejo del Agua en Zonas Áridas. Director: Dr. Juan Pérez. Se aprueba y eleva."
