package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// manifestEntry is a compact record of a single input document.
type manifestEntry struct {
	Index   int    `json:"index"`
	File    string `json:"file"`
	Format  string `json:"format,omitempty"`
	SHA256  string `json:"sha256,omitempty"`
	Chars   int    `json:"chars"`
	Records int    `json:"records"`
	Cached  bool   `json:"cached,omitempty"`
	Error   string `json:"error,omitempty"`
}

// manifestMeta captures high-level run details that aid reproducibility.
type manifestMeta struct {
	BatchID     string    `json:"batch_id"`
	Schema      string    `json:"schema"`
	Documents   int       `json:"documents"`
	Records     int       `json:"records"`
	Dedupe      bool      `json:"dedupe"`
	TextCache   bool      `json:"text_cache"`
	Patterns    string    `json:"patterns,omitempty"`
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
}

// computeSHA256Hex returns a lowercase hex-encoded SHA-256 of b.
func computeSHA256Hex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// buildManifestEntries lists every document of the batch in input order,
// including the ones that failed.
func buildManifestEntries(docs []DocResult) []manifestEntry {
	out := make([]manifestEntry, 0, len(docs))
	for i, d := range docs {
		e := manifestEntry{
			Index:   i + 1,
			File:    d.Source,
			Format:  string(d.Format),
			SHA256:  d.SHA256,
			Chars:   d.Chars,
			Records: len(d.Records),
			Cached:  d.Cached,
		}
		if d.Err != nil {
			e.Error = d.Err.Error()
		}
		out = append(out, e)
	}
	return out
}

// marshalManifestJSON encodes a machine-readable sidecar manifest.
func marshalManifestJSON(meta manifestMeta, entries []manifestEntry) ([]byte, error) {
	payload := struct {
		Meta      manifestMeta    `json:"meta"`
		Documents []manifestEntry `json:"documents"`
	}{Meta: meta, Documents: entries}
	return json.MarshalIndent(payload, "", "  ")
}

// deriveManifestSidecarPath returns a sidecar JSON path next to the output.
func deriveManifestSidecarPath(outputPath string) string {
	return outputPath + ".manifest.json"
}

func writeManifest(outputPath string, meta manifestMeta, entries []manifestEntry) (string, error) {
	b, err := marshalManifestJSON(meta, entries)
	if err != nil {
		return "", err
	}
	path := deriveManifestSidecarPath(outputPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}
