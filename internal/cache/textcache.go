package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Entry describes a cached extraction. The text itself lives next to it in
// <key>.txt.
type Entry struct {
	Source  string    `json:"source"`
	Format  string    `json:"format"`
	Pages   int       `json:"pages,omitempty"`
	Chars   int       `json:"chars"`
	SavedAt time.Time `json:"saved_at"`
}

// TextCache stores extracted document text on disk as <key>.meta.json and
// <key>.txt, where key is the sha256 of the file bytes. Re-running a batch
// over unchanged files skips PDF and DOCX parsing.
type TextCache struct {
	Dir         string
	// StrictPerms, when true, enforces 0700 on cache directories and 0600 on
	// files.
	StrictPerms bool
}

func (c *TextCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	perm := os.FileMode(0o755)
	if c.StrictPerms {
		perm = 0o700
	}
	if err := os.MkdirAll(c.Dir, perm); err != nil {
		return err
	}
	if c.StrictPerms {
		if info, err := os.Stat(c.Dir); err == nil && info.Mode()&0o777 != 0o700 {
			_ = os.Chmod(c.Dir, 0o700)
		}
	}
	return nil
}

// KeyFrom digests the raw file bytes.
func KeyFrom(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

func (c *TextCache) textPath(key string) string { return filepath.Join(c.Dir, key+".txt") }
func (c *TextCache) metaPath(key string) string { return filepath.Join(c.Dir, key+".meta.json") }

// Get returns the cached text and its entry. A miss is not an error.
func (c *TextCache) Get(_ context.Context, key string) (string, Entry, bool, error) {
	if err := c.ensureDir(); err != nil {
		return "", Entry{}, false, err
	}
	mb, err := os.ReadFile(c.metaPath(key))
	if err != nil {
		return "", Entry{}, false, nil
	}
	var e Entry
	if err := json.Unmarshal(mb, &e); err != nil {
		return "", Entry{}, false, nil
	}
	tb, err := os.ReadFile(c.textPath(key))
	if err != nil {
		return "", Entry{}, false, nil
	}
	return string(tb), e, true, nil
}

// Save writes text and its entry. SavedAt is set when zero.
func (c *TextCache) Save(_ context.Context, key, text string, e Entry) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now().UTC()
	}
	e.Chars = len([]rune(text))
	mode := os.FileMode(0o644)
	if c.StrictPerms {
		mode = 0o600
	}
	if err := os.WriteFile(c.textPath(key), []byte(text), mode); err != nil {
		return err
	}
	mb, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.metaPath(key), mb, mode)
}
