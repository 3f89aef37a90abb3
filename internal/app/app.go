package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/goactas/internal/cache"
	"github.com/hyperifyio/goactas/internal/consolidate"
	"github.com/hyperifyio/goactas/internal/export"
	"github.com/hyperifyio/goactas/internal/extract"
	"github.com/hyperifyio/goactas/internal/header"
	"github.com/hyperifyio/goactas/internal/pipeline"
	"github.com/hyperifyio/goactas/internal/record"
	"github.com/hyperifyio/goactas/internal/sheets"
	"github.com/hyperifyio/goactas/internal/store"
)

// ErrNoInputs is returned when the input directory holds no readable
// document. Per the exit code policy this results in a non-zero exit.
var ErrNoInputs = errors.New("no input documents")

// ErrNoRecords is returned when every document was read but no item
// produced a record.
var ErrNoRecords = errors.New("no records extracted")

// ErrUnreadable marks a document whose text could not be recovered, such as
// a scanned PDF without a text layer. It is reported per document and does
// not stop the batch.
var ErrUnreadable = errors.New("document has no readable text")

type App struct {
	cfg      Config
	pipe     *pipeline.Pipeline
	schema   record.Schema
	cache    *cache.TextCache
	years    *header.Extractor
	sheetSvc sheets.Service
	now      func() time.Time
}

// DocResult is the outcome of one input file.
type DocResult struct {
	Path    string
	Source  string
	Format  extract.Format
	SHA256  string
	Chars   int
	Cached  bool
	Stats   pipeline.Stats
	Records []record.Record
	Err     error
}

// Batch is the outcome of one run over all inputs, in input order.
type Batch struct {
	ID        string
	CreatedAt time.Time
	Docs      []DocResult
	Records   []record.Record
	Stats     pipeline.Stats
}

func New(ctx context.Context, cfg Config) (*App, error) {
	pcfg, err := pipeline.LoadConfig(cfg.PatternsPath)
	if err != nil {
		return nil, err
	}
	pipe, err := pipeline.New(pcfg)
	if err != nil {
		return nil, fmt.Errorf("patterns: %w", err)
	}
	schema, err := record.ParseSchema(cfg.Schema, pipe.Categories())
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, pipe: pipe, schema: schema, years: header.New(pcfg.Header), now: time.Now}

	if cfg.CacheDir != "" {
		// Apply cache invalidation controls
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
			if err != nil {
				log.Warn().Err(err).Msg("cache purge failed; continuing")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("purged stale cache entries")
			}
		}
		a.cache = &cache.TextCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}
	return a, nil
}

func (a *App) Close() {
	// nothing yet
}

// Run executes one batch, or annotates an existing table when
// Config.Annotate is set.
func (a *App) Run(ctx context.Context) error {
	if strings.TrimSpace(a.cfg.Annotate) != "" {
		return a.annotate(ctx)
	}

	paths, err := a.inputs()
	if err != nil {
		return err
	}
	log.Info().Int("documents", len(paths)).Msg("processing actas")

	batch, err := a.Process(ctx, paths)
	if err != nil {
		return err
	}
	readable := 0
	for _, d := range batch.Docs {
		if d.Err == nil {
			readable++
		}
	}
	if readable == 0 {
		return fmt.Errorf("%w: none of %d files could be read", ErrNoInputs, len(paths))
	}
	if len(batch.Records) == 0 {
		log.Warn().Int("items", batch.Stats.Items).Int("filtered", batch.Stats.Filtered).Msg("no items detected")
		return ErrNoRecords
	}
	if a.cfg.Dedupe {
		before := len(batch.Records)
		batch.Records = consolidate.Dedupe(batch.Records)
		log.Debug().Int("before", before).Int("after", len(batch.Records)).Msg("deduplicated records")
	}

	if err := a.write(ctx, batch); err != nil {
		return err
	}
	log.Info().
		Str("batch", batch.ID).
		Int("documents", readable).
		Int("records", len(batch.Records)).
		Int("filtered", batch.Stats.Filtered).
		Int("untitled", batch.Stats.Untitled).
		Msg("batch complete")
	return nil
}

// inputs returns the explicit files, or the supported files of InputDir in
// name order.
func (a *App) inputs() ([]string, error) {
	if len(a.cfg.Inputs) > 0 {
		return append([]string(nil), a.cfg.Inputs...), nil
	}
	entries, err := os.ReadDir(a.cfg.InputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s not found", ErrNoInputs, a.cfg.InputDir)
		}
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !extract.Supported(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(a.cfg.InputDir, e.Name()))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputs, a.cfg.InputDir)
	}
	sort.Strings(out)
	return out, nil
}

// Process reads and extracts every path in parallel. A document that fails
// is reported in its DocResult and does not stop the others. Only context
// cancellation returns an error.
func (a *App) Process(ctx context.Context, paths []string) (Batch, error) {
	b := Batch{ID: uuid.NewString(), CreatedAt: a.now().UTC(), Docs: make([]DocResult, len(paths))}

	g, gctx := errgroup.WithContext(ctx)
	workers := a.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b.Docs[i] = a.processFile(gctx, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Batch{}, err
	}

	for _, d := range b.Docs {
		if d.Err != nil {
			log.Warn().Err(d.Err).Str("file", d.Source).Msg("skipping document")
			continue
		}
		log.Debug().
			Str("file", d.Source).
			Int("sections", d.Stats.Sections).
			Int("items", d.Stats.Items).
			Int("records", d.Stats.Records).
			Bool("cached", d.Cached).
			Msg("document processed")
		b.Stats.Add(d.Stats)
		b.Records = append(b.Records, d.Records...)
	}
	return b, nil
}

func (a *App) processFile(ctx context.Context, path string) DocResult {
	res := DocResult{Path: path, Source: filepath.Base(path)}
	raw, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.SHA256 = computeSHA256Hex(raw)

	text, err := a.documentText(ctx, &res, raw)
	if err != nil {
		res.Err = err
		return res
	}
	out := a.pipe.Run(pipeline.Document{Source: res.Source, Text: text})
	res.Stats = out.Stats
	res.Records = out.Records
	return res
}

// documentText returns the text of raw, from the cache when it holds an
// entry for the same bytes.
func (a *App) documentText(ctx context.Context, res *DocResult, raw []byte) (string, error) {
	if a.cache != nil {
		text, e, ok, err := a.cache.Get(ctx, res.SHA256)
		if err != nil {
			log.Debug().Err(err).Msg("cache get failed")
		} else if ok {
			res.Format, res.Chars, res.Cached = extract.Format(e.Format), e.Chars, true
			return text, nil
		}
	}
	doc, err := extract.FromBytes(res.Path, raw)
	res.Format = doc.Format
	if err != nil {
		if errors.Is(err, extract.ErrNoTextLayer) {
			return "", fmt.Errorf("%s: %w", res.Source, ErrUnreadable)
		}
		return "", err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return "", fmt.Errorf("%s: %w", res.Source, ErrUnreadable)
	}
	res.Chars = len([]rune(doc.Text))
	if a.cache != nil {
		e := cache.Entry{Source: res.Source, Format: string(doc.Format), Pages: doc.Pages}
		if err := a.cache.Save(ctx, res.SHA256, doc.Text, e); err != nil {
			log.Debug().Err(err).Msg("cache save failed")
		}
	}
	return doc.Text, nil
}

// write sends the batch to every configured sink.
func (a *App) write(ctx context.Context, b Batch) error {
	table := a.schema.Table(b.Records)

	var written []string
	if a.cfg.OutputCSV != "" {
		if err := export.WriteFile(a.cfg.OutputCSV, table); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		written = append(written, a.cfg.OutputCSV)
	}
	if a.cfg.OutputXLSX != "" {
		if err := export.WriteFile(a.cfg.OutputXLSX, table); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		written = append(written, a.cfg.OutputXLSX)
	}
	if a.cfg.OutputPDF != "" {
		opts := export.PDFOptions{
			Title:       "Actas del Consejo de Investigación",
			Columns:     []string{record.ColYear, record.ColAct, record.ColTopic, record.ColTitle, record.ColDirector, record.ColStatus},
			GeneratedAt: b.CreatedAt,
		}
		if err := os.MkdirAll(filepath.Dir(a.cfg.OutputPDF), 0o755); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		if err := export.WritePDFFile(a.cfg.OutputPDF, table, opts); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		written = append(written, a.cfg.OutputPDF)
	}
	for _, p := range written {
		log.Info().Str("out", p).Int("rows", len(table.Rows)).Msg("wrote output")
	}

	if len(written) > 0 {
		meta := manifestMeta{
			BatchID:     b.ID,
			Schema:      a.schema.Name,
			Documents:   len(b.Docs),
			Records:     len(b.Records),
			Dedupe:      a.cfg.Dedupe,
			TextCache:   a.cache != nil,
			Patterns:    a.cfg.PatternsPath,
			Version:     BuildVersion,
			GeneratedAt: b.CreatedAt,
		}
		path, err := writeManifest(written[0], meta, buildManifestEntries(b.Docs))
		if err != nil {
			log.Warn().Err(err).Msg("manifest write failed")
		} else {
			log.Debug().Str("out", path).Msg("wrote manifest")
		}
	}

	if a.cfg.DBPath != "" {
		if err := a.saveBatch(ctx, b); err != nil {
			return fmt.Errorf("store: %w", err)
		}
		log.Info().Str("db", a.cfg.DBPath).Str("batch", b.ID).Msg("saved batch")
	}

	if a.cfg.SheetID != "" {
		if err := a.upload(ctx, table); err != nil {
			return fmt.Errorf("sheets: %w", err)
		}
	}
	return nil
}

func (a *App) saveBatch(ctx context.Context, b Batch) error {
	st, err := store.Open(ctx, a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.SaveBatch(ctx, store.Batch{
		ID:        b.ID,
		CreatedAt: b.CreatedAt,
		Schema:    a.schema.Name,
		Documents: len(b.Docs),
	}, b.Records)
}

func (a *App) upload(ctx context.Context, t record.Table) error {
	if a.sheetSvc == nil {
		svc, err := sheets.NewGoogle(ctx, a.cfg.Credentials)
		if err != nil {
			return err
		}
		a.sheetSvc = svc
	}
	n, err := sheets.Upsert(ctx, a.sheetSvc, a.cfg.SheetID, a.cfg.Worksheet, t)
	if err != nil {
		return err
	}
	log.Info().Str("worksheet", a.cfg.Worksheet).Int("rows", n).Msg("uploaded to Google Sheets")
	return nil
}
