package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goactas/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputDir    string
		outputCSV   string
		outputXLSX  string
		outputPDF   string
		dbPath      string
		schema      string
		patterns    string
		sheetID     string
		worksheet   string
		credentials string
		workers     int
		dedupe      bool
		annotate    string
		cacheDir    string
		cacheMaxAge time.Duration
		cacheClear  bool
		cacheStrict bool
		configPath  string
		envFile     string
		verbose     bool
		logJSON     bool
		showVersion bool
	)

	flag.StringVar(&inputDir, "dir", "", "Directory of actas (.pdf, .docx, .html, .txt); default $ACTAS_DIR or ./actas")
	flag.StringVar(&outputCSV, "output.csv", "", "CSV output path; default $OUTPUT_CSV or actas_extraccion.csv")
	flag.StringVar(&outputXLSX, "output.xlsx", "", "Optional Excel output path (sheet \"Actas\")")
	flag.StringVar(&outputPDF, "output.pdf", "", "Optional PDF summary report path")
	flag.StringVar(&dbPath, "db", "", "Optional SQLite database to append the batch to")
	flag.StringVar(&schema, "schema", "", "Column layout: basic, extended (default) or wide")
	flag.StringVar(&patterns, "patterns", "", "YAML pattern file overriding the built-in tables; default $CONFIG_PATH")
	flag.StringVar(&sheetID, "sheet.id", "", "Google spreadsheet ID to upload to; default $SHEET_ID")
	flag.StringVar(&worksheet, "sheet.worksheet", "", "Worksheet name; default $WORKSHEET_NAME or Actas")
	flag.StringVar(&credentials, "sheet.credentials", "", "Service account JSON; default $GOOGLE_APPLICATION_CREDENTIALS")
	flag.IntVar(&workers, "workers", 0, "Documents processed in parallel; default number of CPUs")
	flag.BoolVar(&dedupe, "dedupe", false, "Merge records with the same year and title")
	flag.StringVar(&annotate, "annotate", "", "Add the Año column to an existing CSV/XLSX table instead of extracting")
	flag.StringVar(&cacheDir, "cache.dir", "", "Cache extracted text under this directory")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.BoolVar(&cacheStrict, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	flag.StringVar(&configPath, "config", "", "YAML or JSON config file")
	flag.StringVar(&envFile, "env", "", "Additional dotenv file loaded after .env")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&logJSON, "log.json", false, "Log JSON lines instead of console output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("goactas %s (%s)\n", app.BuildVersion, app.BuildCommit)
		return
	}
	if logJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	if err := app.LoadEnvFiles(".env", envFile); err != nil {
		log.Error().Err(err).Msg("load env files")
		os.Exit(1)
	}

	cfg := app.Config{
		InputDir:         inputDir,
		Inputs:           flag.Args(),
		OutputCSV:        outputCSV,
		OutputXLSX:       outputXLSX,
		OutputPDF:        outputPDF,
		DBPath:           dbPath,
		Schema:           schema,
		PatternsPath:     patterns,
		SheetID:          sheetID,
		Worksheet:        worksheet,
		Credentials:      credentials,
		Workers:          workers,
		Dedupe:           dedupe,
		Annotate:         annotate,
		CacheDir:         cacheDir,
		CacheMaxAge:      cacheMaxAge,
		CacheClear:       cacheClear,
		CacheStrictPerms: cacheStrict,
		Verbose:          verbose,
	}
	cfg, err := resolveConfig(cfg, configPath)
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitCode(err))
	}
}

// resolveConfig layers env and the optional config file under the values
// given as flags, then applies defaults and validates.
func resolveConfig(cfg app.Config, configPath string) (app.Config, error) {
	app.ApplyEnvToConfig(&cfg)
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("config file: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyDefaults(&cfg)
	return cfg, app.ValidateConfig(cfg)
}

// exitCode maps "nothing to do" conditions to 2 and other failures to 1.
func exitCode(err error) int {
	if errors.Is(err, app.ErrNoInputs) || errors.Is(err, app.ErrNoRecords) {
		return 2
	}
	return 1
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
