package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	// Inputs
	InputDir string
	// Inputs lists explicit files; when set, InputDir is not scanned.
	Inputs []string

	// Outputs
	OutputCSV  string
	OutputXLSX string
	OutputPDF  string
	DBPath     string
	Schema     string

	// Pattern tables; empty uses the embedded defaults.
	PatternsPath string

	// Google Sheets
	SheetID     string
	Worksheet   string
	Credentials string

	// Behavior
	Workers int
	Dedupe  bool
	// Annotate, when set, is a CSV or XLSX table to which the Año column is
	// added instead of running an extraction batch.
	Annotate string

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	Verbose bool
}
