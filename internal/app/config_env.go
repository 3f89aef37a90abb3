package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&cfg.InputDir, "ACTAS_DIR")
	setString(&cfg.OutputCSV, "OUTPUT_CSV")
	setString(&cfg.OutputXLSX, "OUTPUT_XLSX")
	setString(&cfg.OutputPDF, "OUTPUT_PDF")
	setString(&cfg.DBPath, "DB_PATH")
	setString(&cfg.Schema, "SCHEMA")
	setString(&cfg.PatternsPath, "CONFIG_PATH")
	setString(&cfg.SheetID, "SHEET_ID")
	setString(&cfg.Worksheet, "WORKSHEET_NAME")
	setString(&cfg.Credentials, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&cfg.CacheDir, "CACHE_DIR")

	if cfg.Workers == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("WORKERS"))); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	// Optional durations
	if cfg.CacheMaxAge == 0 {
		if s := os.Getenv("CACHE_MAX_AGE"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.CacheMaxAge = d
			}
		}
	}

	// Booleans
	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			if s == "1" || s == "true" || s == "yes" || s == "on" {
				*dst = true
			}
		}
	}
	setBool(&cfg.Dedupe, "DEDUPE")
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
}
