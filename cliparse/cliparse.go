// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lucile40lpy/waspp-cpes/models"
	"github.com/lucile40lpy/waspp-cpes/report"
	"github.com/lucile40lpy/waspp-cpes/source"
)

// Defaults applied when neither a flag nor an env variable is set
const (
	DefaultPort          = 3318
	DefaultSourceType    = source.TypeSheet
	DefaultRegressionX   = string(models.FieldWorkload)
	DefaultRegressionY   = string(models.FieldGrades)
	DefaultIgnoredFields = "remarks-admin,study-tips"
	DefaultTestRowField  = string(models.FieldAnonymousID)
	DefaultTestRowMarker = "test"
	DefaultFetchTimeout  = 15 * time.Second
)

type Config struct {
	Port          int
	SourceType    string
	SourceURL     string
	AdminKeySalt  string
	RegressionX   string
	RegressionY   string
	IgnoredFields []string
	TestRowField  string
	TestRowMarker string
	FetchTimeout  time.Duration
}

// LoadDotEnv loads variables from .env files into the environment without
// overriding ones already set. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ParseFlags validates flags and fills the rest from env and defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var ignored, timeout string

	fs := flag.NewFlagSet("waspp-cpes", flag.ContinueOnError)

	// Network and source config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.SourceType, "s", "", "Source type (sheet, xlsx, csv, sqlite, postgres, memory)")
	fs.StringVar(&cfg.SourceURL, "u", "", "Source URL, file path or DSN")
	fs.StringVar(&timeout, "timeout", "", "Fetch timeout (e.g. 15s)")

	// Analysis config
	fs.StringVar(&cfg.RegressionX, "x", "", "Regression independent field")
	fs.StringVar(&cfg.RegressionY, "y", "", "Regression dependent field")
	fs.StringVar(&ignored, "ignore", "", "Comma-separated fields excluded from completion")
	fs.StringVar(&cfg.TestRowField, "test-field", "", "Field holding the test-row marker")
	fs.StringVar(&cfg.TestRowMarker, "test-marker", "", "Prefix marking test rows")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	cfg.SourceType = firstNonEmpty(cfg.SourceType, os.Getenv("SOURCE_TYPE"), DefaultSourceType)
	switch cfg.SourceType {
	case source.TypeSheet, source.TypeXLSX, source.TypeCSV, source.TypeSQLite, source.TypePostgres, source.TypeMemory:
	default:
		return Config{}, fmt.Errorf("unknown source type %q", cfg.SourceType)
	}

	cfg.SourceURL = firstNonEmpty(cfg.SourceURL, os.Getenv("SOURCE_URL"), os.Getenv("SHEET_API_URL"))
	if cfg.SourceURL == "" && cfg.SourceType != source.TypeMemory {
		return Config{}, errors.New("source URL required (use -u, SOURCE_URL or SHEET_API_URL env)")
	}

	timeout = firstNonEmpty(timeout, os.Getenv("FETCH_TIMEOUT"))
	cfg.FetchTimeout = DefaultFetchTimeout
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid fetch timeout %q", timeout)
		}
		cfg.FetchTimeout = d
	}

	cfg.RegressionX = firstNonEmpty(cfg.RegressionX, os.Getenv("REGRESSION_X"), DefaultRegressionX)
	cfg.RegressionY = firstNonEmpty(cfg.RegressionY, os.Getenv("REGRESSION_Y"), DefaultRegressionY)
	cfg.TestRowField = firstNonEmpty(cfg.TestRowField, os.Getenv("TEST_ROW_FIELD"), DefaultTestRowField)

	// An explicitly empty value disables these, so look past "unset"
	if !set["ignore"] {
		ignored = lookupEnv("IGNORED_FIELDS", DefaultIgnoredFields)
	}
	cfg.IgnoredFields = splitList(ignored)

	if !set["test-marker"] {
		cfg.TestRowMarker = lookupEnv("TEST_ROW_MARKER", DefaultTestRowMarker)
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	return cfg, nil
}

// SourceConfig returns the settings for source.Open
func (c Config) SourceConfig() source.Config {
	return source.Config{
		Type:    c.SourceType,
		URL:     c.SourceURL,
		Timeout: c.FetchTimeout,
	}
}

// ReportConfig returns the dashboard configuration for the questionnaire
func (c Config) ReportConfig() report.Config {
	cfg := report.DefaultConfig()

	cfg.IgnoredFields = make([]models.FieldKey, len(c.IgnoredFields))
	for i, f := range c.IgnoredFields {
		cfg.IgnoredFields[i] = models.FieldKey(f)
	}
	cfg.Pairs = []report.Pair{{X: models.FieldKey(c.RegressionX), Y: models.FieldKey(c.RegressionY)}}
	cfg.TestRowField = models.FieldKey(c.TestRowField)
	cfg.TestRowMarker = c.TestRowMarker

	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func lookupEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
