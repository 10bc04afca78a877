// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lucile40lpy/waspp-cpes/db"
	"github.com/lucile40lpy/waspp-cpes/models"
)

// Source types accepted by Open
const (
	TypeSheet    = "sheet"
	TypeXLSX     = "xlsx"
	TypeCSV      = "csv"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeMemory   = "memory"
)

// DefaultTimeout bounds a single fetch or submit against a remote source
const DefaultTimeout = 15 * time.Second

var (
	// ErrReadOnly is returned by Submit on sources that cannot store responses
	ErrReadOnly = errors.New("source is read-only")
	// ErrUnknownSource is returned by Open for an unrecognized type
	ErrUnknownSource = errors.New("unknown source type")
	// ErrMissingURL is returned by Open when a type needs a location and none is set
	ErrMissingURL = errors.New("source URL is required")
	// ErrMalformedRows is returned when a payload holds no usable row array
	ErrMalformedRows = errors.New("malformed response rows")
)

// Source yields the complete current batch of responses
type Source interface {
	Fetch(ctx context.Context) ([]models.Record, error)
}

// Submitter stores one response and returns its identifier
type Submitter interface {
	Submit(ctx context.Context, rec models.Record) (string, error)
}

// Store is a source that also accepts submissions
type Store interface {
	Source
	Submitter
}

// Config selects and locates a source
type Config struct {
	Type    string
	URL     string
	Timeout time.Duration
}

// Open builds the source described by cfg. Every returned value
// implements Store; read-only sources answer Submit with ErrReadOnly.
// Callers should Close the result when it implements io.Closer.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.Type != TypeMemory && cfg.URL == "" {
		return nil, fmt.Errorf("%w for %s source", ErrMissingURL, cfg.Type)
	}

	switch cfg.Type {
	case TypeSheet:
		return NewSheetSource(cfg.URL, cfg.Timeout), nil
	case TypeXLSX, TypeCSV:
		return NewFileSource(cfg.URL, cfg.Type), nil
	case TypeSQLite, TypePostgres:
		openCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		conn, err := db.Open(openCtx, cfg.Type, cfg.URL)
		if err != nil {
			return nil, err
		}
		if err := db.CreateSchema(openCtx, conn); err != nil {
			conn.Close()
			return nil, err
		}
		return NewSQLSource(conn), nil
	case TypeMemory:
		return NewMemorySource(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Type)
	}
}
