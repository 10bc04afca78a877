// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lucile40lpy/waspp-cpes/models"
)

// SQLSource keeps responses in the survey_response table
type SQLSource struct {
	db *sqlx.DB
}

type responseRow struct {
	ID      string `db:"id"`
	Payload string `db:"payload"`
}

// NewSQLSource wraps an open connection whose schema already exists
func NewSQLSource(db *sqlx.DB) *SQLSource {
	return &SQLSource{db: db}
}

// Fetch loads every stored response in submission order
func (s *SQLSource) Fetch(ctx context.Context) ([]models.Record, error) {
	var rows []responseRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, payload
		FROM survey_response
		ORDER BY submitted_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}

	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		var rec models.Record
		if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode response %s: %w", row.ID, err)
		}
		if rec == nil {
			rec = models.Record{}
		}
		records = append(records, rec)
	}

	return records, nil
}

// Submit stores rec and returns its generated id
func (s *SQLSource) Submit(ctx context.Context, rec models.Record) (string, error) {
	if rec == nil {
		rec = models.Record{}
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode response: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		s.db.Rebind(`INSERT INTO survey_response (id, payload) VALUES (?, ?)`),
		id, string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert response: %w", err)
	}

	return id, nil
}

// Close closes the underlying connection
func (s *SQLSource) Close() error {
	return s.db.Close()
}
