// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/lucile40lpy/waspp-cpes/models"
)

// maxBodyBytes caps how much of a sheet API response is read
const maxBodyBytes = 32 << 20

// rowPaths are the object members searched for the row array when the
// payload is not an array itself
var rowPaths = []string{"data", "rows", "records"}

// SheetSource reads and appends rows through a spreadsheet web API.
// GET returns every row as a JSON object keyed by column header; POST
// with a multipart form appends one row.
type SheetSource struct {
	url    string
	client *http.Client
}

// NewSheetSource creates a sheet source for url
func NewSheetSource(url string, timeout time.Duration) *SheetSource {
	return &SheetSource{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves the full batch of rows
func (s *SheetSource) Fetch(ctx context.Context) ([]models.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet API returned status %d", resp.StatusCode)
	}

	return ParseRows(body)
}

// Submit appends rec as a new row. Every field is sent as its display
// label, so numbers and strings land in the sheet the same way the
// intake form sends them.
func (s *SheetSource) Submit(ctx context.Context, rec models.Record) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		label, _ := rec.Label(models.FieldKey(k))
		if err := form.WriteField(k, label); err != nil {
			return "", fmt.Errorf("failed to encode field %s: %w", k, err)
		}
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sheet submit failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("sheet API returned status %d", resp.StatusCode)
	}

	// Prefer the row id assigned by the sheet, if it reports one
	for _, path := range []string{"id", "response_id", "row"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.String() != "" {
			return v.String(), nil
		}
	}

	return uuid.NewString(), nil
}

// ParseRows decodes a sheet API payload. The rows are either the
// top-level array or the first array found under data, rows or records.
// Non-object entries are skipped; values keep their JSON types.
func ParseRows(body []byte) ([]models.Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedRows)
	}

	rows := gjson.ParseBytes(body)
	if !rows.IsArray() {
		for _, path := range rowPaths {
			if r := rows.Get(path); r.IsArray() {
				rows = r
				break
			}
		}
	}
	if !rows.IsArray() {
		return nil, fmt.Errorf("%w: no row array found", ErrMalformedRows)
	}

	var records []models.Record
	rows.ForEach(func(_, row gjson.Result) bool {
		if !row.IsObject() {
			return true
		}
		rec := make(models.Record)
		row.ForEach(func(key, value gjson.Result) bool {
			rec[key.String()] = value.Value()
			return true
		})
		records = append(records, rec)
		return true
	})

	return records, nil
}
