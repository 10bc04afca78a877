// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lucile40lpy/waspp-cpes/models"
)

// FileSource reads an exported copy of the response sheet. The first row
// holds the field keys; every later row is one response. Cells are kept
// as strings, and a blank cell is an unanswered question.
type FileSource struct {
	path string
	kind string // TypeXLSX or TypeCSV
}

// NewFileSource creates a file source. An empty kind is inferred from the
// file extension.
func NewFileSource(path, kind string) *FileSource {
	if kind == "" {
		kind = TypeXLSX
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			kind = TypeCSV
		}
	}
	return &FileSource{path: path, kind: kind}
}

// Fetch reads the whole file
func (s *FileSource) Fetch(ctx context.Context) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		rows [][]string
		err  error
	)
	switch s.kind {
	case TypeCSV:
		rows, err = s.readCSV()
	case TypeXLSX:
		rows, err = s.readXLSX()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, s.kind)
	}
	if err != nil {
		return nil, err
	}

	return RowsToRecords(rows), nil
}

// Submit always fails; exported files are snapshots
func (s *FileSource) Submit(context.Context, models.Record) (string, error) {
	return "", ErrReadOnly
}

func (s *FileSource) readXLSX() ([][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", s.path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func (s *FileSource) readCSV() ([][]string, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// RowsToRecords converts a header row plus data rows into records.
// Columns with an empty header are dropped, short rows are padded with
// blanks, and rows with no content at all are skipped.
func RowsToRecords(rows [][]string) []models.Record {
	if len(rows) == 0 {
		return nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(models.Record, len(headers))
		empty := true
		for i, h := range headers {
			if h == "" {
				continue
			}
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if strings.TrimSpace(cell) != "" {
				empty = false
			}
			rec[h] = cell
		}
		if !empty {
			records = append(records, rec)
		}
	}

	return records
}
