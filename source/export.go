// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package source

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/lucile40lpy/waspp-cpes/models"
)

// ExportSheet is the sheet name used by WriteWorkbook
const ExportSheet = "Responses"

// Columns returns the union of keys across records. Questionnaire fields
// come first in form order, then any other keys sorted.
func Columns(records []models.Record) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			seen[k] = true
		}
	}

	cols := make([]string, 0, len(seen))
	take := func(k string) {
		if seen[k] {
			cols = append(cols, k)
			delete(seen, k)
		}
	}
	for _, f := range models.DemographicFields {
		take(string(f))
	}
	for _, item := range models.LikertItems {
		take(string(item.Key))
	}

	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)

	return append(cols, rest...)
}

// WriteWorkbook writes records as an xlsx workbook readable by FileSource
func WriteWorkbook(w io.Writer, records []models.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	cols := Columns(records)
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for r, rec := range records {
		row := make([]interface{}, len(cols))
		for i, c := range cols {
			if label, ok := rec.Label(models.FieldKey(c)); ok {
				row[i] = label
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
