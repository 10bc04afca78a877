// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"strings"

	"github.com/lucile40lpy/waspp-cpes/models"
)

// FilterRecords drops test submissions: records whose field value,
// trimmed and lower-cased, starts with marker. An empty marker keeps
// every record. The input slice is not modified.
func FilterRecords(records []models.Record, field models.FieldKey, marker string) []models.Record {
	marker = strings.ToLower(strings.TrimSpace(marker))
	if marker == "" {
		return records
	}

	kept := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if label, ok := rec.Label(field); ok {
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(label)), marker) {
				continue
			}
		}
		kept = append(kept, rec)
	}

	return kept
}
