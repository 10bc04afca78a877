// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import "github.com/lucile40lpy/waspp-cpes/models"

// CompletionStats counts how many responses filled every field they carry
type CompletionStats struct {
	Total    int `json:"total"`
	Complete int `json:"complete"`
}

// Rate returns Complete/Total, or 0 for an empty batch
func (c CompletionStats) Rate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Complete) / float64(c.Total)
}

// ComputeCompletionStats counts the records that are complete.
//
// A record is complete when every key present on it, other than the
// ignored ones, holds a non-empty value. Keys absent from a record are
// not checked, so completeness depends on what the source returned for
// that row rather than on a master field list.
func ComputeCompletionStats(records []models.Record, ignored []models.FieldKey) CompletionStats {
	skip := make(map[string]struct{}, len(ignored))
	for _, key := range ignored {
		skip[string(key)] = struct{}{}
	}

	stats := CompletionStats{Total: len(records)}
	for _, rec := range records {
		if isComplete(rec, skip) {
			stats.Complete++
		}
	}

	return stats
}

func isComplete(rec models.Record, skip map[string]struct{}) bool {
	for key := range rec {
		if _, ignored := skip[key]; ignored {
			continue
		}
		if rec.Blank(key) {
			return false
		}
	}
	return true
}
