// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/lucile40lpy/waspp-cpes/models"
)

// Reliability is Cronbach's alpha for a block of Likert items
type Reliability struct {
	Alpha float64 `json:"alpha"`
	Items int     `json:"items"`
	N     int     `json:"n"` // records answering every item numerically

	// Overflow is set when the variances left the float64 range; Alpha is 0
	Overflow bool `json:"overflow,omitempty"`
}

// CronbachAlpha computes internal consistency over keys. Only records
// with a numeric answer for every key take part. Population variances
// are used throughout, so perfectly correlated items give alpha = 1.
// The result is clamped to [0, 1] and is 0 with fewer than two items
// or two records.
func CronbachAlpha(records []models.Record, keys []models.FieldKey) Reliability {
	rel := Reliability{Items: len(keys)}
	if len(keys) < 2 {
		return rel
	}

	var matrix [][]float64
	for _, rec := range records {
		row := make([]float64, len(keys))
		complete := true
		for j, key := range keys {
			v, ok := rec.Float(key)
			if !ok {
				complete = false
				break
			}
			row[j] = v
		}
		if complete {
			matrix = append(matrix, row)
		}
	}

	rel.N = len(matrix)
	if rel.N < 2 {
		return rel
	}

	k := len(keys)
	columns := make([]stats.Float64Data, k)
	totals := make(stats.Float64Data, rel.N)
	for i, row := range matrix {
		for j, v := range row {
			columns[j] = append(columns[j], v)
			totals[i] += v
		}
	}

	var sumItemVars float64
	for _, col := range columns {
		v, err := col.PopulationVariance()
		if err != nil {
			return rel
		}
		sumItemVars += v
	}

	totalVar, err := totals.PopulationVariance()
	if err != nil || totalVar == 0 {
		return rel
	}
	if math.IsInf(sumItemVars, 0) || math.IsNaN(sumItemVars) || math.IsInf(totalVar, 0) || math.IsNaN(totalVar) {
		rel.Overflow = true
		return rel
	}

	kf := float64(k)
	alpha := (kf / (kf - 1)) * (1 - sumItemVars/totalVar)
	switch {
	case alpha < 0:
		alpha = 0
	case alpha > 1:
		alpha = 1
	}
	rel.Alpha = alpha

	return rel
}
