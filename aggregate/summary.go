// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/lucile40lpy/waspp-cpes/models"
)

// Summary holds descriptive statistics of one numeric field
type Summary struct {
	Key    models.FieldKey `json:"key"`
	N      int             `json:"n"`
	Mean   float64         `json:"mean"`
	Median float64         `json:"median"`
	StdDev float64         `json:"std_dev"` // sample standard deviation, 0 when N < 2
	Min    float64         `json:"min"`
	Max    float64         `json:"max"`

	// Overflow is set when a statistic left the float64 range.
	// Those statistics read 0.
	Overflow bool `json:"overflow,omitempty"`
}

// Values collects the finite numeric values stored under key
func Values(records []models.Record, key models.FieldKey) []float64 {
	values := make([]float64, 0, len(records))
	for _, rec := range records {
		if v, ok := rec.Float(key); ok {
			values = append(values, v)
		}
	}
	return values
}

// Summarize computes descriptive statistics of the numeric values under
// key. Non-numeric and missing values are skipped; an empty result has
// N = 0 and zero statistics.
func Summarize(records []models.Record, key models.FieldKey) (Summary, error) {
	values := Values(records, key)
	summary := Summary{Key: key, N: len(values)}
	if len(values) == 0 {
		return summary, nil
	}

	data := stats.Float64Data(values)

	var err error
	if summary.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, fmt.Errorf("failed to compute mean of %s: %w", key, err)
	}
	if summary.Median, err = stats.Median(data); err != nil {
		return Summary{}, fmt.Errorf("failed to compute median of %s: %w", key, err)
	}
	if summary.Min, err = stats.Min(data); err != nil {
		return Summary{}, fmt.Errorf("failed to compute min of %s: %w", key, err)
	}
	if summary.Max, err = stats.Max(data); err != nil {
		return Summary{}, fmt.Errorf("failed to compute max of %s: %w", key, err)
	}
	if len(values) > 1 {
		if summary.StdDev, err = stats.StandardDeviationSample(data); err != nil {
			return Summary{}, fmt.Errorf("failed to compute std dev of %s: %w", key, err)
		}
	}

	for _, v := range []*float64{&summary.Mean, &summary.Median, &summary.StdDev} {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
			summary.Overflow = true
		}
	}

	return summary, nil
}
