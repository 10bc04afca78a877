// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/lucile40lpy/waspp-cpes/aggregate"
)

// PValueFloor is the smallest p-value printed as a number
const PValueFloor = 0.001

// FormatPValue renders a p-value for display: "< 0.001" below the floor,
// otherwise at most three decimals.
func FormatPValue(p float64) string {
	if p < PValueFloor {
		return "< 0.001"
	}
	return humanize.FtoaWithDigits(p, 3)
}

// FormatCompletion renders completion counts, e.g. "1,204 of 1,310 complete (91.9%)"
func FormatCompletion(c aggregate.CompletionStats) string {
	return fmt.Sprintf("%s of %s complete (%.1f%%)",
		humanize.Comma(int64(c.Complete)), humanize.Comma(int64(c.Total)), c.Rate()*100)
}
