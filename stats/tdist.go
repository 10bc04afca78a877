// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

// TwoTailedPValue returns P(|T| > |t|) for a Student-t variable with df
// degrees of freedom, computed as I_{df/(df+t²)}(df/2, 1/2).
// The result is symmetric in the sign of t; t = 0 yields exactly 1.
// A df below 1 carries no evidence and also yields 1.
func TwoTailedPValue(t float64, df int) float64 {
	if df < 1 {
		return 1
	}

	v := float64(df)
	p := IncompleteBeta(v/2, 0.5, v/(v+t*t))

	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
