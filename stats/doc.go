// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package stats implements the numeric core of the survey analysis: special
functions, the Student-t tail probability, and simple linear regression.

# Special Functions

LogGamma uses the Lanczos approximation (g = 7, nine coefficients).
IncompleteBeta is the regularized I_x(a, b), evaluated by Lentz's
continued fraction with tolerance 1e-10 and at most 200 iterations:

	IncompleteBeta(a, b, 0) == 0
	IncompleteBeta(a, b, 1) == 1
	IncompleteBeta(a, b, x) + IncompleteBeta(b, a, 1-x) ≈ 1

Non-convergence is never an error; the last estimate is returned.

# Student-t

	p := stats.TwoTailedPValue(t, df) // I_{df/(df+t²)}(df/2, 1/2)

# Regression

ExtractPoints pairs two numeric fields from a batch of records and skips
records where either value is missing or not a finite number. Fit runs
ordinary least squares on the points:

	points := stats.ExtractPoints(records, "workload", "grades")
	res, err := stats.Fit(points)
	switch {
	case errors.Is(err, stats.ErrInsufficientData):
		// fewer than 3 points
	case errors.Is(err, stats.ErrDegenerateInput):
		// all x values identical
	}

Result carries slope, intercept, R², df = n-2, the t-statistic of the
slope and its two-tailed p-value. All functions are pure and safe for
concurrent use.
*/
package stats
