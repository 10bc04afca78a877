// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/lucile40lpy/waspp-cpes/models"
)

// MinPoints is the smallest sample that yields at least one degree of freedom
const MinPoints = 3

var (
	// ErrInsufficientData is returned when fewer than MinPoints valid pairs exist
	ErrInsufficientData = errors.New("insufficient data for regression")
	// ErrDegenerateInput is returned when every x value is identical
	ErrDegenerateInput = errors.New("degenerate input: independent variable has zero variance")
	// ErrNumericOverflow is returned when the values are too large for the sums to stay finite
	ErrNumericOverflow = errors.New("numeric overflow: values exceed the float64 range")
)

// Point is one (x, y) observation
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result holds a fitted simple linear regression y = Slope*x + Intercept
// together with its significance test.
type Result struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	DF        int     `json:"df"`
	TStat     float64 `json:"t_stat"`
	PValue    float64 `json:"p_value"`
	N         int     `json:"n"`
}

// Predict evaluates the fitted line at x
func (r Result) Predict(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// Significant reports whether the slope is significant at level alpha
func (r Result) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// MarshalJSON encodes a diverging t-statistic (exact fit) as null,
// since JSON has no representation for infinity.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	out := struct {
		plain
		TStat *float64 `json:"t_stat"`
	}{plain: plain(r)}
	if !math.IsInf(r.TStat, 0) {
		t := r.TStat
		out.TStat = &t
	}
	return json.Marshal(out)
}

// String returns a one-line summary of the fit
func (r Result) String() string {
	return fmt.Sprintf("Result{y = %.4f*x + %.4f, R²: %.4f, t: %.4f, p: %.4g, df: %d, n: %d}",
		r.Slope, r.Intercept, r.RSquared, r.TStat, r.PValue, r.DF, r.N)
}

// ExtractPoints pairs xKey and yKey of each record. A record contributes a
// point only when both fields parse to finite numbers; input order is kept.
func ExtractPoints(records []models.Record, xKey, yKey models.FieldKey) []Point {
	points := make([]Point, 0, len(records))
	for _, rec := range records {
		x, ok := rec.Float(xKey)
		if !ok {
			continue
		}
		y, ok := rec.Float(yKey)
		if !ok {
			continue
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points
}

// Fit computes the ordinary least squares line through points and the
// two-tailed p-value of its slope. Sums are taken around the means so
// large but distinct x values keep their spread.
//
// Returns ErrInsufficientData for fewer than MinPoints points,
// ErrDegenerateInput when the x values have zero variance and
// ErrNumericOverflow when an intermediate leaves the float64 range.
func Fit(points []Point) (Result, error) {
	n := len(points)
	if n < MinPoints {
		return Result{}, fmt.Errorf("%w: got %d points, need %d", ErrInsufficientData, n, MinPoints)
	}
	if constantX(points) {
		return Result{}, fmt.Errorf("%w: x=%g in all %d points", ErrDegenerateInput, points[0].X, n)
	}

	meanX, meanY := means(points)

	var sxx, sxy, ssTotal float64
	for _, p := range points {
		dx, dy := p.X-meanX, p.Y-meanY
		sxx += dx * dx
		sxy += dx * dy
		ssTotal += dy * dy
	}
	if !finite(sxx, sxy, ssTotal) {
		return Result{}, fmt.Errorf("%w: sums over %d points", ErrNumericOverflow, n)
	}
	if sxx == 0 {
		// distinct x values whose spread underflows
		return Result{}, fmt.Errorf("%w: sxx=0 over %d points", ErrDegenerateInput, n)
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanX

	var ssRes float64
	for _, p := range points {
		residual := (p.Y - meanY) - slope*(p.X-meanX)
		ssRes += residual * residual
	}

	rSquared := 0.0
	if ssTotal != 0 {
		rSquared = 1 - ssRes/ssTotal
	}

	df := n - 2
	mse := ssRes / float64(df)
	seSlope := math.Sqrt(mse / sxx)
	if !finite(slope, intercept, ssRes, rSquared, seSlope) {
		return Result{}, fmt.Errorf("%w: fit over %d points", ErrNumericOverflow, n)
	}

	var tStat float64
	switch {
	case seSlope > 0:
		tStat = slope / seSlope
	case slope == 0:
		// Flat exact fit: no evidence against the null
		tStat = 0
	default:
		// Exact non-flat fit, the t-statistic diverges
		tStat = math.Inf(sign(slope))
	}

	return Result{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared,
		DF:        df,
		TStat:     tStat,
		PValue:    TwoTailedPValue(tStat, df),
		N:         n,
	}, nil
}

func means(points []Point) (meanX, meanY float64) {
	fn := float64(len(points))
	for _, p := range points {
		meanX += p.X
		meanY += p.Y
	}
	meanX /= fn
	meanY /= fn
	if finite(meanX, meanY) {
		return meanX, meanY
	}

	// the plain sums overflowed, scale each term instead
	meanX, meanY = 0, 0
	for _, p := range points {
		meanX += p.X / fn
		meanY += p.Y / fn
	}
	return meanX, meanY
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func constantX(points []Point) bool {
	for _, p := range points[1:] {
		if p.X != points[0].X {
			return false
		}
	}
	return true
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
