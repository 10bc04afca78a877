// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lucile40lpy/waspp-cpes/aggregate"
	"github.com/lucile40lpy/waspp-cpes/models"
	"github.com/lucile40lpy/waspp-cpes/stats"
)

// DefaultAlpha is the significance level used when Config.Alpha is unset
const DefaultAlpha = 0.05

// Regression outcome constants
const (
	StatusOK               = "ok"
	StatusInsufficientData = "insufficient_data"
	StatusDegenerateInput  = "degenerate_input"
	StatusNumericOverflow  = "numeric_overflow"
)

// Pair names the independent (X) and dependent (Y) field of a regression
type Pair struct {
	X models.FieldKey `json:"x"`
	Y models.FieldKey `json:"y"`
}

// Config selects what the dashboard aggregates
type Config struct {
	Items         []models.Item
	Levels        aggregate.Levels
	IgnoredFields []models.FieldKey
	Pairs         []Pair
	TestRowField  models.FieldKey
	TestRowMarker string
	Alpha         float64
}

// DefaultConfig aggregates the questionnaire's Likert block and regresses
// grades on workload.
func DefaultConfig() Config {
	return Config{
		Items:         models.LikertItems,
		Levels:        aggregate.DefaultLevels,
		IgnoredFields: []models.FieldKey{models.FieldRemarksAdmin, models.FieldStudyTips},
		Pairs:         []Pair{{X: models.FieldWorkload, Y: models.FieldGrades}},
		TestRowField:  models.FieldAnonymousID,
		TestRowMarker: "test",
		Alpha:         DefaultAlpha,
	}
}

// Bar is one level of an item chart
type Bar struct {
	Level string `json:"level"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Own   bool   `json:"own,omitempty"`
}

// ItemChart is the bar chart payload of one Likert item
type ItemChart struct {
	Key      models.FieldKey   `json:"key"`
	Title    string            `json:"title"`
	Bars     []Bar             `json:"bars"`
	Total    int               `json:"total"`
	Counted  int               `json:"counted"`
	Max      int               `json:"max"`
	Summary  aggregate.Summary `json:"summary"`
	OwnLevel string            `json:"own_level,omitempty"`
}

// Line is the fitted regression line across the observed x range
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// RegressionReport is the outcome of one regression pair. Result and
// Line are set only when Status is StatusOK; Line is also omitted when
// its endpoints leave the float64 range.
type RegressionReport struct {
	Pair
	Status      string        `json:"status"`
	Message     string        `json:"message,omitempty"`
	Points      []stats.Point `json:"points"`
	Result      *stats.Result `json:"result,omitempty"`
	Line        *Line         `json:"line,omitempty"`
	Significant bool          `json:"significant"`
	PValueText  string        `json:"p_value_text,omitempty"`
}

// Report is the full dashboard payload for one batch
type Report struct {
	GeneratedAt    time.Time                 `json:"generated_at"`
	InputsHash     string                    `json:"inputs_hash"`
	Records        int                       `json:"records"`
	Filtered       int                       `json:"filtered"`
	Completion     aggregate.CompletionStats `json:"completion"`
	CompletionText string                    `json:"completion_text"`
	Items          []ItemChart               `json:"items"`
	Reliability    aggregate.Reliability     `json:"reliability"`
	Regressions    []RegressionReport        `json:"regressions"`
}

// Assemble computes the dashboard for a complete batch of records.
//
// Test rows are dropped first. own is the respondent's own answers and
// may be nil; when set, the matching bar of every item is flagged.
// Insufficient or degenerate regressions are reported through
// RegressionReport.Status, never as an error.
func Assemble(ctx context.Context, records []models.Record, cfg Config, own models.Record) (*Report, error) {
	cfg = withDefaults(cfg)

	kept := aggregate.FilterRecords(records, cfg.TestRowField, cfg.TestRowMarker)
	completion := aggregate.ComputeCompletionStats(kept, cfg.IgnoredFields)

	rep := &Report{
		GeneratedAt:    time.Now().UTC(),
		InputsHash:     InputsHash(kept),
		Records:        len(kept),
		Filtered:       len(records) - len(kept),
		Completion:     completion,
		CompletionText: FormatCompletion(completion),
		Items:          make([]ItemChart, 0, len(cfg.Items)),
		Regressions:    make([]RegressionReport, len(cfg.Pairs)),
	}

	keys := make([]models.FieldKey, 0, len(cfg.Items))
	for _, item := range cfg.Items {
		chart, err := BuildItemChart(kept, item, cfg.Levels, own)
		if err != nil {
			return nil, err
		}
		rep.Items = append(rep.Items, chart)
		keys = append(keys, item.Key)
	}
	rep.Reliability = aggregate.CronbachAlpha(kept, keys)

	g, gctx := errgroup.WithContext(ctx)
	for i, pair := range cfg.Pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep.Regressions[i] = AnalyzePair(kept, pair, cfg.Alpha)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble regressions: %w", err)
	}

	return rep, nil
}

// BuildItemChart counts one item and attaches its summary and the
// respondent's own level when own answers it on the scale.
func BuildItemChart(records []models.Record, item models.Item, levels aggregate.Levels, own models.Record) (ItemChart, error) {
	if len(levels) == 0 {
		levels = aggregate.DefaultLevels
	}

	table := aggregate.ComputeFrequencyTable(records, item.Key, levels)
	summary, err := aggregate.Summarize(records, item.Key)
	if err != nil {
		return ItemChart{}, err
	}

	chart := ItemChart{
		Key:     item.Key,
		Title:   item.Title,
		Bars:    make([]Bar, len(table.Counts)),
		Total:   table.Total,
		Counted: table.Counted,
		Max:     table.Max(),
		Summary: summary,
	}

	if own != nil {
		if label, ok := own.Label(item.Key); ok && levels.Index(label) >= 0 {
			chart.OwnLevel = label
		}
	}

	for i, c := range table.Counts {
		label := models.LevelLabels[c.Level]
		if label == "" {
			label = c.Level
		}
		chart.Bars[i] = Bar{
			Level: c.Level,
			Label: label,
			Count: c.Count,
			Own:   chart.OwnLevel != "" && c.Level == chart.OwnLevel,
		}
	}

	return chart, nil
}

// AnalyzePair extracts the points of pair and fits them
func AnalyzePair(records []models.Record, pair Pair, alpha float64) RegressionReport {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}

	points := stats.ExtractPoints(records, pair.X, pair.Y)
	out := RegressionReport{Pair: pair, Points: points}

	res, err := stats.Fit(points)
	switch {
	case errors.Is(err, stats.ErrInsufficientData):
		out.Status = StatusInsufficientData
		out.Message = fmt.Sprintf("not enough data: %d valid pairs, need %d", len(points), stats.MinPoints)
		return out
	case errors.Is(err, stats.ErrDegenerateInput):
		out.Status = StatusDegenerateInput
		out.Message = fmt.Sprintf("%s has the same value in every response, significance is undefined", pair.X)
		return out
	case errors.Is(err, stats.ErrNumericOverflow):
		out.Status = StatusNumericOverflow
		out.Message = fmt.Sprintf("%s or %s holds values too large to fit", pair.X, pair.Y)
		return out
	case err != nil:
		out.Status = StatusDegenerateInput
		out.Message = err.Error()
		return out
	}

	minX, maxX := points[0].X, points[0].X
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
	}

	out.Status = StatusOK
	out.Result = &res
	if y1, y2 := res.Predict(minX), res.Predict(maxX); isFinite(y1) && isFinite(y2) {
		out.Line = &Line{X1: minX, Y1: y1, X2: maxX, Y2: y2}
	}
	out.Significant = res.Significant(alpha)
	out.PValueText = FormatPValue(res.PValue)

	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func withDefaults(cfg Config) Config {
	if cfg.Items == nil {
		cfg.Items = models.LikertItems
	}
	if len(cfg.Levels) == 0 {
		cfg.Levels = aggregate.DefaultLevels
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = DefaultAlpha
	}
	return cfg
}
