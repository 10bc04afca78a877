// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/lucile40lpy/waspp-cpes/aggregate"
	"github.com/lucile40lpy/waspp-cpes/cliparse"
	"github.com/lucile40lpy/waspp-cpes/middleware"
	"github.com/lucile40lpy/waspp-cpes/models"
	"github.com/lucile40lpy/waspp-cpes/report"
	"github.com/lucile40lpy/waspp-cpes/source"
)

type ResultsHandler struct {
	src     source.Source
	cfg     report.Config
	timeout time.Duration
}

func NewResultsHandler(src source.Source, cfg cliparse.Config) *ResultsHandler {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = cliparse.DefaultFetchTimeout
	}
	return &ResultsHandler{src: src, cfg: cfg.ReportConfig(), timeout: timeout}
}

// fetch loads the current batch, writing the error response itself on failure
func (h *ResultsHandler) fetch(w http.ResponseWriter, r *http.Request) ([]models.Record, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	records, err := h.src.Fetch(ctx)
	if err != nil {
		slog.Error("failed to fetch responses",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to fetch responses")
		return nil, false
	}

	return records, true
}

// parseOwn decodes the optional ?own= query parameter holding the
// respondent's own answers as a JSON object
func parseOwn(r *http.Request) (models.Record, bool) {
	raw := r.URL.Query().Get("own")
	if raw == "" {
		return nil, true
	}

	var own models.Record
	if err := json.Unmarshal([]byte(raw), &own); err != nil {
		return nil, false
	}
	return own, true
}

// GetReport handles GET /results
// Returns the full dashboard for the current batch
func (h *ResultsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	own, ok := parseOwn(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "own must be a JSON object")
		return
	}

	start := time.Now()
	records, ok := h.fetch(w, r)
	if !ok {
		return
	}

	rep, err := report.Assemble(r.Context(), records, h.cfg, own)
	if err != nil {
		slog.Error("failed to assemble report",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	middleware.ObserveReport(time.Since(start), len(records))
	for _, reg := range rep.Regressions {
		middleware.RecordRegression(reg.Status)
	}

	slog.Info("report assembled",
		"request_id", middleware.RequestID(r.Context()),
		"records", rep.Records,
		"filtered", rep.Filtered,
		"inputs_hash", rep.InputsHash,
	)

	middleware.JSONResponse(w, http.StatusOK, rep)
}

// GetItem handles GET /results/items/{key}
// Returns one item chart. Keys outside the questionnaire are accepted
// as long as some response carries them.
func (h *ResultsHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	key := models.FieldKey(r.PathValue("key"))
	if key == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "key is required")
		return
	}

	own, ok := parseOwn(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "own must be a JSON object")
		return
	}

	records, ok := h.fetch(w, r)
	if !ok {
		return
	}
	records = aggregate.FilterRecords(records, h.cfg.TestRowField, h.cfg.TestRowMarker)

	item, known := h.findItem(key)
	if !known && !anyCarries(records, key) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown item")
		return
	}

	chart, err := report.BuildItemChart(records, item, h.cfg.Levels, own)
	if err != nil {
		slog.Error("failed to build item chart", "key", key, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, chart)
}

// GetCompletion handles GET /results/completion
func (h *ResultsHandler) GetCompletion(w http.ResponseWriter, r *http.Request) {
	records, ok := h.fetch(w, r)
	if !ok {
		return
	}
	records = aggregate.FilterRecords(records, h.cfg.TestRowField, h.cfg.TestRowMarker)

	stats := aggregate.ComputeCompletionStats(records, h.cfg.IgnoredFields)

	middleware.JSONResponse(w, http.StatusOK, models.CompletionResponse{
		Total:    stats.Total,
		Complete: stats.Complete,
		Rate:     stats.Rate(),
		Text:     report.FormatCompletion(stats),
	})
}

// GetRegression handles GET /results/regression?x=&y=&alpha=
// x and y default to the configured pair.
// Returns 422 when the pair cannot be fitted.
func (h *ResultsHandler) GetRegression(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pair := report.Pair{X: models.FieldKey(q.Get("x")), Y: models.FieldKey(q.Get("y"))}
	if len(h.cfg.Pairs) > 0 {
		if pair.X == "" {
			pair.X = h.cfg.Pairs[0].X
		}
		if pair.Y == "" {
			pair.Y = h.cfg.Pairs[0].Y
		}
	}
	if pair.X == "" || pair.Y == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "x and y are required")
		return
	}

	alpha := h.cfg.Alpha
	if raw := q.Get("alpha"); raw != "" {
		a, err := strconv.ParseFloat(raw, 64)
		if err != nil || a <= 0 || a >= 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "alpha must be between 0 and 1")
			return
		}
		alpha = a
	}

	records, ok := h.fetch(w, r)
	if !ok {
		return
	}
	records = aggregate.FilterRecords(records, h.cfg.TestRowField, h.cfg.TestRowMarker)

	out := report.AnalyzePair(records, pair, alpha)
	middleware.RecordRegression(out.Status)

	if out.Status != report.StatusOK {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, out.Message)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, out)
}

func (h *ResultsHandler) findItem(key models.FieldKey) (models.Item, bool) {
	for _, item := range h.cfg.Items {
		if item.Key == key {
			return item, true
		}
	}
	// questionnaire items dropped from the config keep their title
	if item, ok := models.FindItem(key); ok {
		return item, false
	}
	return models.Item{Key: key, Title: string(key)}, false
}

func anyCarries(records []models.Record, key models.FieldKey) bool {
	for _, rec := range records {
		if _, ok := rec[string(key)]; ok {
			return true
		}
	}
	return false
}
