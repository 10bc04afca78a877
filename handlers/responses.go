// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/lucile40lpy/waspp-cpes/auth"
	"github.com/lucile40lpy/waspp-cpes/cliparse"
	"github.com/lucile40lpy/waspp-cpes/middleware"
	"github.com/lucile40lpy/waspp-cpes/models"
	"github.com/lucile40lpy/waspp-cpes/source"
)

// maxSubmitBytes caps a submitted response body
const maxSubmitBytes = 1 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ResponseHandler struct {
	store   source.Store
	cfg     cliparse.Config
	timeout time.Duration

	writeWorkbook func(io.Writer, []models.Record) error
}

func NewResponseHandler(store source.Store, cfg cliparse.Config) *ResponseHandler {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = cliparse.DefaultFetchTimeout
	}
	return &ResponseHandler{store: store, cfg: cfg, timeout: timeout, writeWorkbook: source.WriteWorkbook}
}

// Submit handles POST /responses
// Accepts the questionnaire as a JSON object or as a form (urlencoded or
// multipart) and forwards it to the configured store.
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBytes)

	rec, err := parseSubmission(r)
	if err != nil {
		middleware.RecordSubmission("rejected")
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(rec) == 0 {
		middleware.RecordSubmission("rejected")
		middleware.ErrorResponse(w, http.StatusBadRequest, "response has no fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := h.store.Submit(ctx, rec)
	if errors.Is(err, source.ErrReadOnly) {
		middleware.RecordSubmission("rejected")
		middleware.ErrorResponse(w, http.StatusForbidden, "Responses source is read-only")
		return
	}
	if err != nil {
		middleware.RecordSubmission("failed")
		slog.Error("failed to submit response",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to store response")
		return
	}

	middleware.RecordSubmission("accepted")
	slog.Info("response submitted",
		"request_id", middleware.RequestID(r.Context()),
		"response_id", id,
		"fields", len(rec),
		"client", auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponseResponse{
		ResponseID: id,
		Message:    "Response recorded",
	})
}

// Export handles GET /responses
// Requires the export admin key. Returns every stored response,
// test rows included, as JSON or with ?format=xlsx as a workbook.
func (h *ResponseHandler) Export(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateAdminKey(auth.ScopeExport, auth.KeyFromRequest(r), h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "xlsx" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "format must be json or xlsx")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	records, err := h.store.Fetch(ctx)
	if err != nil {
		slog.Error("failed to fetch responses for export", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to fetch responses")
		return
	}
	if records == nil {
		records = []models.Record{}
	}

	if format == "xlsx" {
		var buf bytes.Buffer
		if err := h.writeWorkbook(&buf, records); err != nil {
			slog.Error("failed to write workbook",
				"request_id", middleware.RequestID(r.Context()),
				"error", err,
			)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build workbook")
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="responses.xlsx"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		if _, err := w.Write(buf.Bytes()); err != nil {
			slog.Error("failed to send workbook", "error", err)
		}
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ExportResponse{
		Count:   len(records),
		Records: records,
	})
}

// parseSubmission decodes the request body into a record
func parseSubmission(r *http.Request) (models.Record, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if mediaType == "multipart/form-data" {
			if err := r.ParseMultipartForm(maxSubmitBytes); err != nil {
				return nil, errors.New("invalid form body")
			}
		} else if err := r.ParseForm(); err != nil {
			return nil, errors.New("invalid form body")
		}

		rec := make(models.Record, len(r.PostForm))
		for k, v := range r.PostForm {
			if len(v) > 0 {
				rec[k] = v[0]
			}
		}
		return rec, nil
	default:
		var rec models.Record
		if err := middleware.ParseJSONBody(r, &rec); err != nil {
			return nil, errors.New("body must be a JSON object")
		}
		return rec, nil
	}
}
