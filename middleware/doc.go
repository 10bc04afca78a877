// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware, metrics and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). Every request gets an id, reused from X-Request-ID when the
client sends one, returned in the same header and available to handlers:

	id := middleware.RequestID(r.Context())

# Metrics

Prometheus collectors are registered once and served on /metrics:

	middleware.RegisterMetrics(mux)

WithLogging counts requests by route pattern and status. Handlers record
report timings, regression outcomes and submissions with ObserveReport,
RecordRegression and RecordSubmission.

# CORS Middleware

Enable cross-origin requests for the dashboard and the intake form:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, OPTIONS with headers
Content-Type, Authorization, X-Admin-Key, X-Request-ID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var rec models.Record
	if err := middleware.ParseJSONBody(r, &rec); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Submissions log only a salted hash of it (auth.HashIP).
*/
package middleware
