// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the survey results API.

# Handler Types

Each handler is a struct with source and config dependencies:

  - ResultsHandler: dashboard, item charts, completion, regression
  - ResponseHandler: response submission and admin export

Handlers are created via constructor functions that accept the response
store and Config:

	resultsHandler := handlers.NewResultsHandler(store, cfg)

# Results

Every results request fetches the complete current batch and recomputes
from it; nothing is cached or persisted.

	GET /results                → GetReport
	GET /results/items/{key}    → GetItem
	GET /results/completion     → GetCompletion
	GET /results/regression     → GetRegression

Test submissions (anonymous-id starting with "test" by default) are
dropped before aggregation. The optional own query parameter carries the
respondent's answers as JSON so their level can be highlighted.

A regression with fewer than three usable pairs, a constant independent
variable, or values too large for float64 sums is reported with status
insufficient_data, degenerate_input or numeric_overflow inside the full
report, and as 422 on the standalone regression endpoint.

Responses are encoded before the status line is written; a payload that
cannot be encoded becomes a 500 instead of an empty 200.

# Responses

	POST /responses → Submit (JSON or form body, returns response_id)
	GET /responses  → Export (requires X-Admin-Key, ?format=xlsx for a workbook)

File sources are read-only; submitting against one returns 403.
*/
package handlers
