// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the survey results API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg)

# Endpoints

Health:

	GET /health

Results (public, recomputed from the full batch on every request):

	GET /results                - Full dashboard (?own=<json> highlights own answers)
	GET /results/items/{key}    - One item chart
	GET /results/completion     - Completion counts
	GET /results/regression     - Regression for ?x=&y= (422 when it cannot be fitted)

Responses:

	POST /responses - Submit a questionnaire (JSON or form)
	GET  /responses - Export raw responses (requires X-Admin-Key)

Metrics:

	GET /metrics - Prometheus exposition

# Handler Initialization

The router creates handler instances with dependency injection:

	resultsHandler := handlers.NewResultsHandler(store, cfg)
	responseHandler := handlers.NewResponseHandler(store, cfg)

Both handlers receive the response store and configuration.
*/
package router
