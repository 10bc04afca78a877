// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/lucile40lpy/waspp-cpes/cliparse"
	"github.com/lucile40lpy/waspp-cpes/handlers"
	"github.com/lucile40lpy/waspp-cpes/middleware"
	"github.com/lucile40lpy/waspp-cpes/source"
)

func NewRouter(store source.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	resultsHandler := handlers.NewResultsHandler(store, cfg)
	responseHandler := handlers.NewResponseHandler(store, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Dashboard (public, recomputed from the current batch)
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetReport))
	mux.HandleFunc("GET /results/items/{key}", middleware.WithLogging(resultsHandler.GetItem))
	mux.HandleFunc("GET /results/completion", middleware.WithLogging(resultsHandler.GetCompletion))
	mux.HandleFunc("GET /results/regression", middleware.WithLogging(resultsHandler.GetRegression))

	// Responses
	mux.HandleFunc("POST /responses", middleware.WithLogging(responseHandler.Submit))
	mux.HandleFunc("GET /responses", middleware.WithLogging(responseHandler.Export))

	// Metrics
	middleware.RegisterMetrics(mux)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("waspp-cpes API v1"))
	})

	return mux
}
