// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "survey_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	reportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "survey_report_duration_seconds",
			Help:    "Time spent fetching and assembling one dashboard report.",
			Buckets: prometheus.DefBuckets,
		},
	)

	rowsFetched = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "survey_rows_fetched",
			Help: "Number of response rows in the most recently fetched batch.",
		},
	)

	regressionOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_regression_outcomes_total",
			Help: "Regression fits by outcome status.",
		},
		[]string{"status"},
	)

	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_submissions_total",
			Help: "Response submissions by outcome.",
		},
		[]string{"outcome"},
	)

	registered uint32
)

// RegisterMetrics registers and exposes Prometheus metrics on /metrics.
func RegisterMetrics(mux *http.ServeMux) {
	if atomic.CompareAndSwapUint32(&registered, 0, 1) {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			reportDuration,
			rowsFetched,
			regressionOutcomes,
			submissionsTotal,
		)
	}
	mux.Handle("GET /metrics", promhttp.Handler())
}

// ObserveRequest records one served request
func ObserveRequest(route, method string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveReport records the duration of one report and the batch size it used
func ObserveReport(d time.Duration, rows int) {
	reportDuration.Observe(d.Seconds())
	rowsFetched.Set(float64(rows))
}

// RecordRegression counts one regression outcome
func RecordRegression(status string) {
	regressionOutcomes.WithLabelValues(status).Inc()
}

// RecordSubmission counts one submission attempt ("accepted", "rejected", "failed")
func RecordSubmission(outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
}
