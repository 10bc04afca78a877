// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lucile40lpy/waspp-cpes/auth"
	"github.com/lucile40lpy/waspp-cpes/models"
	"github.com/lucile40lpy/waspp-cpes/source"
	"github.com/lucile40lpy/waspp-cpes/testutil"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	return NewRouter(source.NewMemorySource(testutil.SampleRecords()), testutil.GetTestConfig())
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "waspp-cpes API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t)
	adminKey := auth.GenerateAdminKey(auth.ScopeExport, testutil.TestAdminSalt)

	routes := []struct {
		method         string
		path           string
		body           interface{}
		headers        map[string]string
		expectedStatus int
	}{
		{"GET", "/results", nil, nil, http.StatusOK},
		{"GET", "/results/items/workload", nil, nil, http.StatusOK},
		{"GET", "/results/items/unknown", nil, nil, http.StatusNotFound},
		{"GET", "/results/completion", nil, nil, http.StatusOK},
		{"GET", "/results/regression?x=workload&y=grades", nil, nil, http.StatusOK},
		{"POST", "/responses", map[string]string{"workload": "3"}, nil, http.StatusCreated},
		{"GET", "/responses", nil, map[string]string{"X-Admin-Key": adminKey}, http.StatusOK},
		{"GET", "/responses", nil, nil, http.StatusUnauthorized},
		{"GET", "/metrics", nil, nil, http.StatusOK},
		{"GET", "/nowhere", nil, nil, http.StatusNotFound},
		{"DELETE", "/responses", nil, nil, http.StatusMethodNotAllowed},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			req := testutil.MakeRequest(rt.method, rt.path, rt.body, rt.headers)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			testutil.AssertStatus(t, w, rt.expectedStatus)
		})
	}
}

func TestSubmitThenReport(t *testing.T) {
	mux := NewRouter(source.NewMemorySource(nil), testutil.GetTestConfig())

	for _, rec := range testutil.SampleRecords() {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("POST", "/responses", rec, nil))
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/results/completion", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CompletionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Total != 5 || resp.Complete != 4 {
		t.Errorf("Expected 4 of 5 complete, got %d of %d", resp.Complete, resp.Total)
	}
}

func TestRequestIDHeader(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/results/completion", nil))

	if id := w.Header().Get("X-Request-ID"); strings.TrimSpace(id) == "" {
		t.Error("Expected X-Request-ID on logged routes")
	}
}
