// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/lucile40lpy/waspp-cpes/auth"
	"github.com/lucile40lpy/waspp-cpes/models"
	"github.com/lucile40lpy/waspp-cpes/report"
	"github.com/lucile40lpy/waspp-cpes/source"
	"github.com/lucile40lpy/waspp-cpes/testutil"
)

// TestFullSurveyWorkflow tests the complete end-to-end workflow:
// 1. Respondents submit the questionnaire
// 2. The dashboard reflects every real submission
// 3. The regression endpoint fits the configured pair
// 4. The admin exports the raw responses as JSON and xlsx
func TestFullSurveyWorkflow(t *testing.T) {
	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t, nil)
	responseHandler := NewResponseHandler(store, cfg)
	resultsHandler := NewResultsHandler(store, cfg)

	// Step 1: submit every sample response, test row included
	for i, rec := range testutil.SampleRecords() {
		w := httptest.NewRecorder()
		responseHandler.Submit(w, testutil.MakeRequest("POST", "/responses", rec, nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 1 - Submit response %d failed: %d - %s", i, w.Code, w.Body.String())
		}
	}
	t.Logf("Step 1 - %d responses submitted", len(testutil.SampleRecords()))

	// Step 2: dashboard
	w := httptest.NewRecorder()
	resultsHandler.GetReport(w, testutil.MakeRequest("GET", "/results", nil, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 2 - Get report failed: %d - %s", w.Code, w.Body.String())
	}

	var rep report.Report
	testutil.AssertJSON(t, w, &rep)
	if rep.Records != 5 || rep.Filtered != 1 {
		t.Errorf("Step 2 - Expected 5 records and 1 filtered, got %d and %d", rep.Records, rep.Filtered)
	}
	if rep.CompletionText != "4 of 5 complete (80.0%)" {
		t.Errorf("Step 2 - Unexpected completion text '%s'", rep.CompletionText)
	}
	if rep.InputsHash == "" {
		t.Error("Step 2 - Expected inputs hash")
	}

	// Step 3: regression
	w = httptest.NewRecorder()
	resultsHandler.GetRegression(w, testutil.MakeRequest("GET", "/results/regression", nil, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Get regression failed: %d - %s", w.Code, w.Body.String())
	}

	var reg report.RegressionReport
	testutil.AssertJSON(t, w, &reg)
	if reg.Result == nil || math.Abs(reg.Result.Slope-0.6) > 1e-9 || math.Abs(reg.Result.Intercept-2.2) > 1e-9 {
		t.Errorf("Step 3 - Expected grades = 0.6*workload + 2.2, got %+v", reg.Result)
	}
	t.Logf("Step 3 - p = %s", reg.PValueText)

	// Step 4: export
	adminKey := auth.GenerateAdminKey(auth.ScopeExport, cfg.AdminKeySalt)

	w = httptest.NewRecorder()
	responseHandler.Export(w, testutil.MakeRequest("GET", "/responses", nil, map[string]string{"X-Admin-Key": adminKey}))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - JSON export failed: %d - %s", w.Code, w.Body.String())
	}

	var export models.ExportResponse
	testutil.AssertJSON(t, w, &export)
	if export.Count != len(testutil.SampleRecords()) {
		t.Errorf("Step 4 - Expected %d exported responses, got %d", len(testutil.SampleRecords()), export.Count)
	}

	w = httptest.NewRecorder()
	responseHandler.Export(w, testutil.MakeRequest("GET", "/responses?format=xlsx", nil, map[string]string{"X-Admin-Key": adminKey}))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - xlsx export failed: %d", w.Code)
	}

	path := filepath.Join(t.TempDir(), "responses.xlsx")
	if err := os.WriteFile(path, w.Body.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	records, err := source.NewFileSource(path, "").Fetch(t.Context())
	if err != nil {
		t.Fatalf("Step 4 - Failed to read exported workbook: %v", err)
	}
	if len(records) != len(testutil.SampleRecords()) {
		t.Errorf("Step 4 - Expected %d rows in workbook, got %d", len(testutil.SampleRecords()), len(records))
	}
}

// TestWorkbookSourceIsReadOnly serves the dashboard from an exported
// workbook and rejects new submissions
func TestWorkbookSourceIsReadOnly(t *testing.T) {
	cfg := testutil.GetTestConfig()

	path := filepath.Join(t.TempDir(), "responses.xlsx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := source.WriteWorkbook(f, testutil.SampleRecords()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	src := source.NewFileSource(path, "")

	w := httptest.NewRecorder()
	NewResultsHandler(src, cfg).GetCompletion(w, testutil.MakeRequest("GET", "/results/completion", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var completion models.CompletionResponse
	testutil.AssertJSON(t, w, &completion)
	if completion.Total != 5 {
		t.Errorf("Expected 5 responses from workbook, got %d", completion.Total)
	}

	w = httptest.NewRecorder()
	NewResponseHandler(src, cfg).Submit(w, testutil.MakeRequest("POST", "/responses", map[string]any{"workload": "3"}, nil))
	testutil.AssertStatus(t, w, http.StatusForbidden)
}
