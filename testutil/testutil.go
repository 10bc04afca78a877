// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/lucile40lpy/waspp-cpes/cliparse"
	"github.com/lucile40lpy/waspp-cpes/models"
	"github.com/lucile40lpy/waspp-cpes/source"
)

// TestAdminSalt is the admin key salt used by GetTestConfig
const TestAdminSalt = "test-admin-salt"

// SampleRecords returns a small batch covering the common cases: complete
// rows, a blank answer, an off-scale value and one test submission.
// workload/grades fit grades = 0.6*workload + 2.2 over the kept rows.
func SampleRecords() []models.Record {
	return []models.Record{
		{"anonymous-id": "r1", "age": "20", "workload": "1", "grades": "2", "feedback": "4", "remarks-admin": ""},
		{"anonymous-id": "r2", "age": "21", "workload": "2", "grades": "4", "feedback": "5", "remarks-admin": ""},
		{"anonymous-id": "r3", "age": "19", "workload": "3", "grades": "5", "feedback": "4", "remarks-admin": "seen"},
		{"anonymous-id": "r4", "age": "", "workload": "4", "grades": "4", "feedback": "7", "remarks-admin": ""},
		{"anonymous-id": "r5", "age": "22", "workload": 5.0, "grades": 5.0, "feedback": "3", "remarks-admin": ""},
		{"anonymous-id": "test-admin", "age": "99", "workload": "5", "grades": "0", "feedback": "1"},
	}
}

// SetupTestStore creates a fresh SQLite-backed store seeded with records.
// The database lives in the test's temp dir and is closed on cleanup.
func SetupTestStore(t *testing.T, records []models.Record) source.Store {
	t.Helper()

	ctx := context.Background()
	store, err := source.Open(ctx, source.Config{
		Type: source.TypeSQLite,
		URL:  filepath.Join(t.TempDir(), "responses.db"),
	})
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		if c, ok := store.(io.Closer); ok {
			c.Close()
		}
	})

	for _, rec := range records {
		if _, err := store.Submit(ctx, rec); err != nil {
			t.Fatalf("Failed to seed test store: %v", err)
		}
	}

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		SourceType:    source.TypeMemory,
		AdminKeySalt:  TestAdminSalt,
		RegressionX:   string(models.FieldWorkload),
		RegressionY:   string(models.FieldGrades),
		IgnoredFields: []string{"remarks-admin", "study-tips"},
		TestRowField:  string(models.FieldAnonymousID),
		TestRowMarker: "test",
		FetchTimeout:  5 * time.Second,
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeFormRequest creates a urlencoded form test request
func MakeFormRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
