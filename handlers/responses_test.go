// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lucile40lpy/waspp-cpes/auth"
	"github.com/lucile40lpy/waspp-cpes/models"
	"github.com/lucile40lpy/waspp-cpes/source"
	"github.com/lucile40lpy/waspp-cpes/testutil"
)

func TestSubmit(t *testing.T) {
	cfg := testutil.GetTestConfig()

	multipartBody := func() (*bytes.Buffer, string) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.WriteField("workload", "3")
		mw.WriteField("grades", "12")
		mw.Close()
		return &buf, mw.FormDataContentType()
	}

	tests := []struct {
		name           string
		buildRequest   func() *http.Request
		expectedStatus int
		expectedStored int
	}{
		{
			name: "json body",
			buildRequest: func() *http.Request {
				return testutil.MakeRequest("POST", "/responses", map[string]any{"workload": "4", "grades": 14}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedStored: 1,
		},
		{
			name: "urlencoded form",
			buildRequest: func() *http.Request {
				return testutil.MakeFormRequest("POST", "/responses", url.Values{"workload": {"2"}, "grades": {"9"}})
			},
			expectedStatus: http.StatusCreated,
			expectedStored: 1,
		},
		{
			name: "multipart form",
			buildRequest: func() *http.Request {
				body, contentType := multipartBody()
				req := httptest.NewRequest("POST", "/responses", body)
				req.Header.Set("Content-Type", contentType)
				return req
			},
			expectedStatus: http.StatusCreated,
			expectedStored: 1,
		},
		{
			name: "invalid json",
			buildRequest: func() *http.Request {
				req := httptest.NewRequest("POST", "/responses", strings.NewReader("{oops"))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "json array rejected",
			buildRequest: func() *http.Request {
				req := httptest.NewRequest("POST", "/responses", strings.NewReader(`[1,2]`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "empty object",
			buildRequest: func() *http.Request {
				return testutil.MakeRequest("POST", "/responses", map[string]any{}, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := source.NewMemorySource(nil)
			handler := NewResponseHandler(store, cfg)

			w := httptest.NewRecorder()
			handler.Submit(w, tt.buildRequest())

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if store.Len() != tt.expectedStored {
				t.Errorf("Expected %d stored responses, got %d", tt.expectedStored, store.Len())
			}

			if tt.expectedStatus == http.StatusCreated {
				var resp models.SubmitResponseResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ResponseID == "" {
					t.Error("Expected response ID")
				}
			}
		})
	}
}

func TestSubmit_StoreErrors(t *testing.T) {
	cfg := testutil.GetTestConfig()

	t.Run("read-only source", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "responses.csv")
		if err := os.WriteFile(path, []byte("workload\n3\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		handler := NewResponseHandler(source.NewFileSource(path, ""), cfg)

		w := httptest.NewRecorder()
		handler.Submit(w, testutil.MakeRequest("POST", "/responses", map[string]any{"workload": "1"}, nil))

		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("store failure", func(t *testing.T) {
		store := source.NewMemorySource(nil)
		store.SetError(errors.New("sheet unavailable"))
		handler := NewResponseHandler(store, cfg)

		w := httptest.NewRecorder()
		handler.Submit(w, testutil.MakeRequest("POST", "/responses", map[string]any{"workload": "1"}, nil))

		testutil.AssertStatus(t, w, http.StatusBadGateway)
	})
}

func TestSubmit_SQLStore(t *testing.T) {
	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t, testutil.SampleRecords())
	handler := NewResponseHandler(store, cfg)

	w := httptest.NewRecorder()
	handler.Submit(w, testutil.MakeRequest("POST", "/responses", map[string]any{"anonymous-id": "r6", "workload": "2"}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	records, err := store.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}
	if len(records) != len(testutil.SampleRecords())+1 {
		t.Errorf("Expected %d records, got %d", len(testutil.SampleRecords())+1, len(records))
	}
}

func TestExport(t *testing.T) {
	cfg := testutil.GetTestConfig()
	validKey := auth.GenerateAdminKey(auth.ScopeExport, cfg.AdminKeySalt)

	tests := []struct {
		name           string
		path           string
		headers        map[string]string
		expectedStatus int
		expectedType   string
	}{
		{"json export", "/responses", map[string]string{"X-Admin-Key": validKey}, http.StatusOK, "application/json"},
		{"bearer key", "/responses", map[string]string{"Authorization": "Bearer " + validKey}, http.StatusOK, "application/json"},
		{"xlsx export", "/responses?format=xlsx", map[string]string{"X-Admin-Key": validKey}, http.StatusOK, xlsxContentType},
		{"missing key", "/responses", nil, http.StatusUnauthorized, "application/json"},
		{"wrong key", "/responses", map[string]string{"X-Admin-Key": "nope"}, http.StatusUnauthorized, "application/json"},
		{"bad format", "/responses?format=pdf", map[string]string{"X-Admin-Key": validKey}, http.StatusBadRequest, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewResponseHandler(source.NewMemorySource(testutil.SampleRecords()), cfg)

			w := httptest.NewRecorder()
			handler.Export(w, testutil.MakeRequest("GET", tt.path, nil, tt.headers))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if got := w.Header().Get("Content-Type"); got != tt.expectedType {
				t.Errorf("Expected Content-Type '%s', got '%s'", tt.expectedType, got)
			}

			if tt.name == "json export" {
				var resp models.ExportResponse
				testutil.AssertJSON(t, w, &resp)
				// Export is raw: test rows are included
				if resp.Count != len(testutil.SampleRecords()) {
					t.Errorf("Expected %d exported records, got %d", len(testutil.SampleRecords()), resp.Count)
				}
			}
		})
	}
}

func TestExport_WorkbookFailure(t *testing.T) {
	cfg := testutil.GetTestConfig()
	handler := NewResponseHandler(source.NewMemorySource(testutil.SampleRecords()), cfg)
	handler.writeWorkbook = func(w io.Writer, _ []models.Record) error {
		w.Write([]byte("PK partial"))
		return errors.New("disk full")
	}

	key := auth.GenerateAdminKey(auth.ScopeExport, cfg.AdminKeySalt)
	w := httptest.NewRecorder()
	handler.Export(w, testutil.MakeRequest("GET", "/responses?format=xlsx", nil, map[string]string{"X-Admin-Key": key}))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected JSON error, got Content-Type '%s'", got)
	}

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message == "" {
		t.Error("Expected error message")
	}
}
