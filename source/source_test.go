// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucile40lpy/waspp-cpes/models"
)

func TestParseRows(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"top-level array", `[{"a":"1"},{"a":2}]`, 2, false},
		{"data wrapper", `{"data":[{"a":"1"}]}`, 1, false},
		{"rows wrapper", `{"meta":{},"rows":[{"a":"1"},{"a":"2"},{"a":"3"}]}`, 3, false},
		{"records wrapper", `{"records":[]}`, 0, false},
		{"non-objects skipped", `[{"a":"1"}, 3, "x", null]`, 1, false},
		{"no array", `{"data":{"a":"1"}}`, 0, true},
		{"invalid json", `[{"a":`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseRows([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedRows)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}

func TestParseRows_KeepsJSONTypes(t *testing.T) {
	records, err := ParseRows([]byte(`[{"workload":"4","grades":15.5,"ok":true,"remarks-admin":null}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "4", rec["workload"])
	assert.Equal(t, 15.5, rec["grades"])
	assert.Equal(t, true, rec["ok"])
	assert.Contains(t, rec, "remarks-admin")
	assert.Nil(t, rec["remarks-admin"])
}

func TestSheetSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"workload":"3","grades":"12"},{"workload":5,"grades":"14"}]`)
	}))
	defer server.Close()

	records, err := NewSheetSource(server.URL, DefaultTimeout).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 5.0, records[1]["workload"])
}

func TestSheetSource_FetchStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewSheetSource(server.URL, DefaultTimeout).Fetch(context.Background())
	assert.ErrorContains(t, err, "429")
}

func TestSheetSource_Submit(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart form: %v", err)
		}
		got = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			got[k] = v[0]
		}
		io.WriteString(w, `{"result":"success","row":42}`)
	}))
	defer server.Close()

	id, err := NewSheetSource(server.URL, DefaultTimeout).Submit(context.Background(), models.Record{
		"workload": 4.0,
		"grades":   "13",
		"remarks":  nil,
	})
	require.NoError(t, err)

	assert.Equal(t, "42", id)
	assert.Equal(t, map[string]string{"workload": "4", "grades": "13", "remarks": ""}, got)
}

func TestSheetSource_SubmitFallbackID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	id, err := NewSheetSource(server.URL, DefaultTimeout).Submit(context.Background(), models.Record{"a": "1"})
	require.NoError(t, err)
	assert.Len(t, id, 36)
}

func TestRowsToRecords(t *testing.T) {
	rows := [][]string{
		{" workload ", "grades", "", "remarks"},
		{"3", "12", "ignored", "fine"},
		{"4"},
		{"", "  ", "x", ""},
	}

	records := RowsToRecords(rows)
	require.Len(t, records, 2)

	assert.Equal(t, models.Record{"workload": "3", "grades": "12", "remarks": "fine"}, records[0])
	assert.Equal(t, models.Record{"workload": "4", "grades": "", "remarks": ""}, records[1])

	assert.Nil(t, RowsToRecords(nil))
	assert.Empty(t, RowsToRecords([][]string{{"a", "b"}}))
}

func TestFileSource_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.csv")

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.WriteAll([][]string{
		{"anonymous-id", "workload", "grades"},
		{"a1", "2", "11"},
		{"a2", "4", "15"},
	}))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	src := NewFileSource(path, "")
	records, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "15", records[1]["grades"])

	_, err = src.Submit(context.Background(), models.Record{})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestFileSource_XLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.xlsx")
	in := []models.Record{
		{"anonymous-id": "a1", "workload": "2", "grades": 11.0, "extra": "x"},
		{"anonymous-id": "a2", "workload": "4", "grades": "15"},
	}

	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWorkbook(file, in))
	require.NoError(t, file.Close())

	records, err := NewFileSource(path, TypeXLSX).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "11", records[0]["grades"])
	assert.Equal(t, "x", records[0]["extra"])
	assert.Equal(t, "", records[1]["extra"])
	assert.Equal(t, "4", records[1]["workload"])
}

func TestColumns(t *testing.T) {
	cols := Columns([]models.Record{
		{"zeta": "1", "workload": "2", "age": "20"},
		{"alpha": "1", "anonymous-id": "a"},
	})

	assert.Equal(t, []string{"anonymous-id", "age", "workload", "alpha", "zeta"}, cols)
}

func TestSQLSource(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, Config{Type: TypeSQLite, URL: filepath.Join(t.TempDir(), "responses.db")})
	require.NoError(t, err)
	defer store.(io.Closer).Close()

	records, err := store.Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	ids := map[string]bool{}
	for _, rec := range []models.Record{
		{"workload": "3", "grades": 12.0},
		{"workload": "5", "grades": "14", "remarks-admin": nil},
	} {
		id, err := store.Submit(ctx, rec)
		require.NoError(t, err)
		ids[id] = true
	}
	assert.Len(t, ids, 2)

	records, err = store.Fetch(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Record{
		{"workload": "3", "grades": 12.0},
		{"workload": "5", "grades": "14", "remarks-admin": nil},
	}, records)
}

func TestMemorySource(t *testing.T) {
	ctx := context.Background()
	seed := []models.Record{{"a": "1"}}
	src := NewMemorySource(seed)

	seed[0]["a"] = "changed"
	records, err := src.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", records[0]["a"])

	records[0]["a"] = "mutated"
	again, _ := src.Fetch(ctx)
	assert.Equal(t, "1", again[0]["a"])

	_, err = src.Submit(ctx, models.Record{"a": "2"})
	require.NoError(t, err)
	assert.Equal(t, 2, src.Len())

	boom := errors.New("boom")
	src.SetError(boom)
	_, err = src.Fetch(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"memory needs no url", Config{Type: TypeMemory}, nil},
		{"sheet", Config{Type: TypeSheet, URL: "http://example.invalid"}, nil},
		{"csv", Config{Type: TypeCSV, URL: "x.csv"}, nil},
		{"missing url", Config{Type: TypeSheet}, ErrMissingURL},
		{"unknown", Config{Type: "ftp", URL: "x"}, ErrUnknownSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, store)
		})
	}
}
