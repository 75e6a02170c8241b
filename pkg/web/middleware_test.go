package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Recoverer(t *testing.T) {
	// given
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Recoverer(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()

	// when
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	// then
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
	assert.Contains(t, buf.String(), "Panic recovered")
}

func Test_StructuredLogger_LevelByStatus(t *testing.T) {
	testCases := []struct {
		status    int
		wantLevel string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusUnprocessableEntity, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}
	for _, tc := range testCases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			// given
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			r := chi.NewRouter()
			r.Use(middleware.RequestID)
			r.Use(StructuredLogger(logger))
			r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			})

			// when
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))

			// then
			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tc.wantLevel, entry["level"])
			assert.Equal(t, "/items/{id}", entry["route"])
			assert.Equal(t, float64(tc.status), entry["status"])
			assert.NotEmpty(t, entry["request_id"])
		})
	}
}

func Test_ParseIntID(t *testing.T) {
	testCases := []struct {
		value  string
		wantID int
		wantOK bool
	}{
		{"7", 7, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("id", tc.value)
			rr := httptest.NewRecorder()

			id, ok := ParseIntID(rr, req, slog.Default())

			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantID, id)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.JSONEq(t, `{"error":"Invalid ID: `+tc.value+`"}`, rr.Body.String())
			}
		})
	}
}

func Test_RequestIDInjector(t *testing.T) {
	testCases := []struct {
		name     string
		incoming string
	}{
		{name: "generated", incoming: ""},
		{name: "propagated", incoming: "req-42"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var seen string
			h := RequestIDInjector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = middleware.GetReqID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set(middleware.RequestIDHeader, tc.incoming)
			}
			rr := httptest.NewRecorder()

			// when
			h.ServeHTTP(rr, req)

			// then
			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rr.Header().Get(middleware.RequestIDHeader))
			if tc.incoming != "" {
				assert.Equal(t, tc.incoming, seen)
			}
		})
	}
}
