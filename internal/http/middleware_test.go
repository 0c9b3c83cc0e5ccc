package httpx

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = RequestIDFromContext(r.Context())
	}))

	t.Run("propagates caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("mints id when absent or oversized", func(t *testing.T) {
		for _, incoming := range []string{"", strings.Repeat("x", maxRequestIDLen+1)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if incoming != "" {
				req.Header.Set(RequestIDHeader, incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Len(t, seen, 36)
			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
		}
	})
}

func TestRecoverAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("kaboom") })
	h := Chain(panicky, Recover(logger), RequestID(), Logging(logger))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.Contains(t, buf.String(), `"msg":"panic"`)
	assert.Contains(t, buf.String(), "kaboom")
}

func TestLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), RequestID(), Logging(logger))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))

	out := buf.String()
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/x"`)
	assert.Contains(t, out, `"request_id"`)
}
