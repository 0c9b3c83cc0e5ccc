package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchme/emotion-hume/internal/domain/model"
	apperrors "github.com/watchme/emotion-hume/internal/errors"
)

type fakeAnalysis struct {
	ready    bool
	submitFn func(ctx context.Context, req model.AsyncProcessRequest) error
	lookupFn func(ctx context.Context, key model.FeatureKey) (*model.SpotFeature, error)
	submits  []model.AsyncProcessRequest
}

func (f *fakeAnalysis) Ready() bool { return f.ready }

func (f *fakeAnalysis) Submit(ctx context.Context, req model.AsyncProcessRequest) error {
	f.submits = append(f.submits, req)
	if f.submitFn != nil {
		return f.submitFn(ctx, req)
	}
	return nil
}

func (f *fakeAnalysis) Lookup(ctx context.Context, key model.FeatureKey) (*model.SpotFeature, error) {
	if f.lookupFn != nil {
		return f.lookupFn(ctx, key)
	}
	return nil, apperrors.NotFound("not found")
}

func serve(t *testing.T, svc AnalysisService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(RouterServices{Analysis: svc, Deps: Dependencies{DatabaseConnected: true}})
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAsyncProcess_Accepted(t *testing.T) {
	svc := &fakeAnalysis{ready: true}
	rec := serve(t, svc, http.MethodPost, "/async-process",
		`{"file_path":"files/d/a.wav","device_id":" d-1 ","recorded_at":"2025-07-01T09:30:00Z"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "accepted", body["status"])
	assert.Equal(t, "Emotion analysis started in background", body["message"])
	assert.Equal(t, "d-1", body["device_id"])
	assert.Equal(t, "2025-07-01T09:30:00Z", body["recorded_at"])
	require.Len(t, svc.submits, 1)
	assert.Equal(t, "files/d/a.wav", svc.submits[0].FilePath)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestAsyncProcess_Errors(t *testing.T) {
	tests := []struct {
		name    string
		svc     *fakeAnalysis
		body    string
		status  int
		errCode string
		field   string
		submits int
	}{
		{
			name:    "invalid json",
			svc:     &fakeAnalysis{ready: true},
			body:    `{"file_path":`,
			status:  http.StatusBadRequest,
			errCode: "invalid_json",
		},
		{
			name:    "blank field",
			svc:     &fakeAnalysis{ready: true},
			body:    `{"file_path":"f","device_id":"d","recorded_at":"  "}`,
			status:  http.StatusBadRequest,
			errCode: "validation_error",
			field:   "recorded_at",
		},
		{
			name:    "provider not loaded",
			svc:     &fakeAnalysis{ready: false},
			body:    `{"file_path":"f","device_id":"d","recorded_at":"t"}`,
			status:  http.StatusServiceUnavailable,
			errCode: "service_unavailable",
		},
		{
			name: "submit error",
			svc: &fakeAnalysis{ready: true, submitFn: func(context.Context, model.AsyncProcessRequest) error {
				return errors.New("boom")
			}},
			body:    `{"file_path":"f","device_id":"d","recorded_at":"t"}`,
			status:  http.StatusInternalServerError,
			errCode: "internal_error",
			submits: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.svc, http.MethodPost, "/async-process", tt.body)
			require.Equal(t, tt.status, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.errCode, body["error"])
			if tt.field != "" {
				assert.Equal(t, tt.field, body["field"])
			}
			assert.Len(t, tt.svc.submits, tt.submits)
		})
	}
}

func TestGetFeature(t *testing.T) {
	status := model.StatusCompleted
	svc := &fakeAnalysis{lookupFn: func(_ context.Context, key model.FeatureKey) (*model.SpotFeature, error) {
		if key.DeviceID != "d-1" {
			return nil, apperrors.NotFoundf("no result for %s", key.DeviceID)
		}
		return &model.SpotFeature{
			DeviceID:   key.DeviceID,
			RecordedAt: key.RecordedAt,
			Result:     json.RawMessage(`{"provider":"hume","version":"3.0.0","total_segments":2}`),
			Status:     &status,
		}, nil
	}}

	t.Run("found", func(t *testing.T) {
		rec := serve(t, svc, http.MethodGet, "/features/d-1/2025-07-01T09:30:00Z", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "completed", body["emotion_status"])
		assert.Equal(t, "2025-07-01T09:30:00Z", body["recorded_at"])
		result, ok := body["emotion_features_result_hume"].(map[string]any)
		require.True(t, ok)
		assert.InDelta(t, 2, result["total_segments"], 1e-9)
	})

	t.Run("missing", func(t *testing.T) {
		rec := serve(t, svc, http.MethodGet, "/features/other/t", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decodeBody(t, rec)["error"])
	})

	t.Run("store unavailable", func(t *testing.T) {
		down := &fakeAnalysis{lookupFn: func(context.Context, model.FeatureKey) (*model.SpotFeature, error) {
			return nil, apperrors.Unavailable("feature store is not configured")
		}}
		rec := serve(t, down, http.MethodGet, "/features/d/t", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		rec := serve(t, &fakeAnalysis{ready: true}, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, ServiceName, body["service"])
		assert.Equal(t, "3.0.0", body["version"])
		assert.Equal(t, true, body["provider_loaded"])
		assert.Equal(t, true, body["supabase_connected"])
		assert.Equal(t, false, body["aws_connected"])
	})

	t.Run("degraded", func(t *testing.T) {
		rec := serve(t, &fakeAnalysis{}, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, false, body["provider_loaded"])
	})
}

func TestRoot(t *testing.T) {
	rec := serve(t, &fakeAnalysis{}, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, ServiceName, body["service"])
	endpoints, ok := body["endpoints"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/async-process", endpoints["async_process"])

	rec = serve(t, &fakeAnalysis{}, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
