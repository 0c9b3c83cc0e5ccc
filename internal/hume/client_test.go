package hume

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchme/emotion-hume/internal/domain/model"
	"github.com/watchme/emotion-hume/internal/testutil"
)

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

func (r *sleepRecorder) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

func newTestClient(t *testing.T, srv *httptest.Server, mutate func(*Config)) (*Client, *sleepRecorder) {
	t.Helper()
	cfg := Config{
		BaseURL:         srv.URL,
		APIKey:          "test-key",
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 5,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := NewClient(cfg)
	require.NoError(t, err)
	rec := &sleepRecorder{}
	c.sleep = rec.sleep
	return c, rec
}

func writeStatus(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"job_id":"job-1","state":{"status":"`+status+`"}}`)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{APIKey: "  "})
	require.ErrorIs(t, err, ErrAPIKeyRequired)
}

func TestClient_Configured(t *testing.T) {
	var nilClient *Client
	assert.False(t, nilClient.Configured())

	c, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.True(t, c.Configured())
	assert.Equal(t, DefaultLanguage, c.Language())
	assert.Equal(t, time.Duration(DefaultMaxPollAttempts)*DefaultPollInterval, c.MaxPollDuration())
}

func TestCreateJob_SendsExpectedRequest(t *testing.T) {
	var gotBody map[string]any
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/jobs", r.URL.Path)
		gotKey = r.Header.Get("X-Hume-Api-Key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = io.WriteString(w, `{"job_id":"job-123"}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, func(cfg *Config) { cfg.ConfidenceThreshold = 0.5 })

	id, err := c.CreateJob(context.Background(), "https://bucket.s3/audio.wav?sig=1", "ja")
	require.NoError(t, err)
	assert.Equal(t, "job-123", id)
	assert.Equal(t, "test-key", gotKey)

	want := map[string]any{
		"models": map[string]any{
			"prosody":  map[string]any{"granularity": "utterance", "identify_speakers": false},
			"burst":    map[string]any{},
			"language": map[string]any{},
		},
		"transcription": map[string]any{"language": "ja", "confidence_threshold": 0.5},
		"urls":          []any{"https://bucket.s3/audio.wav?sig=1"},
	}
	assert.Equal(t, want, gotBody)
}

func TestCreateJob_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "non-200 status", status: http.StatusUnauthorized, body: `{"message":"bad key"}`, wantStatus: http.StatusUnauthorized, wantMsg: "Hume API error: 401"},
		{name: "missing job id", status: http.StatusOK, body: `{}`, wantStatus: http.StatusOK, wantMsg: "no job_id in response"},
		{name: "empty job id", status: http.StatusOK, body: `{"job_id":""}`, wantStatus: http.StatusOK, wantMsg: "no job_id in response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c, _ := newTestClient(t, srv, nil)
			id, err := c.CreateJob(context.Background(), "https://example/a.wav", "")
			require.Error(t, err)
			assert.Empty(t, id)

			var se *ServiceError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "create_job", se.Op)
			assert.Equal(t, tt.wantStatus, se.StatusCode)
			assert.False(t, se.Transient)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestGetJobStatus_MapsStates(t *testing.T) {
	tests := []struct {
		remote string
		want   model.JobState
	}{
		{remote: "COMPLETED", want: model.JobStateCompleted},
		{remote: "FAILED", want: model.JobStateFailed},
		{remote: "IN_PROGRESS", want: model.JobStatePending},
		{remote: "QUEUED", want: model.JobStatePending},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/jobs/job-1", r.URL.Path)
				writeStatus(w, tt.remote)
			}))
			defer srv.Close()

			c, _ := newTestClient(t, srv, nil)
			got, err := c.GetJobStatus(context.Background(), "job-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetJobStatus_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeStatus(w, "COMPLETED")
	}))
	defer srv.Close()

	c, rec := newTestClient(t, srv, nil)
	got, err := c.GetJobStatus(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.JobStateCompleted, got)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.recorded())
}

func TestGetJobStatus_GivesUpAfterRetryBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, nil)
	_, err := c.GetJobStatus(context.Background(), "job-1")
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWaitForCompletion_StopsOnFailedAfterOnePoll(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		polls.Add(1)
		writeStatus(w, "FAILED")
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, nil)
	job, doc, err := c.WaitForCompletion(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrJobFailed)
	assert.NotErrorIs(t, err, ErrJobTimeout)
	assert.Nil(t, doc)
	assert.Equal(t, 1, job.Attempts)
	assert.Equal(t, model.JobStateFailed, job.State)
	assert.Equal(t, int32(1), polls.Load())
}

func TestWaitForCompletion_AttemptCeilingUnderPending(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		polls.Add(1)
		writeStatus(w, "IN_PROGRESS")
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, func(cfg *Config) { cfg.MaxPollAttempts = 4 })
	job, _, err := c.WaitForCompletion(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrJobTimeout)
	assert.NotErrorIs(t, err, ErrJobFailed)
	assert.Equal(t, 4, job.Attempts)
	assert.Equal(t, model.JobStateTimedOut, job.State)
	assert.Equal(t, int32(4), polls.Load())
}

func TestWaitForCompletion_StatusErrorsCountAsAttempts(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, func(cfg *Config) { cfg.MaxPollAttempts = 3 })
	job, _, err := c.WaitForCompletion(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrJobTimeout)
	assert.Equal(t, 3, job.Attempts)
	// each poll spends its own three-attempt retry budget
	assert.Equal(t, int32(9), requests.Load())
}

func TestWaitForCompletion_FetchesPredictionsOnCompletion(t *testing.T) {
	doc := testutil.PredictionDoc().
		Burst(testutil.Prediction{
			Time:     &testutil.Span{Begin: 0, End: 1.2},
			Emotions: []testutil.Emotion{testutil.E("Amusement", 0.7)},
		}).
		Build()

	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "job-9", r.PathValue("id"))
		if polls.Add(1) < 3 {
			writeStatus(w, "IN_PROGRESS")
			return
		}
		writeStatus(w, "COMPLETED")
	})
	mux.HandleFunc("GET /jobs/{id}/predictions", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(doc)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newTestClient(t, srv, nil)
	job, raw, err := c.WaitForCompletion(context.Background(), "job-9")
	require.NoError(t, err)
	assert.Equal(t, 3, job.Attempts)
	assert.Equal(t, model.JobStateCompleted, job.State)
	assert.JSONEq(t, string(doc), string(raw))
}

func TestWaitForCompletion_FetchFailureIsFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, "COMPLETED")
	})
	var fetches atomic.Int32
	mux.HandleFunc("GET /jobs/{id}/predictions", func(w http.ResponseWriter, _ *http.Request) {
		fetches.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newTestClient(t, srv, nil)
	_, _, err := c.WaitForCompletion(context.Background(), "job-1")
	require.Error(t, err)

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "fetch_predictions", se.Op)
	assert.Equal(t, int32(1), fetches.Load())
}

func TestWaitForCompletion_HonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, "IN_PROGRESS")
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, func(cfg *Config) {
		cfg.PollInterval = time.Hour
		cfg.MaxPollAttempts = 10
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	job, _, err := c.WaitForCompletion(ctx, "job-1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrJobTimeout))
	assert.Equal(t, 1, job.Attempts)
}

func TestBackoff_Delay(t *testing.T) {
	b := DefaultStatusBackoff()
	assert.Equal(t, 2*time.Second, b.Delay(1))
	assert.Equal(t, 4*time.Second, b.Delay(2))
	assert.Equal(t, 8*time.Second, b.Delay(3))
	assert.Equal(t, 10*time.Second, b.Delay(4))
	assert.Equal(t, 10*time.Second, b.Delay(10))
}
