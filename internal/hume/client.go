// Package hume talks to the Hume batch API and reshapes its predictions.
package hume

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/watchme/emotion-hume/internal/domain/model"
)

const (
	DefaultBaseURL             = "https://api.hume.ai/v0/batch"
	DefaultPollInterval        = 3 * time.Second
	DefaultMaxPollAttempts     = 40
	DefaultConfidenceThreshold = 0.5
	DefaultLanguage            = "ja"
	DefaultRequestTimeout      = 30 * time.Second
	DefaultFetchTimeout        = 60 * time.Second

	apiKeyHeader = "X-Hume-Api-Key"
	maxErrorBody = 4 << 10
)

// Config configures a Client.
type Config struct {
	BaseURL             string
	APIKey              string
	PollInterval        time.Duration
	MaxPollAttempts     int
	ConfidenceThreshold float64
	Language            string
	StatusRetry         Backoff
	RequestTimeout      time.Duration
	FetchTimeout        time.Duration
	HTTPClient          *http.Client
	Logger              *slog.Logger
}

// Client drives a single Hume batch job from creation to its predictions.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
	sleep  sleepFunc
}

// NewClient validates cfg, fills defaults and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrAPIKeyRequired
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PollInterval < 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = DefaultMaxPollAttempts
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.StatusRetry.Attempts <= 0 {
		cfg.StatusRetry = DefaultStatusBackoff()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logger.With("component", "hume_client"),
		sleep:  sleepContext,
	}, nil
}

// Configured reports whether the client holds an API key.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

// Language returns the default transcription language.
func (c *Client) Language() string {
	return c.cfg.Language
}

// MaxPollDuration is the longest WaitForCompletion can spend pacing polls.
func (c *Client) MaxPollDuration() time.Duration {
	return time.Duration(c.cfg.MaxPollAttempts) * c.cfg.PollInterval
}

type createJobRequest struct {
	Models        jobModels     `json:"models"`
	Transcription transcription `json:"transcription"`
	URLs          []string      `json:"urls"`
}

type jobModels struct {
	Prosody  prosodyModel `json:"prosody"`
	Burst    struct{}     `json:"burst"`
	Language struct{}     `json:"language"`
}

type prosodyModel struct {
	Granularity      string `json:"granularity"`
	IdentifySpeakers bool   `json:"identify_speakers"`
}

type transcription struct {
	Language            string  `json:"language"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}

type createJobResponse struct {
	JobID string `json:"job_id"`
}

type jobStatusResponse struct {
	State struct {
		Status string `json:"status"`
	} `json:"state"`
}

// CreateJob submits mediaURL for prosody, burst and language analysis and returns the job id.
func (c *Client) CreateJob(ctx context.Context, mediaURL, language string) (string, error) {
	if language == "" {
		language = c.cfg.Language
	}
	body, err := json.Marshal(createJobRequest{
		Models: jobModels{
			Prosody: prosodyModel{Granularity: "utterance", IdentifySpeakers: false},
		},
		Transcription: transcription{
			Language:            language,
			ConfidenceThreshold: c.cfg.ConfidenceThreshold,
		},
		URLs: []string{mediaURL},
	})
	if err != nil {
		return "", fmt.Errorf("marshal create job request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	var out createJobResponse
	if err := c.doJSON(ctx, "create_job", http.MethodPost, c.cfg.BaseURL+"/jobs", body, false, &out); err != nil {
		return "", err
	}
	if out.JobID == "" {
		return "", &ServiceError{Op: "create_job", StatusCode: http.StatusOK, Message: "no job_id in response"}
	}

	c.logger.InfoContext(ctx, "hume job created", "job_id", out.JobID)
	return out.JobID, nil
}

// GetJobStatus returns the job state, retrying transient failures with exponential backoff.
func (c *Client) GetJobStatus(ctx context.Context, jobID string) (model.JobState, error) {
	var state model.JobState
	err := retry(ctx, c.cfg.StatusRetry, c.sleep, func() error {
		s, err := c.getJobStatusOnce(ctx, jobID)
		if err != nil {
			return err
		}
		state = s
		return nil
	})
	if err != nil {
		return "", err
	}
	return state, nil
}

func (c *Client) getJobStatusOnce(ctx context.Context, jobID string) (model.JobState, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	var out jobStatusResponse
	if err := c.doJSON(ctx, "get_job_status", http.MethodGet, c.jobURL(jobID), nil, true, &out); err != nil {
		return "", err
	}

	switch out.State.Status {
	case "COMPLETED":
		return model.JobStateCompleted, nil
	case "FAILED":
		return model.JobStateFailed, nil
	default:
		return model.JobStatePending, nil
	}
}

// WaitForCompletion polls the job until it completes, fails or runs out of attempts.
// On completion the raw predictions document is returned alongside the job record.
func (c *Client) WaitForCompletion(ctx context.Context, jobID string) (*model.AnalysisJob, json.RawMessage, error) {
	job := &model.AnalysisJob{
		ID:        jobID,
		CreatedAt: time.Now().UTC(),
		State:     model.JobStatePending,
	}

	limiter := rate.NewLimiter(rate.Every(c.cfg.PollInterval), 1)
	if c.cfg.PollInterval <= 0 {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	for job.Attempts < c.cfg.MaxPollAttempts {
		if err := limiter.Wait(ctx); err != nil {
			return job, nil, fmt.Errorf("wait for job %s: %w", jobID, err)
		}

		job.Attempts++
		state, err := c.GetJobStatus(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return job, nil, fmt.Errorf("wait for job %s: %w", jobID, ctx.Err())
			}
			c.logger.WarnContext(ctx, "job status check failed",
				"job_id", jobID,
				"attempt", job.Attempts,
				"error", err,
			)
			continue
		}

		switch state {
		case model.JobStateCompleted:
			job.State = model.JobStateCompleted
			doc, err := c.FetchPredictions(ctx, jobID)
			if err != nil {
				return job, nil, err
			}
			return job, doc, nil
		case model.JobStateFailed:
			job.State = model.JobStateFailed
			return job, nil, fmt.Errorf("job %s: %w", jobID, ErrJobFailed)
		}
	}

	job.State = model.JobStateTimedOut
	return job, nil, fmt.Errorf("job %s: %w after %d attempts", jobID, ErrJobTimeout, job.Attempts)
}

// FetchPredictions downloads the predictions document of a completed job. It is not retried.
func (c *Client) FetchPredictions(ctx context.Context, jobID string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	var out json.RawMessage
	if err := c.doJSON(ctx, "fetch_predictions", http.MethodGet, c.jobURL(jobID)+"/predictions", nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) jobURL(jobID string) string {
	return c.cfg.BaseURL + "/jobs/" + jobID
}

// doJSON performs one request and decodes a 200 response into out.
// Non-200 responses and transport failures are reported as *ServiceError.
func (c *Client) doJSON(ctx context.Context, op, method, url string, body []byte, transient bool, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &ServiceError{Op: op, Transient: transient && !errors.Is(err, context.Canceled), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.DebugContext(ctx, "hume api non-200 response",
			"op", op,
			"status", resp.StatusCode,
			"body", string(snippet),
		)
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Transient: transient}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Message: "decode response", Transient: transient, Err: err}
	}
	return nil
}
