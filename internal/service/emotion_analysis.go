package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/watchme/emotion-hume/internal/core"
	"github.com/watchme/emotion-hume/internal/domain/model"
	apperrors "github.com/watchme/emotion-hume/internal/errors"
	"github.com/watchme/emotion-hume/internal/hume"
	obserrors "github.com/watchme/emotion-hume/internal/observability/errors"
	"github.com/watchme/emotion-hume/internal/observability/metrics"
	"github.com/watchme/emotion-hume/internal/observability/notify"
	"github.com/watchme/emotion-hume/internal/observability/statsd"
	"github.com/watchme/emotion-hume/internal/service/failurenotifier"
)

const (
	// DefaultPresignExpiry is how long the media URL handed to Hume stays valid.
	DefaultPresignExpiry = time.Hour
	// DefaultGuardMargin is added to the job client's poll budget to size the key guard TTL.
	DefaultGuardMargin = 5 * time.Minute
)

// Orchestration stages, reported in logs and alerts.
const (
	StagePresign   = "presign"
	StageCreateJob = "create_job"
	StageWait      = "wait_for_completion"
	StageParse     = "parse"
)

// EmotionAnalysisServiceOptions groups dependencies for EmotionAnalysisService.
// Every collaborator except Bucket may be nil; missing ones surface as failed outcomes.
type EmotionAnalysisServiceOptions struct {
	JobClient       core.JobClient           // Optional: nil makes every run fail with DependencyUnavailable
	Store           core.FeatureStore        // Optional: nil disables persistence
	Signer          core.URLSigner           // Optional: nil makes every run fail with DependencyUnavailable
	Publisher       core.CompletionPublisher // Optional: nil disables completion messages
	Guard           core.KeyGuard            // Optional: serializes runs per (device_id, recorded_at)
	GuardTTL        time.Duration            // Optional: defaults to poll budget + DefaultGuardMargin
	Bucket          string                   // Required: bucket holding the audio files
	PresignExpiry   time.Duration            // Optional: defaults to DefaultPresignExpiry
	Metrics         statsd.Sink              // Optional: lifecycle metrics
	FailureNotifier *failurenotifier.Service // Optional: alert fan-out
	Logger          *slog.Logger             // Optional: structured logger
	Clock           func() time.Time         // Optional: defaults to time.Now
}

// EmotionAnalysisService runs the create, poll, parse, persist and notify pipeline for one recording.
type EmotionAnalysisService struct {
	jobs            core.JobClient
	store           core.FeatureStore
	signer          core.URLSigner
	publisher       core.CompletionPublisher
	guard           core.KeyGuard
	guardTTL        time.Duration
	bucket          string
	presignExpiry   time.Duration
	metrics         statsd.Sink
	failureNotifier *failurenotifier.Service
	logger          *slog.Logger
	now             func() time.Time

	wg sync.WaitGroup
}

// pollBudget is implemented by job clients that can report how long polling may take.
type pollBudget interface {
	MaxPollDuration() time.Duration
}

// NewEmotionAnalysisService constructs an EmotionAnalysisService.
func NewEmotionAnalysisService(opts EmotionAnalysisServiceOptions) (*EmotionAnalysisService, error) {
	if opts.Bucket == "" {
		return nil, errors.New("bucket is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	expiry := opts.PresignExpiry
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}

	guardTTL := opts.GuardTTL
	if guardTTL <= 0 {
		guardTTL = DefaultGuardMargin
		if pb, ok := opts.JobClient.(pollBudget); ok {
			guardTTL += pb.MaxPollDuration()
		}
	}

	return &EmotionAnalysisService{
		jobs:            opts.JobClient,
		store:           opts.Store,
		signer:          opts.Signer,
		publisher:       opts.Publisher,
		guard:           opts.Guard,
		guardTTL:        guardTTL,
		bucket:          opts.Bucket,
		presignExpiry:   expiry,
		metrics:         opts.Metrics,
		failureNotifier: opts.FailureNotifier,
		logger:          logger.With("component", "emotion_analysis"),
		now:             clock,
	}, nil
}

// Ready reports whether a job client with credentials is wired.
func (s *EmotionAnalysisService) Ready() bool {
	return s.jobs != nil && s.jobs.Configured()
}

// Submit validates req and starts Process in the background. The run is detached
// from ctx cancellation so it outlives the HTTP request that triggered it.
func (s *EmotionAnalysisService) Submit(ctx context.Context, req model.AsyncProcessRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Process(bg, req)
	}()
	return nil
}

// Wait blocks until every run started by Submit has finished.
func (s *EmotionAnalysisService) Wait() {
	s.wg.Wait()
}

// analysisRun accumulates what a run learned before it ended.
type analysisRun struct {
	stage    string
	jobID    string
	attempts int
	result   *model.AnalysisResult
}

// Process runs one orchestration synchronously: status processing, presign, create,
// poll, parse, then a single final write and a completion message.
func (s *EmotionAnalysisService) Process(ctx context.Context, req model.AsyncProcessRequest) model.Outcome {
	start := s.now()
	key := req.Key()
	log := s.logger.With("device_id", key.DeviceID, "recorded_at", key.RecordedAt)

	if s.guard != nil {
		token, ok, err := s.guard.TryLock(ctx, key, s.guardTTL)
		switch {
		case err != nil:
			log.WarnContext(ctx, "key guard unavailable, running unguarded", "error", err)
		case !ok:
			log.WarnContext(ctx, "analysis already in progress for key, skipping")
			metrics.EmitAnalysisLifecycle(s.metrics, metrics.AnalysisMetric{
				Transition: metrics.TransitionSkipped,
				Result:     metrics.ResultNoop,
			})
			return model.Outcome{Result: model.OutcomeSkipped}
		default:
			defer s.release(ctx, key, token, log)
		}
	}

	metrics.EmitAnalysisLifecycle(s.metrics, metrics.AnalysisMetric{
		Transition: metrics.TransitionStarted,
		Result:     metrics.ResultSuccess,
	})
	log.InfoContext(ctx, "emotion analysis started", "file_path", req.FilePath)
	s.markProcessing(ctx, key, log)

	run := &analysisRun{}
	err := s.analyze(ctx, req, run)
	elapsed := s.now().Sub(start)

	var payload *model.AnalysisResult
	outcome := model.Outcome{JobID: run.jobID, Duration: elapsed, Err: err}
	switch {
	case err == nil:
		payload = run.result
		payload.JobID = run.jobID
		payload.SetProcessingTime(elapsed)
		outcome.Result = model.OutcomeCompleted
		outcome.Segments = payload.TotalSegments
		log.InfoContext(ctx, "emotion analysis completed",
			"job_id", run.jobID,
			"segments", payload.TotalSegments,
			"poll_attempts", run.attempts,
			"processing_time", elapsed.Seconds(),
		)
	case errors.Is(err, ErrInsufficientSignal):
		payload = model.NewFailureResult(run.jobID, err.Error())
		payload.SetProcessingTime(elapsed)
		outcome.Result = model.OutcomeFailed
		log.WarnContext(ctx, "no emotion data extracted", "job_id", run.jobID, "stage", run.stage)
	default:
		payload = model.NewFailureResult(run.jobID, err.Error())
		outcome.Result = model.OutcomeFailed
		log.ErrorContext(ctx, "emotion analysis failed",
			"job_id", run.jobID,
			"stage", run.stage,
			"error_class", obserrors.Classify(err),
			"error", err,
		)
	}

	s.storeResult(ctx, key, payload, log)
	s.publish(ctx, key, payload, outcome, log)
	s.emitFinished(outcome, run.attempts)
	if err != nil && !errors.Is(err, ErrInsufficientSignal) {
		s.alert(ctx, req, run, err)
	}
	return outcome
}

func (s *EmotionAnalysisService) analyze(ctx context.Context, req model.AsyncProcessRequest, run *analysisRun) error {
	run.stage = StagePresign
	if s.signer == nil {
		return &DependencyUnavailableError{Dependency: "storage"}
	}
	mediaURL, err := s.signer.PresignGetURL(ctx, s.bucket, req.FilePath, s.presignExpiry)
	if err != nil {
		return fmt.Errorf("presign audio url: %w", err)
	}

	run.stage = StageCreateJob
	if !s.Ready() {
		return &DependencyUnavailableError{Dependency: "job client"}
	}
	jobID, err := s.jobs.CreateJob(ctx, mediaURL, s.jobs.Language())
	if err != nil {
		return err
	}
	run.jobID = jobID

	run.stage = StageWait
	job, doc, err := s.jobs.WaitForCompletion(ctx, jobID)
	if job != nil {
		run.attempts = job.Attempts
	}
	if err != nil {
		return err
	}

	run.stage = StageParse
	result, err := hume.Parse(doc, s.now())
	if err != nil {
		return err
	}
	if result == nil || result.TotalSegments == 0 {
		return ErrInsufficientSignal
	}
	run.result = result
	return nil
}

func (s *EmotionAnalysisService) markProcessing(ctx context.Context, key model.FeatureKey, log *slog.Logger) {
	if s.store == nil {
		log.WarnContext(ctx, "feature store unavailable, status not recorded")
		return
	}
	updated, err := s.store.SetStatus(ctx, key, model.StatusProcessing)
	if err != nil {
		log.WarnContext(ctx, "failed to mark processing", "error", err)
		return
	}
	if !updated {
		log.WarnContext(ctx, "no spot_features row to mark processing")
	}
}

func (s *EmotionAnalysisService) storeResult(
	ctx context.Context,
	key model.FeatureKey,
	payload *model.AnalysisResult,
	log *slog.Logger,
) {
	if s.store == nil {
		return
	}
	// The bool only reports whether a row was touched; an upsert always touches one.
	if _, err := s.store.UpsertResult(ctx, key, payload); err != nil {
		log.ErrorContext(ctx, "failed to store emotion result", "status", payload.Status(), "error", err)
	}
}

func (s *EmotionAnalysisService) publish(
	ctx context.Context,
	key model.FeatureKey,
	payload *model.AnalysisResult,
	outcome model.Outcome,
	log *slog.Logger,
) {
	if s.publisher == nil {
		return
	}
	msg := model.FeatureCompletedMessage{
		DeviceID:    key.DeviceID,
		RecordedAt:  key.RecordedAt,
		FeatureType: model.FeatureTypeEmotion,
		Status:      string(payload.Status()),
		Provider:    model.ProviderHume,
		Segments:    outcome.Segments,
		Timestamp:   s.now().UTC().Format(time.RFC3339),
		Error:       payload.Error,
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		log.ErrorContext(ctx, "failed to publish completion", "status", msg.Status, "error", err)
	}
}

func (s *EmotionAnalysisService) emitFinished(outcome model.Outcome, attempts int) {
	m := metrics.AnalysisMetric{
		Duration: outcome.Duration,
		Segments: outcome.Segments,
		Attempts: attempts,
		Err:      outcome.Err,
	}
	if outcome.Result == model.OutcomeCompleted {
		m.Transition, m.Result = metrics.TransitionCompleted, metrics.ResultSuccess
	} else {
		m.Transition, m.Result = metrics.TransitionFailed, metrics.ResultError
	}
	metrics.EmitAnalysisLifecycle(s.metrics, m)
}

func (s *EmotionAnalysisService) alert(ctx context.Context, req model.AsyncProcessRequest, run *analysisRun, err error) {
	if !s.failureNotifier.Enabled() {
		return
	}
	s.failureNotifier.NotifyAnalysisFailure(ctx, notify.AnalysisFailurePayload{
		DeviceID:   req.DeviceID,
		RecordedAt: req.RecordedAt,
		FilePath:   req.FilePath,
		JobID:      run.jobID,
		Stage:      run.stage,
		Error:      err.Error(),
		ErrorClass: obserrors.Classify(err),
		OccurredAt: s.now(),
		Metadata:   map[string]string{"bucket": s.bucket},
	})
}

func (s *EmotionAnalysisService) release(ctx context.Context, key model.FeatureKey, token string, log *slog.Logger) {
	released, err := s.guard.Unlock(ctx, key, token)
	switch {
	case err != nil:
		log.WarnContext(ctx, "failed to release key guard", "error", err)
	case !released:
		log.WarnContext(ctx, "key guard expired before release")
	}
}

// Lookup returns the stored spot_features row for key.
func (s *EmotionAnalysisService) Lookup(ctx context.Context, key model.FeatureKey) (*model.SpotFeature, error) {
	if s.store == nil {
		return nil, apperrors.Unavailable("feature store is not configured")
	}
	return s.store.GetResult(ctx, key)
}
