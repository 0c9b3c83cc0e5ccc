package model

import (
	"encoding/json"
	"time"
)

const (
	// ProviderHume identifies results produced by the Hume batch API.
	ProviderHume = "hume"
	// ResultVersion is the schema version stamped on every stored result.
	ResultVersion = "3.0.0"
	// FeatureTypeEmotion is the feature_type announced on the completion queue.
	FeatureTypeEmotion = "emotion"
)

// ProcessingStatus is the emotion_status column of a spot_features row.
type ProcessingStatus string

const (
	// StatusProcessing is written when an orchestration starts.
	StatusProcessing ProcessingStatus = "processing"
	// StatusCompleted is written when at least one segment was extracted.
	StatusCompleted ProcessingStatus = "completed"
	// StatusFailed is written for every other terminal outcome.
	StatusFailed ProcessingStatus = "failed"
)

// Valid returns true if the status is one of the persisted values.
func (s ProcessingStatus) Valid() bool {
	return s == StatusProcessing || s == StatusCompleted || s == StatusFailed
}

// JobState is the lifecycle state of a remote analysis job as seen by the poller.
type JobState string

const (
	// JobStatePending covers every non-terminal remote state (QUEUED, IN_PROGRESS, ...).
	JobStatePending JobState = "pending"
	// JobStateCompleted means predictions are ready to fetch.
	JobStateCompleted JobState = "completed"
	// JobStateFailed means the remote job reported FAILED.
	JobStateFailed JobState = "failed"
	// JobStateTimedOut means the poll budget ran out before a terminal state.
	JobStateTimedOut JobState = "timed_out"
)

// Terminal reports whether polling stops at this state.
func (s JobState) Terminal() bool {
	return s == JobStateCompleted || s == JobStateFailed || s == JobStateTimedOut
}

// AnalysisJob tracks one remote job for the duration of a single orchestration.
type AnalysisJob struct {
	ID        string
	CreatedAt time.Time
	Attempts  int
	State     JobState
}

// AnalysisResult is the normalized document stored in emotion_features_result_hume.
type AnalysisResult struct {
	Provider         string        `json:"provider"`
	Version          string        `json:"version"`
	JobID            string        `json:"job_id,omitempty"`
	Timestamp        string        `json:"timestamp,omitempty"`
	Confidence       *float64      `json:"confidence,omitempty"`
	DetectedLanguage *string       `json:"detected_language,omitempty"`
	TotalSegments    int           `json:"total_segments,omitempty"`
	SpeechProsody    *SegmentGroup `json:"speech_prosody,omitempty"`
	VocalBurst       *SegmentGroup `json:"vocal_burst,omitempty"`
	Language         *SegmentGroup `json:"language,omitempty"`
	ProcessingTime   *float64      `json:"processing_time,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// NewFailureResult builds the payload stored when an orchestration fails.
func NewFailureResult(jobID string, errMsg string) *AnalysisResult {
	return &AnalysisResult{
		Provider: ProviderHume,
		Version:  ResultVersion,
		JobID:    jobID,
		Error:    errMsg,
	}
}

// Status derives the persisted status from the payload: any error means failed.
func (r *AnalysisResult) Status() ProcessingStatus {
	if r == nil || r.Error != "" {
		return StatusFailed
	}
	return StatusCompleted
}

// SetProcessingTime records the elapsed wall-clock time in seconds.
func (r *AnalysisResult) SetProcessingTime(d time.Duration) {
	secs := d.Seconds()
	r.ProcessingTime = &secs
}

// SpotFeature is a spot_features row as read back from the datastore.
type SpotFeature struct {
	DeviceID   string            `json:"device_id"                              db:"device_id"`
	RecordedAt string            `json:"recorded_at"                            db:"recorded_at"`
	Result     json.RawMessage   `json:"emotion_features_result_hume,omitempty" db:"emotion_features_result_hume"`
	Status     *ProcessingStatus `json:"emotion_status,omitempty"               db:"emotion_status"`
	CreatedAt  time.Time         `json:"created_at"                             db:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"                             db:"updated_at"`
}

// AudioFile is an audio_files row describing an uploaded recording.
type AudioFile struct {
	FilePath        string   `json:"file_path"                  db:"file_path"`
	DeviceID        string   `json:"device_id"                  db:"device_id"`
	RecordedAt      string   `json:"recorded_at"                db:"recorded_at"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty" db:"duration_seconds"`
}

// AudioFileListOptions filters audio_files listings.
type AudioFileListOptions struct {
	PathPrefix string
	Limit      int
}

// OutcomeResult classifies how an orchestration ended.
type OutcomeResult string

const (
	// OutcomeCompleted means a result with at least one segment was stored.
	OutcomeCompleted OutcomeResult = "completed"
	// OutcomeFailed means a failure payload was stored.
	OutcomeFailed OutcomeResult = "failed"
	// OutcomeSkipped means another orchestration held the key and nothing ran.
	OutcomeSkipped OutcomeResult = "skipped"
)

// Outcome summarizes a finished orchestration for callers and tests.
type Outcome struct {
	Result   OutcomeResult
	JobID    string
	Segments int
	Err      error
	Duration time.Duration
}
