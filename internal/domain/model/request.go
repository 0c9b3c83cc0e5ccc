package model

import (
	"strings"

	apperrors "github.com/watchme/emotion-hume/internal/errors"
)

// AsyncProcessRequest asks for a recording to be analysed in the background.
type AsyncProcessRequest struct {
	FilePath   string `json:"file_path"`
	DeviceID   string `json:"device_id"`
	RecordedAt string `json:"recorded_at"`
}

// Normalize trims surrounding whitespace from every field.
func (r *AsyncProcessRequest) Normalize() {
	r.FilePath = strings.TrimSpace(r.FilePath)
	r.DeviceID = strings.TrimSpace(r.DeviceID)
	r.RecordedAt = strings.TrimSpace(r.RecordedAt)
}

// Validate checks that every field is present.
func (r *AsyncProcessRequest) Validate() error {
	if strings.TrimSpace(r.FilePath) == "" {
		return apperrors.ValidationField("file_path", "file_path is required and cannot be empty")
	}
	if strings.TrimSpace(r.DeviceID) == "" {
		return apperrors.ValidationField("device_id", "device_id is required and cannot be empty")
	}
	if strings.TrimSpace(r.RecordedAt) == "" {
		return apperrors.ValidationField("recorded_at", "recorded_at is required and cannot be empty")
	}
	return nil
}

// FeatureKey is the composite key of a spot_features row.
type FeatureKey struct {
	DeviceID   string
	RecordedAt string
}

// Key returns the composite datastore key targeted by the request.
func (r *AsyncProcessRequest) Key() FeatureKey {
	return FeatureKey{DeviceID: r.DeviceID, RecordedAt: r.RecordedAt}
}

// AsyncProcessResponse acknowledges an accepted request.
type AsyncProcessResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	DeviceID   string `json:"device_id"`
	RecordedAt string `json:"recorded_at"`
}

// FeatureCompletedMessage is published to the feature-completed queue after every orchestration.
type FeatureCompletedMessage struct {
	DeviceID    string `json:"device_id"`
	RecordedAt  string `json:"recorded_at"`
	FeatureType string `json:"feature_type"`
	Status      string `json:"status"`
	Provider    string `json:"provider"`
	Segments    int    `json:"segments"`
	Timestamp   string `json:"timestamp"`
	Error       string `json:"error,omitempty"`
}
