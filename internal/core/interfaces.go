// Package core declares the ports the emotion analysis service depends on.
// Adapters in internal/data, internal/hume and internal/adapters implement them.
package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/watchme/emotion-hume/internal/domain/model"
)

// JobClient runs one remote emotion analysis job.
type JobClient interface {
	Configured() bool
	Language() string
	CreateJob(ctx context.Context, mediaURL, language string) (string, error)
	WaitForCompletion(ctx context.Context, jobID string) (*model.AnalysisJob, json.RawMessage, error)
}

// FeatureStore persists analysis status and results in spot_features.
type FeatureStore interface {
	// SetStatus updates emotion_status of an existing row. It reports false when no row matched.
	SetStatus(ctx context.Context, key model.FeatureKey, status model.ProcessingStatus) (bool, error)
	// UpsertResult writes the result and derives emotion_status from result.Error.
	UpsertResult(ctx context.Context, key model.FeatureKey, result *model.AnalysisResult) (bool, error)
	GetResult(ctx context.Context, key model.FeatureKey) (*model.SpotFeature, error)
}

// AudioFileStore reads recording metadata from audio_files.
type AudioFileStore interface {
	GetByPath(ctx context.Context, filePath string) (*model.AudioFile, error)
	List(ctx context.Context, opts model.AudioFileListOptions) ([]*model.AudioFile, error)
}

// URLSigner produces time-limited download URLs for stored audio.
type URLSigner interface {
	PresignGetURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

// CompletionPublisher announces finished analyses downstream.
type CompletionPublisher interface {
	Publish(ctx context.Context, msg model.FeatureCompletedMessage) error
}

// KeyGuard serializes orchestrations that target the same spot_features row.
type KeyGuard interface {
	// TryLock claims key for ttl. ok is false when another owner holds it.
	TryLock(ctx context.Context, key model.FeatureKey, ttl time.Duration) (token string, ok bool, err error)
	// Unlock releases key only if token still owns it.
	Unlock(ctx context.Context, key model.FeatureKey, token string) (bool, error)
	// ForceUnlock drops key regardless of owner.
	ForceUnlock(ctx context.Context, key model.FeatureKey) (bool, error)
}
