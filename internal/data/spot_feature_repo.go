package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/watchme/emotion-hume/internal/data/pgxutil"
	"github.com/watchme/emotion-hume/internal/domain/model"
	apperrors "github.com/watchme/emotion-hume/internal/errors"
)

// ErrNilResult is returned when UpsertResult is called without a payload.
var ErrNilResult = errors.New("analysis result is required")

// SpotFeatureRepo reads and writes the Hume columns of spot_features.
type SpotFeatureRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSpotFeatureRepo creates a SpotFeatureRepo using the system clock.
func NewSpotFeatureRepo(db *sql.DB) *SpotFeatureRepo {
	return &SpotFeatureRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

const spotFeatureColumns = `device_id, recorded_at, emotion_features_result_hume, emotion_status, created_at, updated_at`

// SetStatus updates emotion_status for an existing row. It returns false when the row does not exist.
func (r *SpotFeatureRepo) SetStatus(
	ctx context.Context,
	key model.FeatureKey,
	status model.ProcessingStatus,
) (bool, error) {
	if !status.Valid() {
		return false, apperrors.ValidationField("emotion_status", fmt.Sprintf("invalid status %q", status))
	}

	const q = `
		UPDATE spot_features
		SET emotion_status = $3, updated_at = $4
		WHERE device_id = $1 AND recorded_at = $2`

	n, err := pgxutil.Exec(ctx, r.DB, q, key.DeviceID, key.RecordedAt, string(status), r.timeProvider.Now())
	if err != nil {
		return false, fmt.Errorf("set emotion status: %w", apperrors.MapDBError(err))
	}
	return n > 0, nil
}

// UpsertResult stores result and its derived status, inserting the row when it is missing.
// created_at survives updates; updated_at is bumped on every call.
func (r *SpotFeatureRepo) UpsertResult(
	ctx context.Context,
	key model.FeatureKey,
	result *model.AnalysisResult,
) (bool, error) {
	if result == nil {
		return false, ErrNilResult
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return false, fmt.Errorf("marshal analysis result: %w", err)
	}

	const q = `
		INSERT INTO spot_features (device_id, recorded_at, emotion_features_result_hume, emotion_status, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $5, $5)
		ON CONFLICT (device_id, recorded_at) DO UPDATE SET
			emotion_features_result_hume = EXCLUDED.emotion_features_result_hume,
			emotion_status = EXCLUDED.emotion_status,
			updated_at = EXCLUDED.updated_at`

	n, err := pgxutil.Exec(ctx, r.DB, q,
		key.DeviceID, key.RecordedAt, string(payload), string(result.Status()), r.timeProvider.Now(),
	)
	if err != nil {
		return false, fmt.Errorf("upsert emotion result: %w", apperrors.MapDBError(err))
	}
	return n > 0, nil
}

// GetResult returns the stored row for key or a not_found AppError.
func (r *SpotFeatureRepo) GetResult(ctx context.Context, key model.FeatureKey) (*model.SpotFeature, error) {
	q := `SELECT ` + spotFeatureColumns + ` FROM spot_features WHERE device_id = $1 AND recorded_at = $2`

	row, err := pgxutil.QueryOne[model.SpotFeature](ctx, r.DB, q, key.DeviceID, key.RecordedAt)
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return nil, apperrors.NotFoundf("spot feature %s/%s not found", key.DeviceID, key.RecordedAt)
		}
		return nil, fmt.Errorf("get emotion result: %w", mapped)
	}
	return row, nil
}
