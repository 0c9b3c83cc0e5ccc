package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/watchme/emotion-hume/internal/domain/model"
	apperrors "github.com/watchme/emotion-hume/internal/errors"
)

// AnalysisService is the subset of service.EmotionAnalysisService the handlers use.
type AnalysisService interface {
	Ready() bool
	Submit(ctx context.Context, req model.AsyncProcessRequest) error
	Lookup(ctx context.Context, key model.FeatureKey) (*model.SpotFeature, error)
}

// AnalysisHandlers serves the analysis trigger and result lookup endpoints.
type AnalysisHandlers struct {
	Svc    AnalysisService
	Logger *slog.Logger
}

// AsyncProcess accepts a recording for background analysis and answers 202 immediately.
func (h *AnalysisHandlers) AsyncProcess(w http.ResponseWriter, r *http.Request) {
	var req model.AsyncProcessRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		WriteAppError(w, err)
		return
	}

	if h.Svc == nil || !h.Svc.Ready() {
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "service_unavailable",
			Err:     errors.New("hume provider not initialized"),
		})
		return
	}

	if err := h.Svc.Submit(r.Context(), req); err != nil {
		WriteAppError(w, err)
		return
	}

	h.logger().InfoContext(r.Context(), "emotion analysis accepted",
		"device_id", req.DeviceID,
		"recorded_at", req.RecordedAt,
	)
	WriteJSON(w, http.StatusAccepted, model.AsyncProcessResponse{
		Status:     "accepted",
		Message:    "Emotion analysis started in background",
		DeviceID:   req.DeviceID,
		RecordedAt: req.RecordedAt,
	})
}

// GetFeature returns the stored emotion result for one recording.
func (h *AnalysisHandlers) GetFeature(w http.ResponseWriter, r *http.Request) {
	key := model.FeatureKey{DeviceID: r.PathValue("device_id"), RecordedAt: r.PathValue("recorded_at")}
	if key.DeviceID == "" || key.RecordedAt == "" {
		WriteAppError(w, apperrors.Validation("device_id and recorded_at are required"))
		return
	}
	if h.Svc == nil {
		WriteAppError(w, apperrors.Unavailable("analysis service is not configured"))
		return
	}

	row, err := h.Svc.Lookup(r.Context(), key)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			h.logger().ErrorContext(r.Context(), "feature lookup failed",
				"device_id", key.DeviceID,
				"recorded_at", key.RecordedAt,
				"error", err,
			)
		}
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, row)
}

func (h *AnalysisHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
