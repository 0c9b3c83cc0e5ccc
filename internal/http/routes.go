package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Analysis AnalysisService
	Deps     Dependencies
	Logger   *slog.Logger // Optional: request and handler logging
}

// NewRouter builds the API mux wrapped in Recover, RequestID and Logging middleware.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	analysis := &AnalysisHandlers{Svc: services.Analysis, Logger: logger}
	health := &HealthHandlers{Analysis: services.Analysis, Deps: services.Deps}

	mux.HandleFunc("POST /async-process", analysis.AsyncProcess)
	mux.HandleFunc("GET /features/{device_id}/{recorded_at}", analysis.GetFeature)
	mux.HandleFunc("GET /health", health.Health)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.HandleFunc("GET /{$}", health.Root)

	return Chain(mux, Recover(logger), RequestID(), Logging(logger))
}
