package httpx

import (
	"io"
	"net/http"
)

const healthResponse = `{"status":"ok"}`

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// Dependencies reports which optional collaborators were wired at startup.
type Dependencies struct {
	DatabaseConnected bool
	AWSConnected      bool
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status            string `json:"status"`
	Service           string `json:"service"`
	Version           string `json:"version"`
	ProviderLoaded    bool   `json:"provider_loaded"`
	SupabaseConnected bool   `json:"supabase_connected"`
	AWSConnected      bool   `json:"aws_connected"`
}

// HealthHandlers serves the dependency-aware health and service info endpoints.
type HealthHandlers struct {
	Analysis AnalysisService
	Deps     Dependencies
}

// Health reports degraded when the Hume client is not loaded. It always answers 200.
func (h *HealthHandlers) Health(w http.ResponseWriter, _ *http.Request) {
	loaded := h.Analysis != nil && h.Analysis.Ready()
	status := "healthy"
	if !loaded {
		status = "degraded"
	}
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:            status,
		Service:           ServiceName,
		Version:           ServiceVersion,
		ProviderLoaded:    loaded,
		SupabaseConnected: h.Deps.DatabaseConnected,
		AWSConnected:      h.Deps.AWSConnected,
	})
}

type serviceInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Models    map[string]string `json:"models"`
	Endpoints map[string]string `json:"endpoints"`
}

// Root describes the service and its endpoints.
func (h *HealthHandlers) Root(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, serviceInfo{
		Service: ServiceName,
		Version: ServiceVersion,
		Models: map[string]string{
			"speech_prosody": "48 emotions from voice prosody",
			"vocal_burst":    "48 emotions from non-linguistic vocalizations",
			"language":       "53 emotions from text content",
		},
		Endpoints: map[string]string{
			"health":        "/health",
			"async_process": "/async-process",
			"features":      "/features/{device_id}/{recorded_at}",
		},
	})
}
