package httpx

const (
	// ServiceName is reported by the root and health endpoints.
	ServiceName = "Hume AI Emotion Recognition API"
	// ServiceVersion is the API version reported alongside ServiceName.
	ServiceVersion = "3.0.0"

	// RequestIDHeader carries the request id in and out of the service.
	RequestIDHeader = "X-Request-ID"

	// maxRequestIDLen bounds caller-supplied request ids.
	maxRequestIDLen = 128
)
