package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/watchme/emotion-hume/internal/errors"
)

// maxBodyBytes caps request bodies; analysis requests are three short strings.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteAppError maps an AppError code to its HTTP status and writes the error body.
// Errors that are not AppErrors become 500 internal_error.
func WriteAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
		return
	}

	status, code := statusForCode(appErr.Code)
	body := map[string]string{"error": code, "message": appErr.Message}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	WriteJSON(w, status, body)
}

func statusForCode(code apperrors.ErrorCode) (int, string) {
	switch code {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest, "validation_error"
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound, "not_found"
	case apperrors.ErrCodeConflict:
		return http.StatusConflict, "conflict"
	case apperrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable, "service_unavailable"
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, "timeout"
	case apperrors.ErrCodeUpstream:
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
