package httpx

import "context"

// requestIDKey is an unexported context key type to avoid collisions across packages.
type requestIDKey struct{}

// SetRequestIDInContext returns a child context that carries id.
// An empty id returns ctx unchanged.
func SetRequestIDInContext(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id placed by the RequestID middleware.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
