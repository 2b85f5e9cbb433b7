package logger

import "context"

// contextKey is private so no other package can collide with this key.
type contextKey struct{}

var requestIDKey = contextKey{}

// WithRequestID stores the request ID on the context. The request-ID
// middleware calls this once per request; log statements pick it up through
// RequestID to correlate webhook ingests with their broadcasts.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID from the context, or "" when the request
// never passed through the request-ID middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
