package logger

import "context"

// CorrelationIDHeader carries the request correlation id across services
const CorrelationIDHeader = "X-Correlation-ID"

type correlationCtxKey struct{}

// WithCorrelationID returns a copy of ctx carrying id
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationCtxKey{}, id)
}

// CorrelationIDFromContext returns the id stored by WithCorrelationID, or
// an empty string.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationCtxKey{}).(string)
	return id
}
