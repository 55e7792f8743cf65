// Package requestcontext provides transport-independent accessors for
// request-scoped values.
//
// Middleware and the Kafka intake set the values; services and stores read
// them without importing net/http or franz-go.
//
//	requestID := requestcontext.RequestID(ctx)
//	key := requestcontext.SearchRequestKey(ctx)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey        struct{}
	searchRequestKeyKey struct{}
	eventNameKey        struct{}
	requestTimeKey      struct{}
)

var (
	ContextKeyRequestID        = requestIDKey{}
	ContextKeySearchRequestKey = searchRequestKeyKey{}
	ContextKeyEventName        = eventNameKey{}
	ContextKeyRequestTime      = requestTimeKey{}
)

// RequestID retrieves the correlation ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// SearchRequestKey retrieves the human-readable search request key being processed.
func SearchRequestKey(ctx context.Context) string {
	if key, ok := ctx.Value(ContextKeySearchRequestKey).(string); ok {
		return key
	}
	return ""
}

// WithSearchRequestKey scopes the context to one search request.
func WithSearchRequestKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ContextKeySearchRequestKey, key)
}

// EventName retrieves the inbound event name (Ordered, Updated, ...).
func EventName(ctx context.Context) string {
	if name, ok := ctx.Value(ContextKeyEventName).(string); ok {
		return name
	}
	return ""
}

// WithEventName records the inbound event name.
func WithEventName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ContextKeyEventName, name)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
// Workers use it to keep one timestamp across a scan.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
