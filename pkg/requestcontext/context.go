// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them. Keeping the package
// free of net/http lets services import only what they need.
//
// Usage in services (read values):
//
//	caller := requestcontext.Caller(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithCaller(ctx, "0xcreditor")
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	"claimbank/pkg/domain"
)

type (
	callerKey      struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyCaller      = callerKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// Caller retrieves the authenticated party from the context.
// Returns the zero Party if not set.
func Caller(ctx context.Context) domain.Party {
	if p, ok := ctx.Value(ContextKeyCaller).(domain.Party); ok {
		return p
	}
	return ""
}

// WithCaller injects the authenticated party into the context.
func WithCaller(ctx context.Context, caller domain.Party) context.Context {
	return context.WithValue(ctx, ContextKeyCaller, caller)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service
// unit tests and for keeping one consistent timestamp across a batch.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
