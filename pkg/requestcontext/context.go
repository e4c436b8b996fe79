// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, services read them, and tests
// inject them without running the HTTP chain. Keeping this package free of
// net/http lets services import only what they need.
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	issuerIDKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// IssuerID retrieves the authenticated issuer identity from the context.
// Empty when the request was not made by an authenticated issuer.
func IssuerID(ctx context.Context) string {
	if issuerID, ok := ctx.Value(issuerIDKey{}).(string); ok {
		return issuerID
	}
	return ""
}

// WithIssuerID injects an issuer identity into the context.
func WithIssuerID(ctx context.Context, issuerID string) context.Context {
	return context.WithValue(ctx, issuerIDKey{}, issuerID)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts (workers, tests that don't care).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Used by tests and by
// workers that need a consistent time across a batch.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
