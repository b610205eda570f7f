package utils

import (
	"context"
	"time"
)

// DefaultTimeout is the standard bound on storage operations.
const DefaultTimeout = 5 * time.Second

// WithTimeout creates a context with the default storage timeout.
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultTimeout)
}

// WithLongTimeout creates a context with a longer bound, for blob
// uploads and feed aggregation.
func WithLongTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 30*time.Second)
}

// IsContextError checks if the error came from context cancellation.
func IsContextError(err error) bool {
	return err == context.Canceled || err == context.DeadlineExceeded
}
