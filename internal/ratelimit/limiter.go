// Package ratelimit throttles submission attempts per user with a sliding
// window. The memory limiter serves single-instance deployments; the Redis
// limiter shares state across replicas.
package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of one attempt check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter records an attempt and reports whether it is within the window.
// Denied attempts are not recorded, so the caller recovers as soon as the
// oldest allowed attempt ages out.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}
