package ports

import "context"

// LoginLimiter throttles repeated failed logins for the same account key.
type LoginLimiter interface {
	// Allow reports whether another login attempt may be made for key.
	Allow(ctx context.Context, key string) (bool, error)
	// Fail records a failed attempt for key.
	Fail(ctx context.Context, key string) error
	// Reset clears the failure counter for key.
	Reset(ctx context.Context, key string) error
}
