package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adroid/pool-registry/internal/core/ports"
)

const (
	DefaultMaxAttempts = 5
	DefaultWindow      = 15 * time.Minute
)

var _ ports.LoginLimiter = (*LoginLimiter)(nil)

// LoginLimiter counts failed logins per email in Redis.
// Key format: login:fail:<lowercased email>
// The counter expires window after the first failure in the window.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter. Non-positive limits fall back to
// DefaultMaxAttempts and DefaultWindow.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Allow reports whether another attempt is permitted for key.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("login limiter get: %w", err)
	}
	return n < l.maxAttempts, nil
}

// Fail records a failed attempt for key.
func (l *LoginLimiter) Fail(ctx context.Context, key string) error {
	k := l.key(key)
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return fmt.Errorf("login limiter expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter for key.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(key string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(key))
}
