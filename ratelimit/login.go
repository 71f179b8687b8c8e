// Package ratelimit throttles login attempts with a fixed redis window
// per email and client IP. Redis being unreachable never blocks logins:
// the limiter fails open and logs.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type LoginLimiter struct {
	client *redis.Client
	logger *slog.Logger
	max    int64
	window time.Duration
}

func NewLoginLimiter(client *redis.Client, logger *slog.Logger, max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		client: client,
		logger: logger,
		max:    int64(max),
		window: window,
	}
}

// Allow records one attempt and reports whether the caller is still under
// the limit for the current window.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) bool {
	key := l.key(email, ip)

	attempts, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter unavailable, allowing attempt", "error", err)
		return true
	}
	if attempts == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("failed to set login limiter expiry", "error", err)
		}
	}
	return attempts <= l.max
}

// Reset clears the window after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) {
	if err := l.client.Del(ctx, l.key(email, ip)).Err(); err != nil {
		l.logger.Warn("failed to reset login limiter", "error", err)
	}
}

func (l *LoginLimiter) key(email, ip string) string {
	return fmt.Sprintf("login_attempts:%s:%s", strings.ToLower(email), ip)
}
