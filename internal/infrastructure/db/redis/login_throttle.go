package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

var attemptScript = redis.NewScript(`
	local n = redis.call('INCR', KEYS[1])
	if n == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return n
`)

// LoginThrottle counts login attempts per identifier in a fixed window.
// Key format: login:attempts:<identifier>
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginThrottle creates a throttle allowing maxAttempts per window.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Allow increments the attempt counter and reports whether it is still within
// the limit. The window starts at the first attempt.
func (t *LoginThrottle) Allow(ctx context.Context, identifier string) (bool, error) {
	n, err := attemptScript.Run(ctx, t.client, []string{attemptsKey(identifier)}, t.window.Milliseconds()).Int64()
	if err != nil {
		return true, fmt.Errorf("login throttle: %w", err)
	}
	return n <= t.maxAttempts, nil
}

func (t *LoginThrottle) Reset(ctx context.Context, identifier string) error {
	if err := t.client.Del(ctx, attemptsKey(identifier)).Err(); err != nil {
		return fmt.Errorf("login throttle reset: %w", err)
	}
	return nil
}

func attemptsKey(identifier string) string {
	return "login:attempts:" + strings.ToLower(identifier)
}
