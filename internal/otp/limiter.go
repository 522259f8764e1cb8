package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Reissue limits: at most maxReissues codes per phone per window.
const (
	maxReissues   = 3
	reissueWindow = 10 * time.Minute
)

// RateLimiter bounds how often a phone number can ask for a fresh code,
// counting reissues in Redis with a rolling expiry window.
type RateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a Redis-backed reissue limiter.
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow records one reissue attempt for the phone and reports whether it is
// within the limit. The counter's TTL is set on first increment only, so the
// window starts at the first reissue.
func (l *RateLimiter) Allow(ctx context.Context, phone string) (bool, error) {
	key := "otp:reissue:" + phone

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("increment reissue counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, reissueWindow).Err(); err != nil {
			return false, fmt.Errorf("set reissue counter expiry: %w", err)
		}
	}

	return count <= maxReissues, nil
}
