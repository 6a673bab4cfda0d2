package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanDebounceTTL is how long an identical scan (same user, sku and
// direction) is treated as a double press of the scanner trigger.
const scanDebounceTTL = 3 * time.Second

// RedisScanGuard debounces QR scans with SET NX: the first scan within
// the window wins, repeats are rejected.
type RedisScanGuard struct {
	client *redis.Client
}

func NewRedisScanGuard(client *redis.Client) *RedisScanGuard {
	return &RedisScanGuard{client: client}
}

// Acquire returns false when key was already set within the debounce
// window.
func (g *RedisScanGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, key, 1, scanDebounceTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
