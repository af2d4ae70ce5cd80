package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	generationKey = "dashboard:gen"
	entryPrefix   = "dashboard:v"
)

// DashboardCache stores dashboard aggregates in Redis. Entries are keyed by
// a generation counter so invalidation is a single INCR.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboardCache builds a cache; a nil client or zero ttl disables it.
func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{client: client, ttl: ttl}
}

// Enabled reports whether reads and writes reach Redis.
func (c *DashboardCache) Enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Slot is a cache key pinned to the generation observed by Get. Writing to
// a slot after an invalidation lands under the orphaned generation, so a
// stale aggregate is never served as current.
type Slot struct {
	key string
}

// Valid reports whether the slot can be written.
func (s Slot) Valid() bool {
	return s.key != ""
}

// Get loads the entry for params into dest. The boolean is false on a miss;
// the returned slot is where the caller should Set a freshly built value.
func (c *DashboardCache) Get(ctx context.Context, params string, dest any) (Slot, bool, error) {
	if !c.Enabled() {
		return Slot{}, false, nil
	}
	key, err := c.key(ctx, params)
	if err != nil {
		return Slot{}, false, err
	}
	slot := Slot{key: key}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return slot, false, nil
	}
	if err != nil {
		return slot, false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return slot, false, fmt.Errorf("decode dashboard cache entry: %w", err)
	}
	return slot, true, nil
}

// Set stores value in slot.
func (c *DashboardCache) Set(ctx context.Context, slot Slot, value any) error {
	if !c.Enabled() || !slot.Valid() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode dashboard cache entry: %w", err)
	}
	return c.client.Set(ctx, slot.key, raw, c.ttl).Err()
}

// Invalidate bumps the generation; older entries expire on their own.
func (c *DashboardCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, generationKey).Err()
}

func (c *DashboardCache) key(ctx context.Context, params string) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		return "", err
	}
	return EntryKey(gen, params), nil
}

// EntryKey formats the Redis key for a generation and parameter string.
func EntryKey(generation int64, params string) string {
	return fmt.Sprintf("%s%d:%s", entryPrefix, generation, params)
}
