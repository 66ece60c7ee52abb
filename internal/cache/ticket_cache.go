package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	openIDsKeyPrefix = "open-tickets:resource:"
	openCountKey     = "open-tickets:count"
)

// TicketCache keeps open-ticket listings in Redis so lobby screens do not
// hit the store on every poll. Entries expire on their own and are
// invalidated eagerly whenever a ticket is saved.
type TicketCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTicketCache builds a cache around the shared client.
func NewTicketCache(client *redis.Client, ttl time.Duration) *TicketCache {
	return &TicketCache{client: client, ttl: ttl}
}

// GetOpenTicketIDs returns the cached ids for a resource; the second value
// reports a cache hit.
func (c *TicketCache) GetOpenTicketIDs(ctx context.Context, resourceID int) ([]int, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	val, err := c.client.Get(ctx, openIDsKeyPrefix+strconv.Itoa(resourceID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var ids []int
	if err := json.Unmarshal(val, &ids); err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

// SetOpenTicketIDs caches the ids for a resource.
func (c *TicketCache) SetOpenTicketIDs(ctx context.Context, resourceID int, ids []int) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, openIDsKeyPrefix+strconv.Itoa(resourceID), data, c.ttl).Err()
}

// GetOpenTicketCount returns the cached open ticket count.
func (c *TicketCache) GetOpenTicketCount(ctx context.Context) (int, bool, error) {
	if c == nil || c.client == nil {
		return 0, false, nil
	}
	val, err := c.client.Get(ctx, openCountKey).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

// SetOpenTicketCount caches the open ticket count.
func (c *TicketCache) SetOpenTicketCount(ctx context.Context, count int) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, openCountKey, count, c.ttl).Err()
}

// Invalidate drops the count and the listings for the given resources.
func (c *TicketCache) Invalidate(ctx context.Context, resourceIDs []int) error {
	if c == nil || c.client == nil {
		return nil
	}
	keys := make([]string, 0, len(resourceIDs)+1)
	keys = append(keys, openCountKey)
	for _, id := range resourceIDs {
		keys = append(keys, openIDsKeyPrefix+strconv.Itoa(id))
	}
	return c.client.Del(ctx, keys...).Err()
}
