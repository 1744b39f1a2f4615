package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// ProductCache is a read-through cache for barcode lookups on the hot POS
// path. Every mutating product call invalidates the affected keys, so the
// cache can never serve a stale quantity past one write (no ad hoc
// module-level caches anywhere else).
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: 5 * time.Minute}
}

func (c *ProductCache) key(companyID, barcode string) string {
	return "product:barcode:" + companyID + ":" + barcode
}

// Get unmarshals a cached value into dest. Returns false on miss or when the
// cache is unavailable — callers always fall through to the store.
func (c *ProductCache) Get(ctx context.Context, companyID, barcode string, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, c.key(companyID, barcode)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores a value best-effort; cache failures never fail the request.
func (c *ProductCache) Set(ctx context.Context, companyID, barcode string, value interface{}) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, c.key(companyID, barcode), raw, c.ttl).Err()
}

// Invalidate drops the cached entry for a barcode after any mutating call.
func (c *ProductCache) Invalidate(ctx context.Context, companyID, barcode string) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.key(companyID, barcode)).Err()
}
