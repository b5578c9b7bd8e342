package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "catalog:snapshot"

// CatalogCache holds the denormalized product snapshot served to the
// storefront, so listing does not hit the catalog collection on every read.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogCache(addr, password string) *CatalogCache {
	return &CatalogCache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: 5 * time.Minute,
	}
}

// Snapshot returns the cached snapshot bytes, or nil on a cache miss.
func (c *CatalogCache) Snapshot(ctx context.Context) ([]byte, error) {
	data, err := c.rdb.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *CatalogCache) StoreSnapshot(ctx context.Context, data []byte) error {
	return c.rdb.Set(ctx, snapshotKey, data, c.ttl).Err()
}

// Invalidate drops the snapshot after an admin product write.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, snapshotKey).Err()
}

func (c *CatalogCache) Close() error {
	return c.rdb.Close()
}
