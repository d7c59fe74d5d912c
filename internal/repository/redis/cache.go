package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// loadTimeout caps a shared loader run started by GetOrSetJSON.
const loadTimeout = 10 * time.Second

// Cache stores JSON documents in Redis. A nil *Cache caches nothing.
type Cache struct {
	rdb    *redis.Client
	flight singleflight.Group
}

func New(client *redis.Client) *Cache {
	return &Cache{rdb: client}
}

// lookup reports a miss as ok == false with a nil error.
func (c *Cache) lookup(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

func (c *Cache) put(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// Invalidate removes keys. It is a no-op on a nil Cache.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *Cache) InvalidateWebsite(ctx context.Context) error {
	return c.Invalidate(ctx, KeyWebsiteData())
}

// cached decodes the entry at key. Misses, Redis errors and undecodable
// entries all report false.
func cached[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var out T

	b, ok, err := c.lookup(ctx, key)
	if err != nil || !ok {
		return out, false
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, false
	}
	return out, true
}

// GetOrSetJSON returns the cached value at key or loads, stores and returns it.
//
// Concurrent misses on the same key share one loader run. The run is detached
// from the caller's cancellation and bounded by loadTimeout, so a caller that
// gives up returns ctx.Err() while the others still get the loaded value.
// Cache failures fall through to the loader.
func GetOrSetJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	const op = "redisrepo.GetOrSetJSON"

	var zero T

	if c == nil {
		return loader(ctx)
	}

	if v, ok := cached[T](ctx, c, key); ok {
		return v, nil
	}

	ch := c.flight.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		if v, ok := cached[T](lctx, c, key); ok {
			return v, nil
		}

		v, err := loader(lctx)
		if err != nil {
			return nil, err
		}

		_ = c.put(lctx, key, v, ttl)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("%s: %w", op, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("%s: unexpected %T for key %q", op, res.Val, key)
		}
		return v, nil
	}
}
