package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const categoriesCacheKey = "catalog:categories:active"

// CategoryLister loads the active category tree from the store.
type CategoryLister interface {
	ListActive(ctx context.Context) ([]Category, error)
}

// CategoryCache is a read-through cache over the active category tree.
// The admin UI cross-references subcategory parents on every product
// edit, so the whole tree is cached as one entry. Category mutations
// must call Invalidate. Redis failures degrade to loader-only reads;
// they never fail a lookup the store can still answer.
type CategoryCache struct {
	client *redis.Client
	loader CategoryLister
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// NewCategoryCache instantiates the cache helper. logger may be nil.
func NewCategoryCache(client *redis.Client, loader CategoryLister, ttl time.Duration, logger *slog.Logger) *CategoryCache {
	return &CategoryCache{client: client, loader: loader, ttl: ttl, logger: logger}
}

// All returns the active category tree, loading and caching it on miss.
// Concurrent misses are collapsed into a single store read.
func (c *CategoryCache) All(ctx context.Context) ([]Category, error) {
	if c.client != nil {
		payload, err := c.client.Get(ctx, categoriesCacheKey).Bytes()
		switch {
		case err == nil:
			var categories []Category
			if err := json.Unmarshal(payload, &categories); err == nil {
				return categories, nil
			}
			// Corrupt entry: fall through and rebuild.
		case err != redis.Nil:
			// Redis down is not a reason to block validation while
			// postgres is healthy; serve from the loader instead.
			c.warn(ctx, "catalog cache: get failed, reading from store", err)
		}
	}

	v, err, _ := c.group.Do(categoriesCacheKey, func() (interface{}, error) {
		categories, err := c.loader.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		if c.client != nil {
			payload, err := json.Marshal(categories)
			if err == nil {
				if err := c.client.Set(ctx, categoriesCacheKey, payload, c.ttl).Err(); err != nil {
					c.warn(ctx, "catalog cache: set failed, entry not cached", err)
				}
			}
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Category), nil
}

// Get looks a single category up in the cached tree. found is false for
// ids that are absent or inactive.
func (c *CategoryCache) Get(ctx context.Context, id int64) (Category, bool, error) {
	categories, err := c.All(ctx)
	if err != nil {
		return Category{}, false, err
	}
	for _, cat := range categories {
		if cat.ID == id {
			return cat, true, nil
		}
	}
	return Category{}, false, nil
}

// Invalidate drops the cached tree. The next read repopulates it.
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, categoriesCacheKey).Err(); err != nil {
		return fmt.Errorf("catalog cache: invalidate: %w", err)
	}
	return nil
}

func (c *CategoryCache) warn(ctx context.Context, msg string, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, msg, slog.Any("error", err))
	}
}
