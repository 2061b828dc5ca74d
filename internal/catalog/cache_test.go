package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingLister struct {
	categories []Category
	calls      int
}

func (c *countingLister) ListActive(_ context.Context) ([]Category, error) {
	c.calls++
	return c.categories, nil
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCategoryCacheReadThrough(t *testing.T) {
	lister := &countingLister{categories: []Category{
		{ID: 1, Name: "Kitchen", IsActive: true},
		{ID: 10, Name: "Mugs", ParentID: ptr(1), IsActive: true},
	}}
	cache := NewCategoryCache(testRedis(t), lister, time.Minute, testLogger())
	ctx := context.Background()

	first, err := cache.All(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, 1, lister.calls)

	// Second read is served from redis.
	second, err := cache.All(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, lister.calls)
}

func TestCategoryCacheGet(t *testing.T) {
	lister := &countingLister{categories: []Category{
		{ID: 1, Name: "Kitchen", IsActive: true},
	}}
	cache := NewCategoryCache(testRedis(t), lister, time.Minute, testLogger())
	ctx := context.Background()

	c, ok, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Kitchen", c.Name)

	_, ok, err = cache.Get(ctx, 999)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCategoryCacheInvalidateForcesReload(t *testing.T) {
	lister := &countingLister{categories: []Category{{ID: 1, Name: "Kitchen", IsActive: true}}}
	cache := NewCategoryCache(testRedis(t), lister, time.Minute, testLogger())
	ctx := context.Background()

	_, err := cache.All(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, lister.calls)

	lister.categories = append(lister.categories, Category{ID: 2, Name: "Fashion", IsActive: true})
	require.NoError(t, cache.Invalidate(ctx))

	reloaded, err := cache.All(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 2)
	require.Equal(t, 2, lister.calls)
}

func TestCategoryCacheSurvivesRedisOutage(t *testing.T) {
	lister := &countingLister{categories: []Category{{ID: 1, Name: "Kitchen", IsActive: true}}}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCategoryCache(client, lister, time.Minute, testLogger())
	ctx := context.Background()

	_, err := cache.All(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, lister.calls)

	// Redis dies after startup; reads keep working off the store.
	mr.Close()

	categories, err := cache.All(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Equal(t, 2, lister.calls)

	c, ok, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Kitchen", c.Name)
}

func TestCategoryCacheNilClient(t *testing.T) {
	lister := &countingLister{categories: []Category{{ID: 1, Name: "Kitchen", IsActive: true}}}
	cache := NewCategoryCache(nil, lister, time.Minute, testLogger())
	ctx := context.Background()

	// Without redis every read goes to the loader; nothing breaks.
	_, err := cache.All(ctx)
	require.NoError(t, err)
	_, err = cache.All(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, lister.calls)
	require.NoError(t, cache.Invalidate(ctx))
}
