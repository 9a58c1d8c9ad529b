package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestFetchJSONPopulatesAndReuses(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "dashboard", "snapshot")
	require.NoError(t, err)

	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return Snapshot{TotalRevenue: 1000}, nil
	}

	var first Snapshot
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.Equal(t, float64(1000), first.TotalRevenue)

	var second Snapshot
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))
	require.Equal(t, float64(1000), second.TotalRevenue)
	require.Equal(t, 1, calls)
}

func TestBumpOrphansOldKeys(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "dashboard", "snapshot")
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, "dashboard", "snapshot")
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestVersionInitialisesToOne(t *testing.T) {
	cache, _ := newTestCache(t)

	ver, err := cache.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), ver)
}

func TestNilCacheFallsThroughToLoader(t *testing.T) {
	var cache *Cache

	var snap Snapshot
	err := cache.FetchJSON(context.Background(), "any", &snap, func(ctx context.Context) (interface{}, error) {
		return Snapshot{TotalItems: 7}, nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), snap.TotalItems)
	require.NoError(t, cache.Bump(context.Background()))
}
