package arkio_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/arkio/arkio-client/pkg/arkio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := arkio.NewMemoryCache(10)
	ctx := context.Background()

	entry := &arkio.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
		ETag:      "abc123",
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)

	retrieved, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.Equal(t, entry.ETag, retrieved.ETag)
}

func TestMemoryCache_GetNonExistent(t *testing.T) {
	t.Parallel()

	cache := arkio.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "nonexistent")
	require.Error(t, err)
	require.ErrorIs(t, err, arkio.ErrCacheMiss)
	assert.Contains(t, err.Error(), "key not found")
}

func TestMemoryCache_GetExpired(t *testing.T) {
	t.Parallel()

	cache := arkio.NewMemoryCache(10)
	ctx := context.Background()

	err := cache.Set(ctx, "key1", &arkio.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(-1 * time.Hour), // Already expired
	})
	require.NoError(t, err)

	_, err = cache.Get(ctx, "key1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry expired")
	assert.False(t, cache.Has(ctx, "key1"))
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_Eviction(t *testing.T) {
	t.Parallel()

	cache := arkio.NewMemoryCache(3)
	ctx := context.Background()

	for i := range 5 {
		err := cache.Set(ctx, fmt.Sprintf("key%d", i), &arkio.CacheEntry{
			Data:      []byte{byte(i)},
			ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, cache.Len())
	assert.False(t, cache.Has(ctx, "key0"))
	assert.False(t, cache.Has(ctx, "key1"))
	assert.True(t, cache.Has(ctx, "key4"))

	// Overwriting an existing key does not evict.
	err := cache.Set(ctx, "key2", &arkio.CacheEntry{Data: []byte("new")})
	require.NoError(t, err)
	assert.Equal(t, 3, cache.Len())
	assert.True(t, cache.Has(ctx, "key3"))
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	cache := arkio.NewMemoryCache(10)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", &arkio.CacheEntry{Data: []byte("a")}))
	require.NoError(t, cache.Set(ctx, "b", &arkio.CacheEntry{Data: []byte("b")}))

	require.NoError(t, cache.Delete(ctx, "a"))
	assert.False(t, cache.Has(ctx, "a"))
	assert.True(t, cache.Has(ctx, "b"))

	require.NoError(t, cache.Delete(ctx, "missing"))

	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_Cleanup(t *testing.T) {
	t.Parallel()

	cache := arkio.NewMemoryCache(10)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "stale", &arkio.CacheEntry{ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, cache.Set(ctx, "fresh", &arkio.CacheEntry{ExpiresAt: time.Now().Add(time.Minute)}))

	cache.Cleanup()

	assert.Equal(t, 1, cache.Len())
	assert.True(t, cache.Has(ctx, "fresh"))
}

func TestCacheManager(t *testing.T) {
	t.Parallel()

	manager := arkio.NewCacheManager(arkio.NewMemoryCache(10), nil)
	ctx := context.Background()

	key := manager.GetCacheKey(arkio.OperationSearchCompanies, "/searchCompany.json", map[string]string{
		"pageSize": "50",
		"name":     "acme",
	})
	assert.Equal(t, "search_companies:/searchCompany.json:name=acme&pageSize=50", key)

	_, err := manager.Get(ctx, key)
	require.Error(t, err)

	require.NoError(t, manager.Set(ctx, key, []byte(`{"totalHits":1}`), 0))

	data, err := manager.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalHits":1}`, string(data))

	require.NoError(t, manager.SetWithETag(ctx, "other", []byte("x"), "etag-1", time.Minute))

	stats := manager.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(2), stats.Sets)
	assert.InDelta(t, 0.5, stats.GetHitRate(), 0.0001)
}

func TestCacheManager_KeyWithoutParams(t *testing.T) {
	t.Parallel()

	manager := arkio.NewCacheManager(nil, nil)

	assert.Equal(t, "company_statistics:/companies/1/statistics.json",
		manager.GetCacheKey(arkio.OperationCompanyStatistics, "/companies/1/statistics.json", nil))

	// A nil backend disables caching.
	require.NoError(t, manager.Set(context.Background(), "k", []byte("v"), 0))

	_, err := manager.Get(context.Background(), "k")
	require.ErrorIs(t, err, arkio.ErrCacheDisabled)
}

func TestCacheManager_HashKey(t *testing.T) {
	t.Parallel()

	manager := arkio.NewCacheManager(nil, &arkio.CacheOptions{KeyPrefix: "test"})

	first := manager.HashKey("search_contacts:/searchContact.json:name=jane doe")
	second := manager.HashKey("search_contacts:/searchContact.json:name=jane doe")
	other := manager.HashKey("search_contacts:/searchContact.json:name=john")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, len("test.")+64)
	assert.Regexp(t, `^test\.[0-9a-f]{64}$`, first)
}

func TestCacheStats_GetHitRate(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, (&arkio.CacheStats{}).GetHitRate(), 0.0001)
	assert.InDelta(t, 0.75, (&arkio.CacheStats{Hits: 3, Misses: 1}).GetHitRate(), 0.0001)
}

func TestCachingPolicy(t *testing.T) {
	t.Parallel()

	policy := arkio.DefaultCachingPolicy()

	assert.True(t, policy.ShouldCache(arkio.OperationSearchContacts))
	assert.True(t, policy.ShouldCache(arkio.OperationSearchContactsByCompany))
	assert.True(t, policy.ShouldCache(arkio.OperationSearchCompanies))
	assert.True(t, policy.ShouldCache(arkio.OperationCompanyStatistics))

	assert.False(t, policy.ShouldCache(arkio.OperationAuthenticate))
	assert.False(t, policy.ShouldCache(arkio.OperationUserInformation))
	assert.False(t, policy.ShouldCache(arkio.OperationContact))

	forced := &arkio.CachingPolicy{Operations: map[string]bool{arkio.OperationContact: true}}
	assert.False(t, forced.ShouldCache(arkio.OperationContact))

	var nilPolicy *arkio.CachingPolicy
	assert.False(t, nilPolicy.ShouldCache(arkio.OperationSearchContacts))
}
