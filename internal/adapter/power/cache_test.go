package power

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/climate-eto-service/internal/domain"
	"github.com/couchcryptid/climate-eto-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingProvider struct {
	calls  int
	series domain.DailySeries
	err    error
}

func (m *countingProvider) FetchDaily(_ context.Context, _, _ float64, _ domain.FetchWindow) (domain.DailySeries, error) {
	m.calls++
	return m.series, m.err
}

// --- CachedProvider tests ---

func TestCachedProvider_CacheHit(t *testing.T) {
	inner := &countingProvider{series: domain.DailySeries{"20230101": {domain.VarTempMin: 12}}}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedProvider(inner, 10, metrics)
	w := testWindow(t)

	s1, err := cached.FetchDaily(context.Background(), 4.6, -74.1, w)
	require.NoError(t, err)
	s2, err := cached.FetchDaily(context.Background(), 4.6, -74.1, w)
	require.NoError(t, err)

	assert.Equal(t, s1, s2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ProviderCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ProviderCache.WithLabelValues("miss")), 0)
}

func TestCachedProvider_DistinctKeys(t *testing.T) {
	inner := &countingProvider{series: domain.DailySeries{"20230101": {domain.VarTempMin: 12}}}
	cached := NewCachedProvider(inner, 10, observability.NewMetricsForTesting())

	other, err := domain.ParseFetchWindow("20240101", "20240102")
	require.NoError(t, err)

	_, _ = cached.FetchDaily(context.Background(), 4.6, -74.1, testWindow(t))
	_, _ = cached.FetchDaily(context.Background(), 4.6, -74.1, other)
	_, _ = cached.FetchDaily(context.Background(), -4.6, -74.1, testWindow(t))

	assert.Equal(t, 3, inner.calls)
}

func TestCachedProvider_SkipsEmptyAndErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		inner := &countingProvider{series: domain.DailySeries{}}
		cached := NewCachedProvider(inner, 10, observability.NewMetricsForTesting())

		_, _ = cached.FetchDaily(context.Background(), 4.6, -74.1, testWindow(t))
		_, _ = cached.FetchDaily(context.Background(), 4.6, -74.1, testWindow(t))

		assert.Equal(t, 2, inner.calls, "empty results should not be cached")
	})

	t.Run("error", func(t *testing.T) {
		inner := &countingProvider{err: errors.New("boom")}
		cached := NewCachedProvider(inner, 10, observability.NewMetricsForTesting())

		_, err := cached.FetchDaily(context.Background(), 4.6, -74.1, testWindow(t))
		require.Error(t, err)
		_, _ = cached.FetchDaily(context.Background(), 4.6, -74.1, testWindow(t))

		assert.Equal(t, 2, inner.calls)
	})
}

// --- lruCache tests ---

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)
	c.put("a", domain.DailySeries{"20230101": {}})
	c.put("b", domain.DailySeries{"20230102": {}})
	c.put("c", domain.DailySeries{"20230103": {}})

	_, ok := c.get("a")
	assert.False(t, ok, "a should be evicted")
	_, ok = c.get("b")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_AccessPromotes(t *testing.T) {
	c := newLRUCache(2)
	c.put("a", domain.DailySeries{"20230101": {}})
	c.put("b", domain.DailySeries{"20230102": {}})

	c.get("a")
	c.put("c", domain.DailySeries{"20230103": {}})

	_, ok := c.get("a")
	assert.True(t, ok, "a should survive after access")
	_, ok = c.get("b")
	assert.False(t, ok, "b should be evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)
	c.put("a", domain.DailySeries{"20230101": {domain.VarWind: 1}})
	c.put("a", domain.DailySeries{"20230101": {domain.VarWind: 2}})

	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, 2.0, got["20230101"][domain.VarWind])
	assert.Equal(t, 1, c.size())
}
