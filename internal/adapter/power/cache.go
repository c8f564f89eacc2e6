package power

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/climate-eto-service/internal/domain"
	"github.com/couchcryptid/climate-eto-service/internal/observability"
)

// CachedProvider wraps a DailyProvider with an in-memory LRU cache keyed by
// point and window.
type CachedProvider struct {
	inner   domain.DailyProvider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a provider.
func NewCachedProvider(inner domain.DailyProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// FetchDaily returns the cached series when present. Callers must treat the
// result as read-only since it is shared between requests.
func (c *CachedProvider) FetchDaily(ctx context.Context, latitude, longitude float64, window domain.FetchWindow) (domain.DailySeries, error) {
	key := fmt.Sprintf("%.4f,%.4f|%s", latitude, longitude, window)
	if series, ok := c.cache.get(key); ok {
		c.metrics.ProviderCache.WithLabelValues("hit").Inc()
		return series, nil
	}
	c.metrics.ProviderCache.WithLabelValues("miss").Inc()

	series, err := c.inner.FetchDaily(ctx, latitude, longitude, window)
	if err != nil {
		return series, err
	}
	// Empty windows are not cached so that data published later is picked up.
	if len(series) > 0 {
		c.cache.put(key, series)
	}
	return series, nil
}

// lruCache is a thread-safe LRU cache of daily series.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.DailySeries
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.DailySeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.DailySeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
