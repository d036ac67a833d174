package arkio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCacheTTL is the lifetime of cached responses when none is configured.
const DefaultCacheTTL = 5 * time.Minute

// DefaultCacheSize bounds the number of entries held by a memory cache.
const DefaultCacheSize = 1000

// Cache is a response cache backend.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheEntry is a cached response body.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry is past its expiry time.
func (e *CacheEntry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// CacheOptions are common options applied to any backend.
type CacheOptions struct {
	TTL     time.Duration
	MaxSize int
	// KeyPrefix namespaces keys in shared backends such as Redis and NATS.
	KeyPrefix string
}

// DefaultCacheOptions returns default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:       DefaultCacheTTL,
		MaxSize:   DefaultCacheSize,
		KeyPrefix: "arkio",
	}
}

// MemoryCache is an in-process cache bounded by entry count. When full, the
// oldest inserted entry is evicted.
type MemoryCache struct {
	mu      sync.RWMutex
	maxSize int
	entries map[string]*CacheEntry
	order   []string
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	return &MemoryCache{
		maxSize: maxSize,
		entries: make(map[string]*CacheEntry),
	}
}

// Get returns the entry stored under key.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}

	if entry.Expired() {
		_ = c.Delete(ctx, key)

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores entry under key.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.order) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}

		c.order = append(c.order, key)
	}

	c.entries[key] = entry

	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(key)

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*CacheEntry)
	c.order = nil

	return nil
}

// Has reports whether a live entry is stored under key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]

	return ok && !entry.Expired()
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Cleanup removes expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.Expired() {
			c.remove(key)
		}
	}
}

func (c *MemoryCache) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}

	delete(c.entries, key)

	for i, candidate := range c.order {
		if candidate == key {
			c.order = append(c.order[:i], c.order[i+1:]...)

			break
		}
	}
}

// CacheStats counts cache manager activity.
type CacheStats struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// GetHitRate returns hits over lookups, or 0 before any lookup.
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CacheManager wraps a backend with key derivation, TTL handling and stats.
type CacheManager struct {
	cache   Cache
	options *CacheOptions

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// NewCacheManager creates a manager over cache. Nil options use
// DefaultCacheOptions; a nil cache disables caching.
func NewCacheManager(cache Cache, options *CacheOptions) *CacheManager {
	if options == nil {
		options = DefaultCacheOptions()
	}

	if cache == nil {
		cache = NewNoOpCache()
	}

	return &CacheManager{
		cache:   cache,
		options: options,
	}
}

// GetCacheKey derives a key from the operation, path and parameters.
// Parameters are sorted so equal requests map to the same key.
func (m *CacheManager) GetCacheKey(operation, path string, params map[string]string) string {
	if len(params) == 0 {
		return operation + ":" + path
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	return operation + ":" + path + ":" + strings.Join(pairs, "&")
}

// HashKey maps an arbitrary key to a fixed-length key safe for every backend.
func (m *CacheManager) HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return m.options.KeyPrefix + "." + hex.EncodeToString(sum[:])
}

// Get returns the cached data stored under key.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.misses.Add(1)

		return nil, fmt.Errorf("cache get: %w", err)
	}

	if entry.Expired() {
		m.misses.Add(1)
		_ = m.cache.Delete(ctx, key)

		return nil, fmt.Errorf("cache get: %w", ErrCacheEntryExpired)
	}

	m.hits.Add(1)

	return entry.Data, nil
}

// Set stores data under key for ttl, or the configured TTL when ttl is zero.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.SetWithETag(ctx, key, data, "", ttl)
}

// SetWithETag stores data and its ETag under key.
func (m *CacheManager) SetWithETag(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.options.TTL
	}

	err := m.cache.Set(ctx, key, &CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
		ETag:      etag,
	})
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	m.sets.Add(1)

	return nil
}

// GetStats returns a snapshot of the manager counters.
func (m *CacheManager) GetStats() *CacheStats {
	return &CacheStats{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
		Sets:   m.sets.Load(),
	}
}

// CachingPolicy decides which operations may be served from the cache.
type CachingPolicy struct {
	Operations map[string]bool
}

// Operation names reported to interceptors, metrics and caching policies.
const (
	OperationAuthenticate            = "authenticate"
	OperationUserInformation         = "user_information"
	OperationSearchContacts          = "search_contacts"
	OperationSearchContactsByCompany = "search_contacts_by_company"
	OperationContact                 = "contact"
	OperationCompanyStatistics       = "company_statistics"
	OperationSearchCompanies         = "search_companies"
)

// DefaultCachingPolicy caches searches and company statistics. Account
// requests and contact purchases are never cached.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		Operations: map[string]bool{
			OperationSearchContacts:          true,
			OperationSearchContactsByCompany: true,
			OperationCompanyStatistics:       true,
			OperationSearchCompanies:         true,
		},
	}
}

// ShouldCache reports whether a response to operation may be cached.
func (p *CachingPolicy) ShouldCache(operation string) bool {
	if p == nil {
		return false
	}

	switch operation {
	case OperationAuthenticate, OperationUserInformation, OperationContact:
		return false
	}

	return p.Operations[operation]
}
