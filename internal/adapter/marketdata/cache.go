package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// QuoteCache stores quotes for a bounded time so repeated lookups of the same
// symbol don't hammer the upstream service.
type QuoteCache interface {
	Get(ctx context.Context, symbol string) (Quote, bool, error)
	Set(ctx context.Context, symbol string, q Quote) error
}

// MemoryQuoteCache is an in-process TTL cache
type MemoryQuoteCache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	quote   Quote
	fetched time.Time
}

// NewMemoryQuoteCache creates an in-process cache with the given TTL.
func NewMemoryQuoteCache(ttl time.Duration) *MemoryQuoteCache {
	return &MemoryQuoteCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryQuoteCache) Get(_ context.Context, symbol string) (Quote, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[symbol]
	if !ok || time.Since(e.fetched) >= c.ttl {
		return Quote{}, false, nil
	}
	return e.quote, true, nil
}

func (c *MemoryQuoteCache) Set(_ context.Context, symbol string, q Quote) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[symbol] = memoryEntry{quote: q, fetched: time.Now()}
	return nil
}

// RedisQuoteCache stores quotes in Redis as JSON values with a TTL, so
// several instances share one quote budget against the upstream service.
type RedisQuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisQuoteCache creates a Redis-backed quote cache.
func NewRedisQuoteCache(client *redis.Client, ttl time.Duration) *RedisQuoteCache {
	return &RedisQuoteCache{client: client, ttl: ttl}
}

func quoteKey(symbol string) string {
	return fmt.Sprintf("quote:%s", symbol)
}

func (c *RedisQuoteCache) Get(ctx context.Context, symbol string) (Quote, bool, error) {
	data, err := c.client.Get(ctx, quoteKey(symbol)).Bytes()
	if err == redis.Nil {
		return Quote{}, false, nil
	}
	if err != nil {
		return Quote{}, false, err
	}

	var q Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return Quote{}, false, err
	}
	return q, true, nil
}

func (c *RedisQuoteCache) Set(ctx context.Context, symbol string, q Quote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, quoteKey(symbol), data, c.ttl).Err()
}

// CachedProvider wraps a live provider with a QuoteCache. Cache failures are
// ignored: the cache is an optimization, never a gate on the lookup.
type CachedProvider struct {
	provider Provider
	cache    QuoteCache
}

// NewCachedProvider wraps provider with cache.
func NewCachedProvider(provider Provider, cache QuoteCache) *CachedProvider {
	return &CachedProvider{provider: provider, cache: cache}
}

func (p *CachedProvider) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, ErrQuoteNotFound
	}

	if q, ok, err := p.cache.Get(ctx, symbol); err == nil && ok {
		return q, nil
	}

	q, err := p.provider.GetQuote(ctx, symbol)
	if err != nil {
		return Quote{}, err
	}

	_ = p.cache.Set(ctx, symbol, q)
	return q, nil
}
