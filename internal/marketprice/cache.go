package marketprice

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix  = "marketprice:quote:"
	defaultCacheTTL = time.Hour
)

// Cache stores lookup results by query.
type Cache interface {
	Get(ctx context.Context, query string) (*Quote, bool, error)
	Set(ctx context.Context, query string, quote *Quote) error
}

func cacheKey(query string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(query))))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at redisURL and verifies it with
// a ping.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisCache{client: client, ttl: ttl}, nil
}

func (c *redisCache) Get(ctx context.Context, query string) (*Quote, bool, error) {
	payload, err := c.client.Get(ctx, cacheKey(query)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var q Quote
	if err := json.Unmarshal(payload, &q); err != nil {
		return nil, false, fmt.Errorf("decode market price cache: %w", err)
	}
	return &q, true, nil
}

func (c *redisCache) Set(ctx context.Context, query string, quote *Quote) error {
	payload, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("encode market price cache: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(query), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

type memoryEntry struct {
	quote   Quote
	expires time.Time
}

// memoryCache keeps quotes in process memory when no Redis is configured.
type memoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryCache returns an in-process cache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &memoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (c *memoryCache) Get(_ context.Context, query string) (*Quote, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query)
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	q := e.quote
	return &q, true, nil
}

func (c *memoryCache) Set(_ context.Context, query string, quote *Quote) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(query)] = memoryEntry{quote: *quote, expires: c.now().Add(c.ttl)}
	return nil
}
