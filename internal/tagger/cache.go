package tagger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// ResponseCache stores raw tagger bodies keyed by document hash.
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// MemoryCache keeps responses in process memory.
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key, value string) error {
	m.store.SetDefault(key, value)
	return nil
}

// RedisCache shares responses between processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "courtdocs:tagger:"}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, r.ttl).Err()
}

// CachedService consults a cache before calling the wrapped service.
// Cache failures are logged and never fail the call.
type CachedService struct {
	next   Service
	cache  ResponseCache
	model  string
	logger *slog.Logger
}

func NewCachedService(next Service, cache ResponseCache, model string, logger *slog.Logger) *CachedService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedService{next: next, cache: cache, model: model, logger: logger}
}

func (c *CachedService) Process(ctx context.Context, text string) (string, error) {
	key := cacheKey(c.model, text)

	if v, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("tagger.cache.get_error", "error", err)
	} else if ok {
		c.logger.Debug("tagger.cache.hit", "key", key)
		return v, nil
	}

	v, err := c.next.Process(ctx, text)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, v); err != nil {
		c.logger.Warn("tagger.cache.set_error", "error", err)
	}
	return v, nil
}

func cacheKey(model, text string) string {
	h := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(h[:])
}
