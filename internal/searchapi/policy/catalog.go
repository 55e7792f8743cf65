// Package policy serves provider retry policies, optionally cached in Redis.
package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"searchbridge/internal/searchapi/metrics"
	"searchbridge/internal/searchapi/models"
)

const cacheKey = "searchbridge:provider_policies"

// Store is the durable source of provider policies.
type Store interface {
	ListDataProviders(ctx context.Context) ([]models.DataProvider, error)
	UpsertDataProvider(ctx context.Context, p models.DataProvider) error
}

// Catalog lists provider policies. With a Redis client configured, the full
// list is cached as one JSON value and invalidated on upsert. Cache errors
// fall through to the store.
type Catalog struct {
	store   Store
	cache   *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Catalog)

// WithCache enables Redis caching for ttl. A nil client leaves caching off.
func WithCache(client *redis.Client, ttl time.Duration) Option {
	return func(c *Catalog) {
		c.cache = client
		c.ttl = ttl
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Catalog) {
		c.metrics = m
	}
}

func NewCatalog(store Store, opts ...Option) (*Catalog, error) {
	if store == nil {
		return nil, fmt.Errorf("policy store is required")
	}
	c := &Catalog{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *Catalog) List(ctx context.Context) ([]models.DataProvider, error) {
	if c.cache != nil {
		if cached, ok := c.fromCache(ctx); ok {
			return cached, nil
		}
	}

	return c.Refresh(ctx)
}

// Refresh reads the policies from the store, skipping the cache, and
// rewrites the cached list.
func (c *Catalog) Refresh(ctx context.Context) ([]models.DataProvider, error) {
	policies, err := c.store.ListDataProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list data providers: %w", err)
	}

	if c.cache != nil {
		c.toCache(ctx, policies)
	}
	return policies, nil
}

// Upsert stores p and drops the cached list.
func (c *Catalog) Upsert(ctx context.Context, p models.DataProvider) error {
	if p.AdaptorName == "" {
		return fmt.Errorf("adaptor name is required")
	}
	if err := c.store.UpsertDataProvider(ctx, p); err != nil {
		return fmt.Errorf("upsert data provider %s: %w", p.AdaptorName, err)
	}
	if c.cache != nil {
		if err := c.cache.Del(ctx, cacheKey).Err(); err != nil {
			c.logger.WarnContext(ctx, "failed to invalidate provider policy cache", "error", err)
		}
	}
	return nil
}

func (c *Catalog) fromCache(ctx context.Context) ([]models.DataProvider, bool) {
	raw, err := c.cache.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		c.observe("miss")
		return nil, false
	}
	if err != nil {
		c.observe("error")
		c.logger.WarnContext(ctx, "provider policy cache read failed", "error", err)
		return nil, false
	}
	var policies []models.DataProvider
	if err := json.Unmarshal(raw, &policies); err != nil {
		c.observe("error")
		c.logger.WarnContext(ctx, "provider policy cache entry is corrupt", "error", err)
		return nil, false
	}
	c.observe("hit")
	return policies, true
}

func (c *Catalog) toCache(ctx context.Context, policies []models.DataProvider) {
	raw, err := json.Marshal(policies)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "provider policy cache write failed", "error", err)
	}
}

func (c *Catalog) observe(result string) {
	if c.metrics != nil {
		c.metrics.IncrementPolicyCache(result)
	}
}
