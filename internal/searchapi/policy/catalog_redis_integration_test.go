//go:build integration

package policy_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"searchbridge/internal/searchapi/metrics"
	"searchbridge/internal/searchapi/models"
	"searchbridge/internal/searchapi/policy"
	"searchbridge/internal/searchapi/store"
	"searchbridge/pkg/testutil/containers"
)

type RedisCatalogSuite struct {
	suite.Suite
	redis   *containers.RedisContainer
	store   *store.InMemoryStore
	metrics *metrics.Metrics
	catalog *policy.Catalog
}

func TestRedisCatalogSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCatalogSuite))
}

func (s *RedisCatalogSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
}

func (s *RedisCatalogSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.store = store.NewInMemory()
	s.metrics = metrics.NewWith(prometheus.NewRegistry())
	var err error
	s.catalog, err = policy.NewCatalog(s.store,
		policy.WithCache(s.redis.Client, time.Minute),
		policy.WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
}

func (s *RedisCatalogSuite) TestListIsServedFromCacheAfterFirstRead() {
	ctx := context.Background()
	s.Require().NoError(s.store.UpsertDataProvider(ctx, models.DataProvider{AdaptorName: "ICBC", NumberOfDaysToRetry: 3}))

	first, err := s.catalog.List(ctx)
	s.Require().NoError(err)
	s.Len(first, 1)

	// written behind the catalog's back, so only visible after invalidation
	s.Require().NoError(s.store.UpsertDataProvider(ctx, models.DataProvider{AdaptorName: "MSP", NumberOfDaysToRetry: 2}))

	second, err := s.catalog.List(ctx)
	s.Require().NoError(err)
	s.Equal(first, second)
	s.InDelta(1, testutil.ToFloat64(s.metrics.PolicyCache.WithLabelValues("miss")), 0)
	s.InDelta(1, testutil.ToFloat64(s.metrics.PolicyCache.WithLabelValues("hit")), 0)
}

func (s *RedisCatalogSuite) TestRefreshBypassesAndRewritesCache() {
	ctx := context.Background()
	s.Require().NoError(s.store.UpsertDataProvider(ctx, models.DataProvider{AdaptorName: "ICBC", NumberOfRetries: 2}))
	_, err := s.catalog.List(ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.store.UpsertDataProvider(ctx, models.DataProvider{AdaptorName: "ICBC", NumberOfRetries: 6}))

	fresh, err := s.catalog.Refresh(ctx)
	s.Require().NoError(err)
	s.Require().Len(fresh, 1)
	s.Equal(6, fresh[0].NumberOfRetries)

	cached, err := s.catalog.List(ctx)
	s.Require().NoError(err)
	s.Equal(fresh, cached)
	s.InDelta(1, testutil.ToFloat64(s.metrics.PolicyCache.WithLabelValues("hit")), 0)
}

func (s *RedisCatalogSuite) TestUpsertInvalidatesCache() {
	ctx := context.Background()
	s.Require().NoError(s.catalog.Upsert(ctx, models.DataProvider{AdaptorName: "ICBC", NumberOfDaysToRetry: 3}))
	_, err := s.catalog.List(ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.catalog.Upsert(ctx, models.DataProvider{AdaptorName: "ICBC", NumberOfDaysToRetry: 7}))

	got, err := s.catalog.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(7, got[0].NumberOfDaysToRetry)
}

func (s *RedisCatalogSuite) TestCacheEntryExpires() {
	ctx := context.Background()
	s.Require().NoError(s.catalog.Upsert(ctx, models.DataProvider{AdaptorName: "ICBC"}))
	_, err := s.catalog.List(ctx)
	s.Require().NoError(err)

	ttl, err := s.redis.Client.TTL(ctx, "searchbridge:provider_policies").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}
