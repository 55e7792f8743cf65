package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"searchbridge/internal/platform/config"
	"searchbridge/internal/platform/kafka/producer"
	"searchbridge/internal/platform/postgres"
	"searchbridge/internal/platform/redis"
	apimetrics "searchbridge/internal/searchapi/metrics"
	"searchbridge/internal/searchapi/policy"
	apiservice "searchbridge/internal/searchapi/service"
	apistore "searchbridge/internal/searchapi/store"
	"searchbridge/internal/searchrequest/intake"
	srmetrics "searchbridge/internal/searchrequest/metrics"
	"searchbridge/internal/searchrequest/notifier"
	"searchbridge/internal/searchrequest/ports"
	srservice "searchbridge/internal/searchrequest/service"
	srstore "searchbridge/internal/searchrequest/store"
)

// searchAPIStore is what the search API side needs from one backing store.
type searchAPIStore interface {
	apiservice.RequestStore
	policy.Store
}

// app holds the wired collaborators shared by every command.
type app struct {
	cfg    config.Config
	logger *slog.Logger

	db       *sql.DB
	redis    *redis.Client
	producer *producer.Producer

	srMetrics  *srmetrics.Metrics
	apiMetrics *apimetrics.Metrics

	processor *intake.Processor
	catalog   *policy.Catalog
	searchAPI *apiservice.Service
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{
		cfg:        cfg,
		logger:     logger,
		srMetrics:  srmetrics.New(),
		apiMetrics: apimetrics.New(),
	}
	if err := a.wire(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	var (
		requestStore ports.SearchRequestStore
		apiStore     searchAPIStore
	)
	switch a.cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, a.cfg.Database.URL, postgres.Options{
			MaxOpenConns:    a.cfg.Database.MaxOpenConns,
			MaxIdleConns:    a.cfg.Database.MaxIdleConns,
			ConnMaxLifetime: a.cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		a.db = db
		if err := postgres.Migrate(ctx, db, a.logger); err != nil {
			return err
		}
		requestStore = srstore.NewPostgres(db)
		apiStore = apistore.NewPostgres(db)
	default:
		a.logger.Warn("using in-memory stores; data is lost on restart")
		requestStore = srstore.NewInMemory()
		apiStore = apistore.NewInMemory()
	}

	redisClient, err := redis.New(ctx, a.cfg.Redis)
	if err != nil {
		return err
	}
	a.redis = redisClient

	if a.cfg.KafkaEnabled() {
		p, err := producer.New(a.cfg.Kafka.Brokers)
		if err != nil {
			return err
		}
		a.producer = p
	}

	orchestrator, err := srservice.New(requestStore,
		srservice.WithLogger(a.logger),
		srservice.WithMetrics(a.srMetrics),
	)
	if err != nil {
		return err
	}
	n, err := a.notifier()
	if err != nil {
		return err
	}
	a.processor, err = intake.NewProcessor(orchestrator, n,
		intake.WithLogger(a.logger),
		intake.WithMetrics(a.srMetrics),
	)
	if err != nil {
		return err
	}

	a.catalog, err = policy.NewCatalog(apiStore,
		policy.WithCache(a.redis.Raw(), a.cfg.Retry.PolicyCacheTTL),
		policy.WithLogger(a.logger),
		policy.WithMetrics(a.apiMetrics),
	)
	if err != nil {
		return err
	}
	if path := a.cfg.Retry.ProviderPolicyFile; path != "" {
		if _, err := a.catalog.LoadSeed(ctx, path); err != nil {
			return fmt.Errorf("seed provider policies: %w", err)
		}
	}

	a.searchAPI, err = apiservice.New(apiStore, a.catalog,
		apiservice.WithLogger(a.logger),
		apiservice.WithMetrics(a.apiMetrics),
	)
	return err
}

func (a *app) notifier() (ports.Notifier, error) {
	if a.cfg.Notifier != config.NotifierKafka {
		return notifier.Noop{}, nil
	}
	return notifier.NewKafka(a.producer, a.cfg.Kafka.TopicPrefix+notifier.DefaultTopic,
		notifier.WithLogger(a.logger),
	)
}

func (a *app) close() {
	if a.producer != nil {
		a.producer.Close()
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("failed to close redis", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close postgres", "error", err)
		}
	}
}
