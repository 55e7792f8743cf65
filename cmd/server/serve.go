package main

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"searchbridge/internal/platform/httpserver"
	"searchbridge/internal/platform/kafka/admin"
	"searchbridge/internal/platform/kafka/consumer"
	"searchbridge/internal/platform/metrics"
	apihandler "searchbridge/internal/searchapi/handler"
	"searchbridge/internal/searchapi/scheduler"
	srhandler "searchbridge/internal/searchrequest/handler"
	"searchbridge/internal/searchrequest/intake"
	"searchbridge/internal/searchrequest/notifier"
	httptransport "searchbridge/internal/transport/http"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the Kafka intake consumer and the retry scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	checks := map[string]httptransport.HealthCheck{}
	if a.db != nil {
		checks["postgres"] = a.db.PingContext
	}
	if a.redis != nil {
		checks["redis"] = a.redis.Health
	}
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:  log,
		Metrics: metrics.New(),
		Handlers: []httptransport.Registrar{
			srhandler.New(a.processor, log),
			apihandler.New(a.searchAPI, log),
		},
		Checks: checks,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Serve(gctx, srv, cfg.ShutdownTimeout, log)
	})

	if cfg.KafkaEnabled() {
		intakeTopics := intake.DefaultTopics(cfg.Kafka.TopicPrefix)
		dispatchTopics := scheduler.DefaultTopics(cfg.Kafka.TopicPrefix)
		topics := append(intakeTopics.All(), dispatchTopics.All()...)
		topics = append(topics, cfg.Kafka.TopicPrefix+notifier.DefaultTopic)
		if err := admin.EnsureTopics(ctx, cfg.Kafka.Brokers, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor, log, topics...); err != nil {
			return err
		}

		intakeRouter, err := intake.NewRouter(a.processor, intakeTopics, log)
		if err != nil {
			return err
		}
		c, err := consumer.New(consumer.Config{
			Brokers: cfg.Kafka.Brokers,
			Group:   cfg.Kafka.Group,
			Topics:  intakeTopics.All(),
		}, intakeRouter, log, consumer.WithRetryable(intake.Retryable))
		if err != nil {
			return err
		}
		defer c.Close()
		g.Go(func() error {
			return c.Run(gctx)
		})

		sched, err := scheduler.New(a.searchAPI, a.producer, dispatchTopics,
			scheduler.WithLogger(log),
			scheduler.WithMetrics(a.apiMetrics),
			scheduler.WithScanTimeout(cfg.Retry.ScanTimeout),
		)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return sched.Run(gctx, cfg.Retry.ScanSchedule)
		})
	} else {
		log.Warn("no kafka brokers configured; intake consumer and retry scheduler are disabled")
	}

	log.Info("searchbridge started", "addr", cfg.Addr, "store", cfg.StoreDriver)
	return g.Wait()
}
