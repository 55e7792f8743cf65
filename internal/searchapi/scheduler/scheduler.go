// Package scheduler periodically scans the ready and retry queues and
// dispatches each selected search API request to Kafka.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"searchbridge/internal/searchapi/metrics"
	"searchbridge/internal/searchapi/models"
	"searchbridge/pkg/requestcontext"
)

// Source selects the requests to dispatch.
type Source interface {
	GetAllReadyForSearch(ctx context.Context) ([]models.SearchAPIRequest, error)
	GetAllValidFailed(ctx context.Context) ([]models.SearchAPIRequest, error)
}

// Publisher writes one record to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Topics names the dispatch topics.
type Topics struct {
	Ready string
	Retry string
}

func DefaultTopics(prefix string) Topics {
	return Topics{
		Ready: prefix + "search-api-request.ready",
		Retry: prefix + "search-api-request.retry",
	}
}

func (t Topics) All() []string {
	return []string{t.Ready, t.Retry}
}

// ScanResult counts what one scan selected and dispatched.
type ScanResult struct {
	Ready      int `json:"ready"`
	Retry      int `json:"retry"`
	Dispatched int `json:"dispatched"`
	Failed     int `json:"failed"`
}

type Scheduler struct {
	source    Source
	publisher Publisher
	topics    Topics
	logger    *slog.Logger
	metrics   *metrics.Metrics
	timeout   time.Duration
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithScanTimeout bounds each scheduled scan.
func WithScanTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

func New(source Source, publisher Publisher, topics Topics, opts ...Option) (*Scheduler, error) {
	if source == nil {
		return nil, fmt.Errorf("request source is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	s := &Scheduler{
		source:    source,
		publisher: publisher,
		topics:    topics,
		logger:    slog.Default(),
		timeout:   5 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Scan dispatches every ready request and every retry-eligible failed
// request. Publish failures are counted and skipped; only a failed
// selection aborts the scan.
func (s *Scheduler) Scan(ctx context.Context) (ScanResult, error) {
	var result ScanResult

	ready, err := s.source.GetAllReadyForSearch(ctx)
	if err != nil {
		s.observeScan("error")
		return result, fmt.Errorf("select ready requests: %w", err)
	}
	failed, err := s.source.GetAllValidFailed(ctx)
	if err != nil {
		s.observeScan("error")
		return result, fmt.Errorf("select failed requests: %w", err)
	}
	result.Ready = len(ready)
	result.Retry = len(failed)

	for _, batch := range []struct {
		queue    string
		topic    string
		requests []models.SearchAPIRequest
	}{
		{"ready", s.topics.Ready, ready},
		{"retry", s.topics.Retry, failed},
	} {
		for _, req := range batch.requests {
			if err := ctx.Err(); err != nil {
				s.observeScan("cancelled")
				return result, err
			}
			if err := s.dispatch(ctx, batch.topic, req); err != nil {
				result.Failed++
				s.observeDispatch(batch.queue, "error")
				s.logger.ErrorContext(ctx, "failed to dispatch search api request",
					"search_api_request_id", req.ID.String(),
					"queue", batch.queue,
					"error", err,
				)
				continue
			}
			result.Dispatched++
			s.observeDispatch(batch.queue, "ok")
		}
	}

	s.observeScan("ok")
	s.logger.InfoContext(ctx, "search api scan complete",
		"ready", result.Ready,
		"retry", result.Retry,
		"dispatched", result.Dispatched,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *Scheduler) dispatch(ctx context.Context, topic string, req models.SearchAPIRequest) error {
	value, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal search api request: %w", err)
	}
	headers := map[string]string{
		"search_request_id": req.SearchRequestID.String(),
		"is_failed":         strconv.FormatBool(req.IsFailed),
	}
	return s.publisher.Publish(ctx, topic, []byte(req.ID.String()), value, headers)
}

// Run scans on schedule (standard five-field cron syntax) until ctx is
// cancelled, then waits for a running scan to finish. Overlapping runs are
// skipped.
func (s *Scheduler) Run(ctx context.Context, schedule string) error {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return fmt.Errorf("invalid retry scan schedule %q: %w", schedule, err)
	}

	logger := cronLogger{s.logger}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	))
	c.Schedule(sched, cron.FuncJob(func() {
		scanCtx, cancel := context.WithTimeout(requestcontext.WithTime(ctx, time.Now()), s.timeout)
		defer cancel()
		if _, err := s.Scan(scanCtx); err != nil {
			s.logger.ErrorContext(scanCtx, "scheduled search api scan failed", "error", err)
		}
	}))

	c.Start()
	s.logger.InfoContext(ctx, "search api scheduler started", "schedule", schedule)
	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("search api scheduler stopped")
	return nil
}

func (s *Scheduler) observeScan(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementScan(outcome)
	}
}

func (s *Scheduler) observeDispatch(queue, outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementDispatched(queue, outcome)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
