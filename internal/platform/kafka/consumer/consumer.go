// Package consumer runs a Kafka consumer group and hands each record to a
// Handler.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the transport-neutral view of a consumed record.
type Message struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Partition int32
	Offset    int64
	Timestamp time.Time
}

// Handler processes a single message. A returned error is logged; whether the
// record is committed or redelivered depends on the consumer's retry
// classifier.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

type Config struct {
	Brokers []string
	Group   string
	Topics  []string
}

const defaultRetryBackoff = time.Second

type Consumer struct {
	client    *kgo.Client
	handler   Handler
	logger    *slog.Logger
	retryable func(error) bool
	backoff   time.Duration
}

type Option func(*Consumer)

// WithRetryable sets the classifier for handler errors. Records failing with
// a retryable error are left uncommitted and fetched again; all other failures
// are committed. Without a classifier every handler error is retryable.
func WithRetryable(fn func(error) bool) Option {
	return func(c *Consumer) {
		if fn != nil {
			c.retryable = fn
		}
	}
}

// WithRetryBackoff sets the pause before a rewound partition is fetched again.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Consumer) {
		if d > 0 {
			c.backoff = d
		}
	}
}

func New(cfg Config, handler Handler, logger *slog.Logger, opts ...Option) (*Consumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	c := &Consumer{
		client:    client,
		handler:   handler,
		logger:    logger,
		retryable: func(error) bool { return true },
		backoff:   defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.logger.ErrorContext(ctx, "kafka fetch failed",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		var records []*kgo.Record
		fetches.EachRecord(func(r *kgo.Record) {
			records = append(records, r)
		})
		if len(records) == 0 {
			continue
		}
		commit, rewind := settle(records, func(r *kgo.Record) error {
			return c.handle(ctx, r)
		}, c.retryable)
		if len(commit) > 0 {
			if err := c.client.CommitRecords(ctx, commit...); err != nil && ctx.Err() == nil {
				c.logger.ErrorContext(ctx, "kafka commit failed", "error", err)
			}
		}
		if len(rewind) > 0 {
			c.client.SetOffsets(rewind)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.backoff):
			}
		}
	}
}

func (c *Consumer) handle(ctx context.Context, r *kgo.Record) error {
	msg := toMessage(r)
	err := c.handler.Handle(ctx, msg)
	if err != nil {
		c.logger.ErrorContext(ctx, "message handler failed",
			"topic", msg.Topic,
			"key", string(msg.Key),
			"offset", msg.Offset,
			"error", err,
		)
	}
	return err
}

// settle handles records in fetch order and splits them into the records to
// commit and the partitions to rewind. The first retryable failure in a
// partition stops that partition: the failed record and everything after it
// stay uncommitted and the partition is rewound to the failed offset.
func settle(records []*kgo.Record, handle func(*kgo.Record) error, retryable func(error) bool) ([]*kgo.Record, map[string]map[int32]kgo.EpochOffset) {
	var commit []*kgo.Record
	rewind := make(map[string]map[int32]kgo.EpochOffset)
	for _, r := range records {
		if _, stopped := rewind[r.Topic][r.Partition]; stopped {
			continue
		}
		if err := handle(r); err != nil && retryable(err) {
			if rewind[r.Topic] == nil {
				rewind[r.Topic] = make(map[int32]kgo.EpochOffset)
			}
			rewind[r.Topic][r.Partition] = kgo.EpochOffset{Epoch: r.LeaderEpoch, Offset: r.Offset}
			continue
		}
		commit = append(commit, r)
	}
	return commit, rewind
}

func (c *Consumer) Close() {
	c.client.Close()
}

func toMessage(r *kgo.Record) *Message {
	headers := make(map[string]string, len(r.Headers))
	for _, h := range r.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &Message{
		Topic:     r.Topic,
		Key:       r.Key,
		Value:     r.Value,
		Headers:   headers,
		Partition: r.Partition,
		Offset:    r.Offset,
		Timestamp: r.Timestamp,
	}
}
