// Package notifier forwards processed search request events to downstream
// listeners. Delivery is best effort.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"searchbridge/pkg/platform/circuit"
	"searchbridge/pkg/requestcontext"
)

// ErrCircuitOpen is returned while the breaker is refusing deliveries.
var ErrCircuitOpen = errors.New("notification circuit open")

// DefaultTopic is the notification topic before any deployment prefix.
const DefaultTopic = "search-request.notifications"

// Noop drops every notification.
type Noop struct{}

func (Noop) Notify(context.Context, string, any, string) error { return nil }

// Publisher writes a record to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Envelope is the notification body.
type Envelope struct {
	SearchRequestKey string `json:"searchRequestKey"`
	EventName        string `json:"eventName"`
	RequestID        string `json:"requestId,omitempty"`
	Payload          any    `json:"payload"`
}

// KafkaNotifier publishes notifications keyed by search request key so all
// events of one request land on the same partition.
type KafkaNotifier struct {
	publisher Publisher
	topic     string
	breaker   *circuit.Breaker
	logger    *slog.Logger
}

type Option func(*KafkaNotifier)

func WithLogger(logger *slog.Logger) Option {
	return func(n *KafkaNotifier) {
		n.logger = logger
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(n *KafkaNotifier) {
		n.breaker = b
	}
}

func NewKafka(publisher Publisher, topic string, opts ...Option) (*KafkaNotifier, error) {
	if publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("notification topic is required")
	}
	n := &KafkaNotifier{
		publisher: publisher,
		topic:     topic,
		breaker:   circuit.New("notifier"),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

func (n *KafkaNotifier) Notify(ctx context.Context, searchRequestKey string, payload any, eventName string) error {
	if !n.breaker.Allow() {
		return ErrCircuitOpen
	}
	body, err := json.Marshal(Envelope{
		SearchRequestKey: searchRequestKey,
		EventName:        eventName,
		RequestID:        requestcontext.RequestID(ctx),
		Payload:          payload,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	err = n.publisher.Publish(ctx, n.topic, []byte(searchRequestKey), body, map[string]string{"event": eventName})
	if err != nil {
		if _, change := n.breaker.RecordFailure(); change.Opened {
			n.logger.WarnContext(ctx, "notification circuit opened", "topic", n.topic)
		}
		return err
	}
	if _, change := n.breaker.RecordSuccess(); change.Closed {
		n.logger.InfoContext(ctx, "notification circuit closed", "topic", n.topic)
	}
	return nil
}
