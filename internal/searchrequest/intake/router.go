package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"searchbridge/internal/platform/kafka/consumer"
	"searchbridge/internal/searchrequest/models"
	"searchbridge/internal/searchrequest/service"
	dErrors "searchbridge/pkg/domain-errors"
	"searchbridge/pkg/requestcontext"
)

// Topics names the intake topics.
type Topics struct {
	Ordered     string
	Updated     string
	Cancelled   string
	PersonFound string
}

// DefaultTopics derives the intake topics from prefix.
func DefaultTopics(prefix string) Topics {
	return Topics{
		Ordered:     prefix + "search-request.ordered",
		Updated:     prefix + "search-request.updated",
		Cancelled:   prefix + "search-request.cancelled",
		PersonFound: prefix + "search-request.person-found",
	}
}

func (t Topics) All() []string {
	return []string{t.Ordered, t.Updated, t.Cancelled, t.PersonFound}
}

type topicHandler func(ctx context.Context, msg *consumer.Message) error

// Router dispatches consumed messages to the processor by topic.
type Router struct {
	handlers map[string]topicHandler
	logger   *slog.Logger
}

func NewRouter(p *Processor, topics Topics, logger *slog.Logger) (*Router, error) {
	if p == nil {
		return nil, fmt.Errorf("processor is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{handlers: make(map[string]topicHandler), logger: logger}
	r.handlers[topics.Ordered] = orderHandler(r, p.Ordered)
	r.handlers[topics.Updated] = orderHandler(r, p.Updated)
	r.handlers[topics.Cancelled] = orderHandler(r, p.Cancelled)
	r.handlers[topics.PersonFound] = func(ctx context.Context, msg *consumer.Message) error {
		var evt models.PersonFound
		if !r.decode(ctx, msg, &evt) {
			return nil
		}
		_, err := p.PersonFound(ctx, evt)
		return err
	}
	return r, nil
}

// Handle routes the message to its topic handler. Unknown topics and
// undecodable payloads are logged and skipped so the offset still commits.
func (r *Router) Handle(ctx context.Context, msg *consumer.Message) error {
	handler, ok := r.handlers[msg.Topic]
	if !ok {
		r.logger.WarnContext(ctx, "no handler for topic, skipping message",
			"topic", msg.Topic,
			"key", string(msg.Key),
		)
		return nil
	}
	if requestID := msg.Headers["request_id"]; requestID != "" {
		ctx = requestcontext.WithRequestID(ctx, requestID)
	}
	return handler(ctx, msg)
}

// Retryable reports whether a handler error should redeliver the message.
// Rejections of the event itself never succeed on replay and are committed;
// store faults and unclassified errors are retried.
func Retryable(err error) bool {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest,
		dErrors.CodeValidation,
		dErrors.CodeInvalidInput,
		dErrors.CodeNotFound,
		dErrors.CodeConflict,
		dErrors.CodeInvariantViolation:
		return false
	default:
		return true
	}
}

func orderHandler(r *Router, process func(context.Context, models.SearchRequestOrdered) (*service.Result, error)) topicHandler {
	return func(ctx context.Context, msg *consumer.Message) error {
		var evt models.SearchRequestOrdered
		if !r.decode(ctx, msg, &evt) {
			return nil
		}
		_, err := process(ctx, evt)
		return err
	}
}

func (r *Router) decode(ctx context.Context, msg *consumer.Message, v any) bool {
	if err := json.Unmarshal(msg.Value, v); err != nil {
		r.logger.WarnContext(ctx, "undecodable message, skipping",
			"topic", msg.Topic,
			"key", string(msg.Key),
			"offset", msg.Offset,
			"error", err,
		)
		return false
	}
	return true
}
