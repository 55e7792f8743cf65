// Package intake accepts search request events from the message bus and the
// HTTP surface, runs them through the orchestrator and notifies listeners.
package intake

import (
	"context"
	"fmt"
	"log/slog"

	"searchbridge/internal/searchrequest/metrics"
	"searchbridge/internal/searchrequest/models"
	"searchbridge/internal/searchrequest/ports"
	"searchbridge/internal/searchrequest/service"
	"searchbridge/pkg/requestcontext"
)

//go:generate mockgen -source=processor.go -destination=mocks/mocks.go -package=mocks Orchestrator

// Orchestrator is the entry point per event kind.
type Orchestrator interface {
	ProcessOrdered(ctx context.Context, evt models.SearchRequestOrdered) (*service.Result, error)
	ProcessUpdate(ctx context.Context, evt models.SearchRequestOrdered) (*service.Result, error)
	ProcessCancel(ctx context.Context, evt models.SearchRequestOrdered) (*service.Result, error)
	ProcessPersonFound(ctx context.Context, evt models.PersonFound) (*service.Result, error)
}

// Processor runs an event and then notifies. A nil result means the request
// key was unknown; nothing is notified in that case.
type Processor struct {
	orchestrator Orchestrator
	notifier     ports.Notifier
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Processor)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

func NewProcessor(orchestrator Orchestrator, notifier ports.Notifier, opts ...Option) (*Processor, error) {
	if orchestrator == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	p := &Processor{orchestrator: orchestrator, notifier: notifier, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Processor) Ordered(ctx context.Context, evt models.SearchRequestOrdered) (*service.Result, error) {
	ctx = withEvent(ctx, evt.SearchRequestKey, evt.RequestID, models.EventOrdered)
	res, err := p.orchestrator.ProcessOrdered(ctx, evt)
	return p.after(ctx, evt.SearchRequestKey, evt, models.EventOrdered, res, err)
}

func (p *Processor) Updated(ctx context.Context, evt models.SearchRequestOrdered) (*service.Result, error) {
	ctx = withEvent(ctx, evt.SearchRequestKey, evt.RequestID, models.EventUpdated)
	res, err := p.orchestrator.ProcessUpdate(ctx, evt)
	return p.after(ctx, evt.SearchRequestKey, evt, models.EventUpdated, res, err)
}

func (p *Processor) Cancelled(ctx context.Context, evt models.SearchRequestOrdered) (*service.Result, error) {
	ctx = withEvent(ctx, evt.SearchRequestKey, evt.RequestID, models.EventCancelled)
	res, err := p.orchestrator.ProcessCancel(ctx, evt)
	return p.after(ctx, evt.SearchRequestKey, evt, models.EventCancelled, res, err)
}

func (p *Processor) PersonFound(ctx context.Context, evt models.PersonFound) (*service.Result, error) {
	ctx = withEvent(ctx, evt.SearchRequestKey, "", models.EventPersonFound)
	res, err := p.orchestrator.ProcessPersonFound(ctx, evt)
	return p.after(ctx, evt.SearchRequestKey, evt, models.EventPersonFound, res, err)
}

func (p *Processor) after(ctx context.Context, key string, payload any, event string, res *service.Result, err error) (*service.Result, error) {
	if err != nil || res == nil {
		return res, err
	}
	if nerr := p.notifier.Notify(ctx, key, payload, event); nerr != nil {
		if p.metrics != nil {
			p.metrics.IncrementNotifyFailure()
		}
		p.logger.WarnContext(ctx, "notification failed",
			"search_request_key", key,
			"event", event,
			"error", nerr,
		)
	}
	return res, nil
}

func withEvent(ctx context.Context, key, requestID, event string) context.Context {
	ctx = requestcontext.WithSearchRequestKey(ctx, key)
	ctx = requestcontext.WithEventName(ctx, event)
	if requestID != "" && requestcontext.RequestID(ctx) == "" {
		ctx = requestcontext.WithRequestID(ctx, requestID)
	}
	return ctx
}
