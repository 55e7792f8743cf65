// Package service drives the search request aggregate through its creation,
// update, cancellation and person-found flows against the record store.
//
// Every call is independent: per-flow state lives in a flow value threaded
// through the steps, so one Service is safe for concurrent use. Sibling
// uploads are issued sequentially so parents are always stored before their
// children.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"searchbridge/internal/searchrequest/metrics"
	"searchbridge/internal/searchrequest/models"
	"searchbridge/internal/searchrequest/ports"
	dErrors "searchbridge/pkg/domain-errors"
	"searchbridge/pkg/platform/sentinel"
)

const tracerName = "searchbridge/internal/searchrequest/service"

// Service orchestrates upserts of the search request aggregate.
type Service struct {
	store   ports.SearchRequestStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(store ports.SearchRequestStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("search request store is required")
	}
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Result is the outcome of a processed event. SearchRequest carries the
// records stored by the flow; Uploads reports sub-entity failures that did
// not abort it.
type Result struct {
	SearchRequest *models.SearchRequest
	Uploads       UploadSummary
}

// Collection names a sub-entity collection in an UploadSummary.
type Collection string

const (
	CollectionIdentifiers        Collection = "identifiers"
	CollectionAddresses          Collection = "addresses"
	CollectionPhones             Collection = "phones"
	CollectionNames              Collection = "names"
	CollectionEmployments        Collection = "employments"
	CollectionEmploymentContacts Collection = "employment_contacts"
	CollectionRelatedPersons     Collection = "related_persons"
)

// UploadFailure is one sub-entity that could not be stored.
type UploadFailure struct {
	Collection Collection
	Index      int
	Reason     string
}

// UploadSummary aggregates per-item upload results for a flow.
type UploadSummary struct {
	Succeeded int
	Failures  []UploadFailure
}

// OK reports whether every attempted upload succeeded.
func (u UploadSummary) OK() bool { return len(u.Failures) == 0 }

// Failed reports whether any item in collection c failed.
func (u UploadSummary) Failed(c Collection) bool {
	for _, f := range u.Failures {
		if f.Collection == c {
			return true
		}
	}
	return false
}

// flow is the state of one event as it moves through the steps.
type flow struct {
	event  string
	key    string
	source models.InformationSource
	root   *models.SearchRequest
	person *models.Person

	uploads UploadSummary
}

func (f *flow) result() *Result {
	return &Result{SearchRequest: f.root, Uploads: f.uploads}
}

// begin opens a span and returns a finisher that records outcome metrics.
func (s *Service) begin(ctx context.Context, event, key string) (context.Context, func(res *Result, err error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "searchrequest."+strings.ToLower(event),
		trace.WithAttributes(
			attribute.String("search_request.key", key),
			attribute.String("search_request.event", event),
		))
	return ctx, func(res *Result, err error) {
		outcome := metrics.OutcomeOK
		switch {
		case err != nil:
			outcome = metrics.OutcomeError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case res == nil:
			outcome = metrics.OutcomeNotFound
		default:
			span.SetAttributes(
				attribute.Int("uploads.succeeded", res.Uploads.Succeeded),
				attribute.Int("uploads.failed", len(res.Uploads.Failures)),
			)
		}
		span.End()
		if s.metrics != nil {
			s.metrics.ObserveFlow(event, outcome, start)
		}
	}
}

// upload stores one sub-entity and records its outcome. Only context
// cancellation is returned; store failures are absorbed into the summary.
func (s *Service) upload(ctx context.Context, f *flow, c Collection, index int, store func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := store(ctx)
	if err == nil {
		f.uploads.Succeeded++
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	f.uploads.Failures = append(f.uploads.Failures, UploadFailure{
		Collection: c,
		Index:      index,
		Reason:     err.Error(),
	})
	if s.metrics != nil {
		s.metrics.IncrementUploadFailure(string(c))
	}
	s.logger.ErrorContext(ctx, "sub-entity upload failed",
		"search_request_key", f.key,
		"event", f.event,
		"collection", string(c),
		"index", index,
		"error", err,
	)
	return nil
}

// loadExisting reads the aggregate. A missing key yields (nil, nil).
func (s *Service) loadExisting(ctx context.Context, f *flow) (*models.SearchRequest, error) {
	existing, err := s.store.GetSearchRequest(ctx, f.key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.InfoContext(ctx, "search request not found",
				"search_request_key", f.key,
				"event", f.event,
			)
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read search request")
	}
	return existing, nil
}

func requireKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return dErrors.New(dErrors.CodeValidation, "search request key is required")
	}
	return nil
}

// ownedBySought reports whether an order-channel item belongs to the sought
// person. Items without an owner are treated as the sought person's.
func ownedBySought(owner models.OwnerType) bool {
	return owner == "" || owner == models.OwnerPersonSought
}
