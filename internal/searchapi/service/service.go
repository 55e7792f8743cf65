// Package service exposes the search API request workflow: ready and retry
// queues, status transitions and provider events.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"searchbridge/internal/searchapi/metrics"
	"searchbridge/internal/searchapi/models"
	"searchbridge/internal/searchapi/retry"
	id "searchbridge/pkg/domain"
	dErrors "searchbridge/pkg/domain-errors"
	"searchbridge/pkg/platform/sentinel"
	"searchbridge/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks RequestStore,PolicySource

// RequestStore persists search API requests.
type RequestStore interface {
	// ListByStatus returns requests in status with identifiers and attempts expanded.
	ListByStatus(ctx context.Context, status models.Status) ([]models.SearchAPIRequest, error)
	// ListFailing returns ids of requests with an attempt at adaptor whose
	// failure count is above zero and below maxFailures.
	ListFailing(ctx context.Context, adaptor string, maxFailures int) ([]id.SearchAPIRequestID, error)
	// Get returns sentinel.ErrNotFound for an unknown id.
	Get(ctx context.Context, requestID id.SearchAPIRequestID) (*models.SearchAPIRequest, error)
	UpdateStatus(ctx context.Context, requestID id.SearchAPIRequestID, status models.Status) (*models.SearchAPIRequest, error)
	AddEvent(ctx context.Context, evt models.SearchAPIEvent) (*models.SearchAPIEvent, error)
	// RecordFailure increments the failure count of the request's attempt at adaptor.
	RecordFailure(ctx context.Context, requestID id.SearchAPIRequestID, adaptor string) error
}

// PolicySource lists the current provider policies. List may serve a cached
// copy; Refresh always reads the durable store.
type PolicySource interface {
	List(ctx context.Context) ([]models.DataProvider, error)
	Refresh(ctx context.Context) ([]models.DataProvider, error)
}

type Service struct {
	store    RequestStore
	policies PolicySource
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
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

func New(store RequestStore, policies PolicySource, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("search api request store is required")
	}
	if policies == nil {
		return nil, fmt.Errorf("policy source is required")
	}
	s := &Service{
		store:    store,
		policies: policies,
		logger:   slog.Default(),
		tracer:   otel.Tracer("searchbridge/internal/searchapi/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetAllReadyForSearch returns every request waiting in the ready queue.
func (s *Service) GetAllReadyForSearch(ctx context.Context) ([]models.SearchAPIRequest, error) {
	requests, err := s.store.ListByStatus(ctx, models.StatusReadyForSearch)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list ready search api requests")
	}
	ready := retry.ReadyForSearch(requests)
	if s.metrics != nil {
		s.metrics.AddSelected("ready", len(ready))
	}
	return ready, nil
}

// GetAllValidFailed returns, per provider policy, every request whose attempt
// at that provider is still inside the retry window. Each result is
// normalized to the policy's current retry parameters and marked failed.
func (s *Service) GetAllValidFailed(ctx context.Context) (out []models.SearchAPIRequest, err error) {
	ctx, span := s.tracer.Start(ctx, "searchapi.valid_failed")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("search_api.selected", len(out)))
		span.End()
	}()

	policies, err := s.policies.Refresh(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to refresh data providers")
	}

	out = []models.SearchAPIRequest{}
	for _, p := range policies {
		ids, err := s.store.ListFailing(ctx, p.AdaptorName, p.NumberOfDaysToRetry)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list failing search api requests")
		}
		for _, reqID := range ids {
			req, err := s.store.Get(ctx, reqID)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					continue
				}
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read search api request")
			}
			// the query and the read are not atomic
			if !retry.HasEligibleAttempt(p, *req) {
				continue
			}
			out = append(out, retry.Normalize(p, *req))
		}
	}

	if s.metrics != nil {
		s.metrics.AddSelected("retry", len(out))
	}
	s.logger.InfoContext(ctx, "valid failed search api requests selected",
		"providers", len(policies),
		"selected", len(out),
	)
	return out, nil
}

func (s *Service) GetDataProviders(ctx context.Context) ([]models.DataProvider, error) {
	policies, err := s.policies.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list data providers")
	}
	return policies, nil
}

func (s *Service) GetLinkedSearchRequestID(ctx context.Context, requestID id.SearchAPIRequestID) (id.SearchRequestID, error) {
	if err := requireID(requestID); err != nil {
		return id.SearchRequestID{}, err
	}
	req, err := s.store.Get(ctx, requestID)
	if err != nil {
		return id.SearchRequestID{}, translate(err, "failed to read search api request")
	}
	return req.SearchRequestID, nil
}

func (s *Service) MarkInProgress(ctx context.Context, requestID id.SearchAPIRequestID) (*models.SearchAPIRequest, error) {
	return s.transition(ctx, requestID, models.StatusInProgress)
}

func (s *Service) MarkComplete(ctx context.Context, requestID id.SearchAPIRequestID) (*models.SearchAPIRequest, error) {
	return s.transition(ctx, requestID, models.StatusComplete)
}

func (s *Service) transition(ctx context.Context, requestID id.SearchAPIRequestID, status models.Status) (*models.SearchAPIRequest, error) {
	if err := requireID(requestID); err != nil {
		return nil, err
	}
	req, err := s.store.UpdateStatus(ctx, requestID, status)
	if err != nil {
		return nil, translate(err, "failed to update search api request status")
	}
	s.logger.InfoContext(ctx, "search api request status changed",
		"search_api_request_id", requestID.String(),
		"status", string(status),
	)
	return req, nil
}

// AddEvent records a provider outcome. Retryable failures also count
// against the request's attempt at that provider.
func (s *Service) AddEvent(ctx context.Context, requestID id.SearchAPIRequestID, evt models.SearchAPIEvent) (*models.SearchAPIEvent, error) {
	if err := requireID(requestID); err != nil {
		return nil, err
	}
	if evt.ProviderName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "provider name is required")
	}
	if !evt.Type.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown event type")
	}
	evt.SearchAPIRequestID = requestID
	if evt.TimeStamp.IsZero() {
		evt.TimeStamp = requestcontext.Now(ctx)
	}

	stored, err := s.store.AddEvent(ctx, evt)
	if err != nil {
		return nil, translate(err, "failed to add search api event")
	}

	if evt.Type == models.EventSearchFailed && (evt.FailureCategory == "" || evt.FailureCategory.Retryable()) {
		if err := s.store.RecordFailure(ctx, requestID, evt.ProviderName); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, translate(err, "failed to record provider failure")
		}
	}
	return stored, nil
}

// requireID rejects nil ids before any store call.
func requireID(requestID id.SearchAPIRequestID) error {
	if requestID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "search api request id is required")
	}
	return nil
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "search api request not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
