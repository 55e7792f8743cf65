package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"searchbridge/internal/searchapi/metrics"
	"searchbridge/internal/searchapi/models"
	"searchbridge/internal/searchapi/service/mocks"
	id "searchbridge/pkg/domain"
	dErrors "searchbridge/pkg/domain-errors"
	"searchbridge/pkg/platform/sentinel"
	"searchbridge/pkg/requestcontext"
)

// =============================================================================
// Search API Service Test Suite
// =============================================================================

type ServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	store    *mocks.MockRequestStore
	policies *mocks.MockPolicySource
	metrics  *metrics.Metrics
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockRequestStore(s.ctrl)
	s.policies = mocks.NewMockPolicySource(s.ctrl)
	s.metrics = metrics.NewWith(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var err error
	s.service, err = New(s.store, s.policies, WithLogger(logger), WithMetrics(s.metrics))
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func failingRequest(adaptor string, failures int) models.SearchAPIRequest {
	return models.SearchAPIRequest{
		ID:              id.NewSearchAPIRequestID(),
		SearchRequestID: id.NewSearchRequestID(),
		Status:          models.StatusInProgress,
		DataProviders: []models.ProviderAttempt{
			{AdaptorName: adaptor, NumberOfFailures: failures, TimeBetweenRetries: 1, NumberOfRetries: 1},
		},
	}
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *ServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil, s.policies)
		s.Error(err)
		s.Contains(err.Error(), "search api request store is required")
	})

	s.Run("nil policy source returns error", func() {
		_, err := New(s.store, nil)
		s.Error(err)
		s.Contains(err.Error(), "policy source is required")
	})
}

// =============================================================================
// Ready Queue Tests
// =============================================================================

func (s *ServiceSuite) TestGetAllReadyForSearch() {
	s.Run("returns ready requests with failed flag cleared", func() {
		ready := models.SearchAPIRequest{ID: id.NewSearchAPIRequestID(), Status: models.StatusReadyForSearch, IsFailed: true}
		s.store.EXPECT().ListByStatus(gomock.Any(), models.StatusReadyForSearch).
			Return([]models.SearchAPIRequest{ready}, nil)

		got, err := s.service.GetAllReadyForSearch(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(ready.ID, got[0].ID)
		s.False(got[0].IsFailed)
		s.InDelta(1, testutil.ToFloat64(s.metrics.RequestsSelected.WithLabelValues("ready")), 0)
	})

	s.Run("store error is internal", func() {
		s.store.EXPECT().ListByStatus(gomock.Any(), models.StatusReadyForSearch).
			Return(nil, errors.New("db down"))

		_, err := s.service.GetAllReadyForSearch(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// =============================================================================
// Retry Queue Tests
// =============================================================================

func (s *ServiceSuite) TestGetAllValidFailed() {
	policy := models.DataProvider{AdaptorName: "ICBC", NumberOfDaysToRetry: 3, TimeBetweenRetries: 60, NumberOfRetries: 5}

	s.Run("fetches each failing request and normalizes it to the policy", func() {
		req := failingRequest("ICBC", 1)
		s.policies.EXPECT().Refresh(gomock.Any()).Return([]models.DataProvider{policy}, nil)
		s.store.EXPECT().ListFailing(gomock.Any(), "ICBC", 3).Return([]id.SearchAPIRequestID{req.ID}, nil)
		s.store.EXPECT().Get(gomock.Any(), req.ID).Return(&req, nil)

		got, err := s.service.GetAllValidFailed(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.True(got[0].IsFailed)
		s.Equal(60, got[0].DataProviders[0].TimeBetweenRetries)
		s.Equal(5, got[0].DataProviders[0].NumberOfRetries)
		s.Equal(1, req.DataProviders[0].TimeBetweenRetries, "stored request must not be mutated")
	})

	s.Run("request that left the window between query and read is skipped", func() {
		req := failingRequest("ICBC", 3)
		s.policies.EXPECT().Refresh(gomock.Any()).Return([]models.DataProvider{policy}, nil)
		s.store.EXPECT().ListFailing(gomock.Any(), "ICBC", 3).Return([]id.SearchAPIRequestID{req.ID}, nil)
		s.store.EXPECT().Get(gomock.Any(), req.ID).Return(&req, nil)

		got, err := s.service.GetAllValidFailed(s.ctx)
		s.Require().NoError(err)
		s.Empty(got)
	})

	s.Run("deleted request is skipped", func() {
		reqID := id.NewSearchAPIRequestID()
		s.policies.EXPECT().Refresh(gomock.Any()).Return([]models.DataProvider{policy}, nil)
		s.store.EXPECT().ListFailing(gomock.Any(), "ICBC", 3).Return([]id.SearchAPIRequestID{reqID}, nil)
		s.store.EXPECT().Get(gomock.Any(), reqID).Return(nil, sentinel.ErrNotFound)

		got, err := s.service.GetAllValidFailed(s.ctx)
		s.Require().NoError(err)
		s.NotNil(got)
		s.Empty(got)
	})

	s.Run("request failing at two providers appears once per provider", func() {
		other := models.DataProvider{AdaptorName: "MSP", NumberOfDaysToRetry: 2}
		req := failingRequest("ICBC", 1)
		req.DataProviders = append(req.DataProviders, models.ProviderAttempt{AdaptorName: "MSP", NumberOfFailures: 1})
		s.policies.EXPECT().Refresh(gomock.Any()).Return([]models.DataProvider{policy, other}, nil)
		s.store.EXPECT().ListFailing(gomock.Any(), "ICBC", 3).Return([]id.SearchAPIRequestID{req.ID}, nil)
		s.store.EXPECT().ListFailing(gomock.Any(), "MSP", 2).Return([]id.SearchAPIRequestID{req.ID}, nil)
		s.store.EXPECT().Get(gomock.Any(), req.ID).Return(&req, nil).Times(2)

		got, err := s.service.GetAllValidFailed(s.ctx)
		s.Require().NoError(err)
		s.Len(got, 2)
	})

	s.Run("policies are read fresh, never from the cache", func() {
		updated := policy
		updated.NumberOfRetries = 9
		req := failingRequest("ICBC", 1)
		s.policies.EXPECT().List(gomock.Any()).Times(0)
		s.policies.EXPECT().Refresh(gomock.Any()).Return([]models.DataProvider{updated}, nil)
		s.store.EXPECT().ListFailing(gomock.Any(), "ICBC", 3).Return([]id.SearchAPIRequestID{req.ID}, nil)
		s.store.EXPECT().Get(gomock.Any(), req.ID).Return(&req, nil)

		got, err := s.service.GetAllValidFailed(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(9, got[0].DataProviders[0].NumberOfRetries)
	})

	s.Run("policy source error is internal", func() {
		s.policies.EXPECT().Refresh(gomock.Any()).Return(nil, errors.New("cache down"))

		_, err := s.service.GetAllValidFailed(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("query error is internal", func() {
		s.policies.EXPECT().Refresh(gomock.Any()).Return([]models.DataProvider{policy}, nil)
		s.store.EXPECT().ListFailing(gomock.Any(), "ICBC", 3).Return(nil, errors.New("db down"))

		_, err := s.service.GetAllValidFailed(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// =============================================================================
// Status Transition Tests
// =============================================================================

func (s *ServiceSuite) TestTransitions() {
	s.Run("nil id is rejected before any store call", func() {
		_, err := s.service.MarkInProgress(s.ctx, id.SearchAPIRequestID{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.MarkComplete(s.ctx, id.SearchAPIRequestID{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.GetLinkedSearchRequestID(s.ctx, id.SearchAPIRequestID{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("mark complete updates status", func() {
		reqID := id.NewSearchAPIRequestID()
		s.store.EXPECT().UpdateStatus(gomock.Any(), reqID, models.StatusComplete).
			Return(&models.SearchAPIRequest{ID: reqID, Status: models.StatusComplete}, nil)

		got, err := s.service.MarkComplete(s.ctx, reqID)
		s.Require().NoError(err)
		s.Equal(models.StatusComplete, got.Status)
	})

	s.Run("unknown id is not found", func() {
		reqID := id.NewSearchAPIRequestID()
		s.store.EXPECT().UpdateStatus(gomock.Any(), reqID, models.StatusInProgress).
			Return(nil, sentinel.ErrNotFound)

		_, err := s.service.MarkInProgress(s.ctx, reqID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("linked search request id", func() {
		req := failingRequest("ICBC", 1)
		s.store.EXPECT().Get(gomock.Any(), req.ID).Return(&req, nil)

		got, err := s.service.GetLinkedSearchRequestID(s.ctx, req.ID)
		s.Require().NoError(err)
		s.Equal(req.SearchRequestID, got)
	})
}

// =============================================================================
// Event Tests
// =============================================================================

func (s *ServiceSuite) TestAddEvent() {
	reqID := id.NewSearchAPIRequestID()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(s.ctx, now)

	s.Run("nil id is rejected", func() {
		_, err := s.service.AddEvent(ctx, id.SearchAPIRequestID{}, models.SearchAPIEvent{ProviderName: "ICBC", Type: models.EventSearchAccepted})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("missing provider and unknown type are rejected", func() {
		_, err := s.service.AddEvent(ctx, reqID, models.SearchAPIEvent{Type: models.EventSearchAccepted})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.AddEvent(ctx, reqID, models.SearchAPIEvent{ProviderName: "ICBC", Type: "Bogus"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("accepted event is stored with request id and timestamp", func() {
		s.store.EXPECT().AddEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, evt models.SearchAPIEvent) (*models.SearchAPIEvent, error) {
				s.Equal(reqID, evt.SearchAPIRequestID)
				s.Equal(now, evt.TimeStamp)
				return &evt, nil
			})

		_, err := s.service.AddEvent(ctx, reqID, models.SearchAPIEvent{ProviderName: "ICBC", Type: models.EventSearchAccepted})
		s.NoError(err)
	})

	s.Run("retryable failure counts against the provider", func() {
		s.store.EXPECT().AddEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, evt models.SearchAPIEvent) (*models.SearchAPIEvent, error) {
				return &evt, nil
			})
		s.store.EXPECT().RecordFailure(gomock.Any(), reqID, "ICBC").Return(nil)

		_, err := s.service.AddEvent(ctx, reqID, models.SearchAPIEvent{
			ProviderName: "ICBC", Type: models.EventSearchFailed, FailureCategory: models.FailureTimeout,
		})
		s.NoError(err)
	})

	s.Run("non-retryable failure does not count", func() {
		s.store.EXPECT().AddEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, evt models.SearchAPIEvent) (*models.SearchAPIEvent, error) {
				return &evt, nil
			})

		_, err := s.service.AddEvent(ctx, reqID, models.SearchAPIEvent{
			ProviderName: "ICBC", Type: models.EventSearchFailed, FailureCategory: models.FailureBadData,
		})
		s.NoError(err)
	})

	s.Run("failure against a provider never attempted is tolerated", func() {
		s.store.EXPECT().AddEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, evt models.SearchAPIEvent) (*models.SearchAPIEvent, error) {
				return &evt, nil
			})
		s.store.EXPECT().RecordFailure(gomock.Any(), reqID, "MSP").Return(sentinel.ErrNotFound)

		_, err := s.service.AddEvent(ctx, reqID, models.SearchAPIEvent{ProviderName: "MSP", Type: models.EventSearchFailed})
		s.NoError(err)
	})
}
