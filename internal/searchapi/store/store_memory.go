// Package store holds search API request and provider policy stores.
package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"searchbridge/internal/searchapi/models"
	id "searchbridge/pkg/domain"
	"searchbridge/pkg/platform/sentinel"
)

// InMemoryStore keeps requests, events and policies in maps guarded by a
// single RWMutex. Values are cloned on the way in and out.
type InMemoryStore struct {
	mu        sync.RWMutex
	requests  map[id.SearchAPIRequestID]models.SearchAPIRequest
	order     []id.SearchAPIRequestID
	events    map[id.SearchAPIRequestID][]models.SearchAPIEvent
	providers map[string]models.DataProvider
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		requests:  make(map[id.SearchAPIRequestID]models.SearchAPIRequest),
		events:    make(map[id.SearchAPIRequestID][]models.SearchAPIEvent),
		providers: make(map[string]models.DataProvider),
	}
}

func (s *InMemoryStore) Create(_ context.Context, req models.SearchAPIRequest) (*models.SearchAPIRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ID.IsNil() {
		req.ID = id.NewSearchAPIRequestID()
	}
	if _, exists := s.requests[req.ID]; exists {
		return nil, sentinel.ErrConflict
	}
	if req.Status == "" {
		req.Status = models.StatusReadyForSearch
	}
	req = req.Clone()
	req.IsFailed = false
	s.requests[req.ID] = req
	s.order = append(s.order, req.ID)
	out := req.Clone()
	return &out, nil
}

func (s *InMemoryStore) ListByStatus(_ context.Context, status models.Status) ([]models.SearchAPIRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.SearchAPIRequest{}
	for _, reqID := range s.order {
		if req := s.requests[reqID]; req.Status == status {
			out = append(out, req.Clone())
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListFailing(_ context.Context, adaptor string, maxFailures int) ([]id.SearchAPIRequestID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []id.SearchAPIRequestID
	for _, reqID := range s.order {
		failing := slices.ContainsFunc(s.requests[reqID].DataProviders, func(a models.ProviderAttempt) bool {
			return a.AdaptorName == adaptor && a.NumberOfFailures > 0 && a.NumberOfFailures < maxFailures
		})
		if failing {
			out = append(out, reqID)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, requestID id.SearchAPIRequestID) (*models.SearchAPIRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := req.Clone()
	return &out, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, requestID id.SearchAPIRequestID, status models.Status) (*models.SearchAPIRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	req.Status = status
	s.requests[requestID] = req
	out := req.Clone()
	return &out, nil
}

func (s *InMemoryStore) AddEvent(_ context.Context, evt models.SearchAPIEvent) (*models.SearchAPIEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[evt.SearchAPIRequestID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	if evt.ID.IsNil() {
		evt.ID = id.NewRecordID()
	}
	s.events[evt.SearchAPIRequestID] = append(s.events[evt.SearchAPIRequestID], evt)
	return &evt, nil
}

// Events returns the events recorded for a request in insertion order.
func (s *InMemoryStore) Events(requestID id.SearchAPIRequestID) []models.SearchAPIEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events[requestID])
}

func (s *InMemoryStore) RecordFailure(_ context.Context, requestID id.SearchAPIRequestID, adaptor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok {
		return sentinel.ErrNotFound
	}
	i := slices.IndexFunc(req.DataProviders, func(a models.ProviderAttempt) bool {
		return a.AdaptorName == adaptor
	})
	if i < 0 {
		return sentinel.ErrNotFound
	}
	req = req.Clone()
	req.DataProviders[i].NumberOfFailures++
	s.requests[requestID] = req
	return nil
}

// ListDataProviders returns policies ordered by adaptor name.
func (s *InMemoryStore) ListDataProviders(_ context.Context) ([]models.DataProvider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.DataProvider, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b models.DataProvider) int {
		return cmp.Compare(a.AdaptorName, b.AdaptorName)
	})
	return out, nil
}

func (s *InMemoryStore) UpsertDataProvider(_ context.Context, p models.DataProvider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[p.AdaptorName] = p
	return nil
}
