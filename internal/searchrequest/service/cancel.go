package service

import (
	"context"
	"errors"

	"searchbridge/internal/searchrequest/models"
	dErrors "searchbridge/pkg/domain-errors"
	"searchbridge/pkg/platform/sentinel"
)

// ProcessCancel transitions the request to cancelled. It returns (nil, nil)
// and mutates nothing when no request has the key.
func (s *Service) ProcessCancel(ctx context.Context, evt models.SearchRequestOrdered) (res *Result, err error) {
	if err := requireKey(evt.SearchRequestKey); err != nil {
		return nil, err
	}

	ctx, finish := s.begin(ctx, models.EventCancelled, evt.SearchRequestKey)
	defer func() { finish(res, err) }()

	f := &flow{event: models.EventCancelled, key: evt.SearchRequestKey, source: models.SourceRequest}

	existing, err := s.loadExisting(ctx, f)
	if err != nil || existing == nil {
		return nil, err
	}

	cancelled, err := s.store.CancelSearchRequest(ctx, f.key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.InfoContext(ctx, "search request removed before cancellation",
				"search_request_key", f.key,
			)
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to cancel search request")
	}
	f.root = cancelled

	s.logger.InfoContext(ctx, "search request cancelled",
		"search_request_key", f.key,
		"search_request_id", cancelled.ID.String(),
	)
	return f.result(), nil
}
