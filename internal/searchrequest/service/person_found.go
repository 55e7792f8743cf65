package service

import (
	"context"

	"searchbridge/internal/searchrequest/models"
	"searchbridge/internal/searchrequest/projector"
	dErrors "searchbridge/pkg/domain-errors"
)

// ProcessPersonFound attaches a person located by a search provider to the
// request. Every record is tagged with the provider's information source and
// every item of the payload is uploaded, whatever its owner. It returns
// (nil, nil) when no request has the key.
func (s *Service) ProcessPersonFound(ctx context.Context, evt models.PersonFound) (res *Result, err error) {
	if err := requireKey(evt.SearchRequestKey); err != nil {
		return nil, err
	}
	if evt.Person == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "found person is required")
	}
	if evt.ProviderProfile.Name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "provider profile name is required")
	}

	ctx, finish := s.begin(ctx, models.EventPersonFound, evt.SearchRequestKey)
	defer func() { finish(res, err) }()

	f := &flow{
		event:  models.EventPersonFound,
		key:    evt.SearchRequestKey,
		source: models.ProviderSource(evt.ProviderProfile.Name),
	}

	existing, err := s.loadExisting(ctx, f)
	if err != nil || existing == nil {
		return nil, err
	}
	root := existing.WithoutCollections()
	f.root = &root

	if err := s.savePerson(ctx, f, projector.Person(*evt.Person)); err != nil {
		return nil, err
	}
	keepAll := func(models.OwnerType) bool { return true }
	if err := s.uploadPersonRecords(ctx, f, *evt.Person, keepAll); err != nil {
		return nil, err
	}
	if err := s.createEmployments(ctx, f, evt.Person.Employments); err != nil {
		return nil, err
	}
	if err := s.createRelatedPersons(ctx, f, projectRelated(evt.Person.RelatedPersons)); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "found person attached",
		"search_request_key", f.key,
		"provider", evt.ProviderProfile.Name,
		"uploads_succeeded", f.uploads.Succeeded,
		"uploads_failed", len(f.uploads.Failures),
	)
	return f.result(), nil
}
