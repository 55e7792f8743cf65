package service

import (
	"context"
	"slices"
	"strings"

	"searchbridge/internal/searchrequest/match"
	"searchbridge/internal/searchrequest/merge"
	"searchbridge/internal/searchrequest/models"
	"searchbridge/internal/searchrequest/projector"
	id "searchbridge/pkg/domain"
	dErrors "searchbridge/pkg/domain-errors"
)

// ProcessUpdate merges an update order into the stored aggregate. It returns
// (nil, nil) when no request has the key. Failures of single-record writes
// propagate; creation sub-flows report per-item failures in the summary.
func (s *Service) ProcessUpdate(ctx context.Context, evt models.SearchRequestOrdered) (res *Result, err error) {
	if err := requireKey(evt.SearchRequestKey); err != nil {
		return nil, err
	}

	ctx, finish := s.begin(ctx, models.EventUpdated, evt.SearchRequestKey)
	defer func() { finish(res, err) }()

	f := &flow{event: models.EventUpdated, key: evt.SearchRequestKey, source: models.SourceRequest}

	existing, err := s.loadExisting(ctx, f)
	if err != nil || existing == nil {
		return nil, err
	}

	incoming := projector.SearchRequest(evt)
	if err := s.updateRoot(ctx, f, *existing, incoming); err != nil {
		return nil, err
	}
	if err := s.recordNoteChange(ctx, f, existing.Notes, incoming.Notes); err != nil {
		return nil, err
	}

	var payload models.PersonPayload
	if evt.Person != nil {
		payload = *evt.Person
		if err := s.updatePersonSought(ctx, f, existing, projector.Person(payload)); err != nil {
			return nil, err
		}
	}

	if err := s.reconcileRelation(ctx, f, existing.RelatedPersons, projectRelated(payload.RelatedPersons)); err != nil {
		return nil, err
	}
	if err := s.reconcileApplicant(ctx, f, existing.RelatedPersons); err != nil {
		return nil, err
	}
	if err := s.reconcileEmployment(ctx, f, existing.Employments, payload.Employments); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "search request updated",
		"search_request_key", f.key,
		"search_request_id", f.root.ID.String(),
		"uploads_succeeded", f.uploads.Succeeded,
		"uploads_failed", len(f.uploads.Failures),
	)
	return f.result(), nil
}

// updateRoot persists the merged root. The stored note is never overwritten
// here; changes to it are recorded as note history instead.
func (s *Service) updateRoot(ctx context.Context, f *flow, existing, incoming models.SearchRequest) error {
	merged := merge.SearchRequest(existing, incoming)
	merged.Notes = existing.Notes

	updated, err := s.store.UpdateSearchRequest(ctx, merged.WithoutCollections())
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update search request")
	}
	root := *updated
	f.root = &root
	return nil
}

// recordNoteChange stores a note history entry when incoming carries
// non-blank text that differs case-insensitively from the stored note.
func (s *Service) recordNoteChange(ctx context.Context, f *flow, stored, incoming string) error {
	if strings.TrimSpace(incoming) == "" || strings.EqualFold(stored, incoming) {
		return nil
	}
	_, err := s.store.CreateNotes(ctx, models.Note{
		SearchRequestID:   f.root.ID,
		Description:       incoming,
		StatusCode:        models.StatusActive,
		InformationSource: f.source,
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create note")
	}
	return nil
}

// updatePersonSought merges into the original sought person. A missing
// person is left absent; updates never create one.
func (s *Service) updatePersonSought(ctx context.Context, f *flow, existing *models.SearchRequest, incoming models.Person) error {
	current, ok := match.PersonSought(existing)
	if !ok {
		s.logger.InfoContext(ctx, "person sought not found, skipping person update",
			"search_request_key", f.key,
		)
		return nil
	}
	merged := merge.Person(current, incoming)
	updated, err := s.store.UpdatePerson(ctx, merged)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update person")
	}
	f.person = updated
	f.root.Persons = append(f.root.Persons, *updated)
	return nil
}

// reconcileRelation fills the Relation slot. With no slot every incoming
// related person is created; with a slot only the first is merged into it.
func (s *Service) reconcileRelation(ctx context.Context, f *flow, existing []models.RelatedPerson, incoming []models.RelatedPerson) error {
	current, ok := match.RelatedPerson(existing, models.RelatedPersonRelation)
	if !ok {
		return s.createRelatedPersons(ctx, f, incoming)
	}
	if len(incoming) == 0 {
		return nil
	}
	return s.mergeRelatedPerson(ctx, f, current, incoming[0])
}

// reconcileApplicant fills the Applicant slot from the root's applicant names.
func (s *Service) reconcileApplicant(ctx context.Context, f *flow, existing []models.RelatedPerson) error {
	applicant := projector.Applicant(*f.root)
	current, ok := match.RelatedPerson(existing, models.RelatedPersonApplicant)
	if !ok {
		if strings.TrimSpace(applicant.FirstName) == "" && strings.TrimSpace(applicant.LastName) == "" {
			return nil
		}
		return s.createRelatedPerson(ctx, f, CollectionRelatedPersons, 0, applicant)
	}
	return s.mergeRelatedPerson(ctx, f, current, applicant)
}

func (s *Service) mergeRelatedPerson(ctx context.Context, f *flow, current, incoming models.RelatedPerson) error {
	merged := merge.RelatedPerson(current, incoming)
	if merged == current {
		return nil
	}
	updated, err := s.store.UpdateRelatedPerson(ctx, merged)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update related person")
	}
	f.root.RelatedPersons = append(f.root.RelatedPersons, *updated)
	return nil
}

// reconcileEmployment supersedes the current employment: the merge of current
// and the first incoming employment is created as a new record carrying the
// employer phones, and the previous record is kept, flagged duplicated. With
// no current employment the creation sub-flow runs.
func (s *Service) reconcileEmployment(ctx context.Context, f *flow, existing []models.Employment, incoming []models.EmploymentPayload) error {
	if len(incoming) == 0 {
		return nil
	}
	current, ok := match.Employment(existing)
	if !ok {
		return s.createEmployments(ctx, f, incoming)
	}

	next := merge.Employment(current, projector.Employment(incoming[0]))
	next.ID = id.EmploymentID{}
	next.IsDuplicated = false
	next.EmploymentContacts = nil
	created, err := s.store.CreateEmployment(ctx, next)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create superseding employment")
	}

	superseded := current
	superseded.IsDuplicated = true
	superseded.EmploymentContacts = nil
	flagged, err := s.store.UpdateEmployment(ctx, superseded)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to flag superseded employment")
	}
	flagged.EmploymentContacts = slices.Clone(current.EmploymentContacts)

	if employer := incoming[0].Employer; employer != nil {
		if created, err = s.createEmploymentContacts(ctx, f, *created, employer.Phones); err != nil {
			return err
		}
	}
	f.root.Employments = append(f.root.Employments, *flagged, *created)
	return nil
}
