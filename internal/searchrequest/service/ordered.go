package service

import (
	"context"
	"errors"

	"searchbridge/internal/searchrequest/models"
	"searchbridge/internal/searchrequest/projector"
	dErrors "searchbridge/pkg/domain-errors"
	"searchbridge/pkg/platform/sentinel"
)

// ProcessOrdered creates the aggregate for a new order. Failing to store the
// root or the sought person aborts the flow; sub-entity failures are reported
// in the result's upload summary.
func (s *Service) ProcessOrdered(ctx context.Context, evt models.SearchRequestOrdered) (res *Result, err error) {
	if err := requireKey(evt.SearchRequestKey); err != nil {
		return nil, err
	}
	if evt.Person == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "person sought is required")
	}

	ctx, finish := s.begin(ctx, models.EventOrdered, evt.SearchRequestKey)
	defer func() { finish(res, err) }()

	f := &flow{event: models.EventOrdered, key: evt.SearchRequestKey, source: models.SourceRequest}

	sr := projector.SearchRequest(evt)
	sr.Status = models.SearchRequestOpen
	sr.CreatedByAPI = true
	sr.SendNotificationOnCreation = true
	root, err := s.store.CreateSearchRequest(ctx, sr)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "search request key already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create search request")
	}
	f.root = root

	if err := s.savePerson(ctx, f, projector.Person(*evt.Person)); err != nil {
		return nil, err
	}

	if err := s.uploadPersonRecords(ctx, f, *evt.Person, ownedBySought); err != nil {
		return nil, err
	}
	if err := s.createEmployments(ctx, f, evt.Person.Employments); err != nil {
		return nil, err
	}
	if err := s.createRelatedPersons(ctx, f, projectRelated(evt.Person.RelatedPersons)); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "search request created",
		"search_request_key", f.key,
		"search_request_id", root.ID.String(),
		"uploads_succeeded", f.uploads.Succeeded,
		"uploads_failed", len(f.uploads.Failures),
	)
	return f.result(), nil
}

// savePerson stores p as the flow's person, linked to the root.
func (s *Service) savePerson(ctx context.Context, f *flow, p models.Person) error {
	p.SearchRequestID = f.root.ID
	p.InformationSource = f.source
	stored, err := s.store.SavePerson(ctx, p)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save person")
	}
	f.person = stored
	f.root.Persons = append(f.root.Persons, *stored)
	return nil
}

// currentPerson returns the flow's person as stored on the root so uploads
// can attach their records to it.
func (f *flow) currentPerson() *models.Person {
	for i := range f.root.Persons {
		if f.root.Persons[i].ID == f.person.ID {
			return &f.root.Persons[i]
		}
	}
	return f.person
}

// uploadPersonRecords stores the identifiers, addresses, phones and names of
// payload whose owner passes keep. Names carry no owner and are always kept.
func (s *Service) uploadPersonRecords(ctx context.Context, f *flow, payload models.PersonPayload, keep func(models.OwnerType) bool) error {
	p := f.currentPerson()

	for i, item := range payload.Identifiers {
		if !keep(item.Owner) {
			continue
		}
		rec := projector.Identifier(item)
		rec.SearchRequestID, rec.PersonID, rec.InformationSource = f.root.ID, p.ID, f.source
		err := s.upload(ctx, f, CollectionIdentifiers, i, func(ctx context.Context) error {
			stored, err := s.store.CreateIdentifier(ctx, rec)
			if err == nil {
				p.Identifiers = append(p.Identifiers, *stored)
			}
			return err
		})
		if err != nil {
			return err
		}
	}

	for i, item := range payload.Addresses {
		if !keep(item.Owner) {
			continue
		}
		rec := projector.Address(item)
		rec.SearchRequestID, rec.PersonID, rec.InformationSource = f.root.ID, p.ID, f.source
		err := s.upload(ctx, f, CollectionAddresses, i, func(ctx context.Context) error {
			stored, err := s.store.CreateAddress(ctx, rec)
			if err == nil {
				p.Addresses = append(p.Addresses, *stored)
			}
			return err
		})
		if err != nil {
			return err
		}
	}

	for i, item := range payload.Phones {
		if !keep(item.Owner) {
			continue
		}
		rec := projector.PhoneNumber(item)
		rec.SearchRequestID, rec.PersonID, rec.InformationSource = f.root.ID, p.ID, f.source
		err := s.upload(ctx, f, CollectionPhones, i, func(ctx context.Context) error {
			stored, err := s.store.CreatePhoneNumber(ctx, rec)
			if err == nil {
				p.Phones = append(p.Phones, *stored)
			}
			return err
		})
		if err != nil {
			return err
		}
	}

	for i, item := range payload.Names {
		rec := projector.Name(item)
		rec.SearchRequestID, rec.PersonID, rec.InformationSource = f.root.ID, p.ID, f.source
		err := s.upload(ctx, f, CollectionNames, i, func(ctx context.Context) error {
			stored, err := s.store.CreateName(ctx, rec)
			if err == nil {
				p.Names = append(p.Names, *stored)
			}
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// createEmployments stores each employment and then its employer's phones.
// Contacts of an employment that failed to store are skipped.
func (s *Service) createEmployments(ctx context.Context, f *flow, payloads []models.EmploymentPayload) error {
	for i, item := range payloads {
		rec := projector.Employment(item)
		rec.SearchRequestID, rec.InformationSource = f.root.ID, f.source
		if f.person != nil {
			rec.PersonID = f.person.ID
		}

		var stored *models.Employment
		err := s.upload(ctx, f, CollectionEmployments, i, func(ctx context.Context) error {
			var err error
			stored, err = s.store.CreateEmployment(ctx, rec)
			return err
		})
		if err != nil {
			return err
		}
		if stored == nil {
			continue
		}

		if item.Employer != nil {
			if stored, err = s.createEmploymentContacts(ctx, f, *stored, item.Employer.Phones); err != nil {
				return err
			}
		}
		f.root.Employments = append(f.root.Employments, *stored)
	}
	return nil
}

// createEmploymentContacts links each employer phone to e and returns e with
// the stored contacts attached.
func (s *Service) createEmploymentContacts(ctx context.Context, f *flow, e models.Employment, phones []models.PhonePayload) (*models.Employment, error) {
	for i, phone := range phones {
		rec := projector.EmploymentContact(phone)
		rec.EmploymentID = e.ID
		err := s.upload(ctx, f, CollectionEmploymentContacts, i, func(ctx context.Context) error {
			stored, err := s.store.CreateEmploymentContact(ctx, rec)
			if err == nil {
				e.EmploymentContacts = append(e.EmploymentContacts, *stored)
			}
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return &e, nil
}

func (s *Service) createRelatedPersons(ctx context.Context, f *flow, related []models.RelatedPerson) error {
	for i, rp := range related {
		if err := s.createRelatedPerson(ctx, f, CollectionRelatedPersons, i, rp); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) createRelatedPerson(ctx context.Context, f *flow, c Collection, index int, rp models.RelatedPerson) error {
	rp.SearchRequestID, rp.InformationSource = f.root.ID, f.source
	if f.person != nil {
		rp.PersonID = f.person.ID
	}
	if rp.StatusCode == models.StatusUnspecified {
		rp.StatusCode = models.StatusActive
	}
	return s.upload(ctx, f, c, index, func(ctx context.Context) error {
		stored, err := s.store.CreateRelatedPerson(ctx, rp)
		if err == nil {
			f.root.RelatedPersons = append(f.root.RelatedPersons, *stored)
		}
		return err
	})
}

func projectRelated(payloads []models.RelatedPersonPayload) []models.RelatedPerson {
	out := make([]models.RelatedPerson, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, projector.RelatedPerson(p))
	}
	return out
}
