package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"searchbridge/internal/searchrequest/metrics"
	"searchbridge/internal/searchrequest/models"
	"searchbridge/internal/searchrequest/store"
)

// =============================================================================
// Flow Scenario Suite
// =============================================================================
// Justification: these scenarios assert on the records that end up stored,
// so they run against the in-memory store rather than mocks.

type FlowSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	metrics *metrics.Metrics
	service *Service
	ctx     context.Context
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowSuite))
}

func (s *FlowSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.metrics = metrics.NewWith(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var err error
	s.service, err = New(s.store, WithLogger(logger), WithMetrics(s.metrics))
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func scenarioOrder() models.SearchRequestOrdered {
	return models.SearchRequestOrdered{
		SearchRequestKey:   "SR-2001",
		AgencyCode:         "FMEP",
		ApplicantFirstName: "Ann",
		ApplicantLastName:  "Applicant",
		Notes:              "A",
		Person: &models.PersonPayload{
			FirstName: "Sam",
			LastName:  "Sought",
			Identifiers: []models.IdentifierPayload{
				{Value: "DL-1", Type: models.IdentifierDriverLicense, Owner: models.OwnerPersonSought},
				{Value: "SIN-1", Type: models.IdentifierSIN, Owner: models.OwnerPersonSought},
			},
			Addresses: []models.AddressPayload{
				{AddressLine1: "1 Main St", City: "Victoria", Owner: models.OwnerPersonSought},
			},
			Employments: []models.EmploymentPayload{{
				Occupation: "Welder",
				Employer: &models.EmployerPayload{
					Name: "Acme",
					Phones: []models.PhonePayload{
						{PhoneNumber: "250-555-0100", Type: models.PhoneWork},
						{PhoneNumber: "250-555-0101", Type: models.PhoneFax},
					},
				},
			}},
			RelatedPersons: []models.RelatedPersonPayload{
				{Type: models.RelatedPersonRelation, FirstName: "Kim", LastName: "Kin"},
			},
		},
	}
}

func (s *FlowSuite) load(key string) *models.SearchRequest {
	sr, err := s.store.GetSearchRequest(s.ctx, key)
	s.Require().NoError(err)
	return sr
}

// =============================================================================
// Creation
// =============================================================================

func (s *FlowSuite) TestCreationScenario() {
	res, err := s.service.ProcessOrdered(s.ctx, scenarioOrder())
	s.Require().NoError(err)
	s.Require().NotNil(res)
	s.True(res.Uploads.OK())

	c := s.store.CountFor(res.SearchRequest.ID)
	s.Equal(1, c.Persons)
	s.Equal(2, c.Identifiers)
	s.Equal(1, c.Addresses)
	s.Equal(0, c.Phones)
	s.Equal(1, c.Employments)
	s.Equal(2, c.EmploymentContacts)
	s.Equal(1, c.RelatedPersons)

	s.Require().Len(res.SearchRequest.Persons, 1)
	s.Len(res.SearchRequest.Persons[0].Identifiers, 2)
	s.Require().Len(res.SearchRequest.Employments, 1)
	s.Len(res.SearchRequest.Employments[0].EmploymentContacts, 2)

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.EventsProcessed.WithLabelValues(models.EventOrdered, metrics.OutcomeOK)))
}

func (s *FlowSuite) TestCreationTagsOrderChannel() {
	_, err := s.service.ProcessOrdered(s.ctx, scenarioOrder())
	s.Require().NoError(err)

	sr := s.load("SR-2001")
	s.Equal(models.SearchRequestOpen, sr.Status)
	s.Equal(models.SourceRequest, sr.Persons[0].InformationSource)
	s.Equal(models.SourceRequest, sr.Employments[0].InformationSource)
	s.Equal(models.SourceRequest, sr.RelatedPersons[0].InformationSource)
	s.Equal(models.StatusActive, sr.RelatedPersons[0].StatusCode)
}

// =============================================================================
// Update
// =============================================================================

func (s *FlowSuite) TestUpdate_NotePreservation() {
	_, err := s.service.ProcessOrdered(s.ctx, scenarioOrder())
	s.Require().NoError(err)

	_, err = s.service.ProcessUpdate(s.ctx, models.SearchRequestOrdered{SearchRequestKey: "SR-2001", Notes: "B"})
	s.Require().NoError(err)

	sr := s.load("SR-2001")
	s.Equal("A", sr.Notes)
	notes := s.store.Notes(sr.ID)
	s.Require().Len(notes, 1)
	s.Equal("B", notes[0].Description)
}

func (s *FlowSuite) TestUpdate_MergesRootWithoutRegression() {
	_, err := s.service.ProcessOrdered(s.ctx, scenarioOrder())
	s.Require().NoError(err)

	_, err = s.service.ProcessUpdate(s.ctx, models.SearchRequestOrdered{
		SearchRequestKey: "SR-2001",
		AgencyCode:       "   ",
		RequestPriority:  2,
	})
	s.Require().NoError(err)

	sr := s.load("SR-2001")
	s.Equal("FMEP", sr.AgencyCode)
	s.Equal(2, sr.RequestPriority)
	s.True(sr.CreatedByAPI)
}

func (s *FlowSuite) TestUpdate_MergesSoughtPerson() {
	_, err := s.service.ProcessOrdered(s.ctx, scenarioOrder())
	s.Require().NoError(err)

	_, err = s.service.ProcessUpdate(s.ctx, models.SearchRequestOrdered{
		SearchRequestKey: "SR-2001",
		Person:           &models.PersonPayload{FirstName: "Sam", LastName: "Sought", Gender: "F"},
	})
	s.Require().NoError(err)

	sr := s.load("SR-2001")
	s.Require().Len(sr.Persons, 1)
	s.Equal("F", sr.Persons[0].Gender)
	s.Len(sr.Persons[0].Identifiers, 2)
}

func (s *FlowSuite) TestUpdate_RelationCreatedBesideExistingApplicant() {
	order := scenarioOrder()
	order.Person.RelatedPersons = []models.RelatedPersonPayload{
		{Type: models.RelatedPersonApplicant, FirstName: "Ann", LastName: "Applicant"},
	}
	_, err := s.service.ProcessOrdered(s.ctx, order)
	s.Require().NoError(err)
	before := s.load("SR-2001")
	s.Require().Len(before.RelatedPersons, 1)
	applicant := before.RelatedPersons[0]

	_, err = s.service.ProcessUpdate(s.ctx, models.SearchRequestOrdered{
		SearchRequestKey: "SR-2001",
		Person: &models.PersonPayload{RelatedPersons: []models.RelatedPersonPayload{
			{Type: models.RelatedPersonRelation, FirstName: "Kim", LastName: "Kin"},
		}},
	})
	s.Require().NoError(err)

	after := s.load("SR-2001")
	s.Require().Len(after.RelatedPersons, 2)
	s.Equal(applicant, after.RelatedPersons[0])
	s.Equal(models.RelatedPersonRelation, after.RelatedPersons[1].PersonType)
	s.Equal("Kim", after.RelatedPersons[1].FirstName)
}

func (s *FlowSuite) TestUpdate_MergesOnlyFirstRelation() {
	_, err := s.service.ProcessOrdered(s.ctx, scenarioOrder())
	s.Require().NoError(err)

	_, err = s.service.ProcessUpdate(s.ctx, models.SearchRequestOrdered{
		SearchRequestKey: "SR-2001",
		Person: &models.PersonPayload{RelatedPersons: []models.RelatedPersonPayload{
			{Description: "sibling"},
			{FirstName: "Ignored"},
		}},
	})
	s.Require().NoError(err)

	sr := s.load("SR-2001")
	relations := 0
	for _, rp := range sr.RelatedPersons {
		if rp.PersonType == models.RelatedPersonRelation {
			relations++
			s.Equal("Kim", rp.FirstName)
			s.Equal("sibling", rp.Description)
		}
	}
	s.Equal(1, relations)
}

func (s *FlowSuite) TestUpdate_ApplicantSlotCreatedFromRootNames() {
	_, err := s.service.ProcessOrdered(s.ctx, scenarioOrder())
	s.Require().NoError(err)

	_, err = s.service.ProcessUpdate(s.ctx, models.SearchRequestOrdered{SearchRequestKey: "SR-2001"})
	s.Require().NoError(err)

	sr := s.load("SR-2001")
	var found bool
	for _, rp := range sr.RelatedPersons {
		if rp.PersonType == models.RelatedPersonApplicant {
			found = true
			s.Equal("Ann", rp.FirstName)
			s.Equal(models.StatusActive, rp.StatusCode)
		}
	}
	s.True(found)
}

func (s *FlowSuite) TestUpdate_EmploymentSupersededAndRetained() {
	_, err := s.service.ProcessOrdered(s.ctx, scenarioOrder())
	s.Require().NoError(err)

	_, err = s.service.ProcessUpdate(s.ctx, employmentUpdate("Foreman", "250-555-0199"))
	s.Require().NoError(err)

	current, superseded := splitEmployments(s.load("SR-2001").Employments)
	s.Require().Len(current, 1, "exactly one current employment")
	s.Require().Len(superseded, 1, "the replaced employment is retained")

	s.Equal("Foreman", current[0].Occupation)
	s.Equal("Acme", current[0].EmployerName, "unset incoming fields keep the stored values")
	s.Require().Len(current[0].EmploymentContacts, 1)
	s.Equal("250-555-0199", current[0].EmploymentContacts[0].PhoneNumber)

	s.Equal("Welder", superseded[0].Occupation, "the replaced record keeps its values")
	s.Len(superseded[0].EmploymentContacts, 2)
	s.NotEqual(current[0].ID, superseded[0].ID)
}

func (s *FlowSuite) TestUpdate_SecondUpdateSupersedesTheCurrentEmployment() {
	_, err := s.service.ProcessOrdered(s.ctx, scenarioOrder())
	s.Require().NoError(err)
	_, err = s.service.ProcessUpdate(s.ctx, employmentUpdate("Foreman", "250-555-0199"))
	s.Require().NoError(err)

	_, err = s.service.ProcessUpdate(s.ctx, employmentUpdate("Supervisor", ""))
	s.Require().NoError(err)

	current, superseded := splitEmployments(s.load("SR-2001").Employments)
	s.Require().Len(current, 1)
	s.Len(superseded, 2)
	s.Equal("Supervisor", current[0].Occupation)
	s.Empty(current[0].EmploymentContacts)

	var occupations []string
	for _, e := range superseded {
		occupations = append(occupations, e.Occupation)
	}
	s.ElementsMatch([]string{"Welder", "Foreman"}, occupations)
}

func employmentUpdate(occupation, employerPhone string) models.SearchRequestOrdered {
	payload := models.EmploymentPayload{Occupation: occupation}
	if employerPhone != "" {
		payload.Employer = &models.EmployerPayload{Phones: []models.PhonePayload{{PhoneNumber: employerPhone}}}
	}
	return models.SearchRequestOrdered{
		SearchRequestKey: "SR-2001",
		Person:           &models.PersonPayload{Employments: []models.EmploymentPayload{payload}},
	}
}

func splitEmployments(all []models.Employment) (current, superseded []models.Employment) {
	for _, e := range all {
		if e.IsDuplicated {
			superseded = append(superseded, e)
			continue
		}
		current = append(current, e)
	}
	return current, superseded
}

func (s *FlowSuite) TestUpdate_NotFound() {
	res, err := s.service.ProcessUpdate(s.ctx, models.SearchRequestOrdered{SearchRequestKey: "missing"})
	s.NoError(err)
	s.Nil(res)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.EventsProcessed.WithLabelValues(models.EventUpdated, metrics.OutcomeNotFound)))
}

// =============================================================================
// Cancel and Person Found
// =============================================================================

func (s *FlowSuite) TestCancel() {
	_, err := s.service.ProcessOrdered(s.ctx, scenarioOrder())
	s.Require().NoError(err)

	res, err := s.service.ProcessCancel(s.ctx, models.SearchRequestOrdered{SearchRequestKey: "SR-2001"})
	s.Require().NoError(err)
	s.Equal(models.SearchRequestCancelled, res.SearchRequest.Status)
	s.Equal(models.SearchRequestCancelled, s.load("SR-2001").Status)
}

func (s *FlowSuite) TestPersonFound_TagsProviderSource() {
	_, err := s.service.ProcessOrdered(s.ctx, scenarioOrder())
	s.Require().NoError(err)

	res, err := s.service.ProcessPersonFound(s.ctx, models.PersonFound{
		SearchRequestKey: "SR-2001",
		ProviderProfile:  models.ProviderProfile{Name: "ICBC"},
		Person: &models.PersonPayload{
			FirstName: "Samuel",
			Phones:    []models.PhonePayload{{PhoneNumber: "111", Owner: models.OwnerApplicant}},
			Names:     []models.NamePayload{{FirstName: "Sammy", Type: models.NameAlias}},
		},
	})
	s.Require().NoError(err)
	s.True(res.Uploads.OK())

	sr := s.load("SR-2001")
	s.Require().Len(sr.Persons, 2)
	found := sr.Persons[1]
	s.Equal(models.ProviderSource("ICBC"), found.InformationSource)
	s.True(found.InformationSource.IsProvider())
	s.Len(found.Phones, 1)
	s.Len(found.Names, 1)

	// a provider person never becomes the order-channel sought person
	s.Equal(models.SourceRequest, sr.Persons[0].InformationSource)
}
