package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"searchbridge/internal/searchrequest/models"
	id "searchbridge/pkg/domain"
)

func TestPersonSought(t *testing.T) {
	orderPerson := models.Person{ID: id.NewPersonID(), FirstName: "Sam", LastName: "Sought", InformationSource: models.SourceRequest}
	providerPerson := models.Person{ID: id.NewPersonID(), FirstName: "Sam", LastName: "Sought", InformationSource: models.ProviderSource("ICBC")}

	t.Run("nil root has no match", func(t *testing.T) {
		_, ok := PersonSought(nil)
		assert.False(t, ok)
	})

	t.Run("ignores provider-found persons with the same names", func(t *testing.T) {
		sr := &models.SearchRequest{
			PersonSoughtFirstName: "Sam",
			PersonSoughtLastName:  "Sought",
			Persons:               []models.Person{providerPerson, orderPerson},
		}
		got, ok := PersonSought(sr)
		assert.True(t, ok)
		assert.Equal(t, orderPerson.ID, got.ID)
	})

	t.Run("names must match the stored person-sought names", func(t *testing.T) {
		sr := &models.SearchRequest{
			PersonSoughtFirstName: "Other",
			PersonSoughtLastName:  "Sought",
			Persons:               []models.Person{orderPerson},
		}
		_, ok := PersonSought(sr)
		assert.False(t, ok)
	})
}

func TestRelatedPerson(t *testing.T) {
	applicant := models.RelatedPerson{ID: id.NewRecordID(), PersonType: models.RelatedPersonApplicant, InformationSource: models.SourceRequest}
	providerRelation := models.RelatedPerson{ID: id.NewRecordID(), PersonType: models.RelatedPersonRelation, InformationSource: models.ProviderSource("BCHydro")}
	relation := models.RelatedPerson{ID: id.NewRecordID(), PersonType: models.RelatedPersonRelation, InformationSource: models.SourceRequest}

	existing := []models.RelatedPerson{applicant, providerRelation}

	_, ok := RelatedPerson(existing, models.RelatedPersonRelation)
	assert.False(t, ok, "provider relation must not occupy the order relation slot")

	got, ok := RelatedPerson(existing, models.RelatedPersonApplicant)
	assert.True(t, ok)
	assert.Equal(t, applicant.ID, got.ID)

	got, ok = RelatedPerson(append(existing, relation), models.RelatedPersonRelation)
	assert.True(t, ok)
	assert.Equal(t, relation.ID, got.ID)
}

func TestEmployment(t *testing.T) {
	providerEmployment := models.Employment{ID: id.NewEmploymentID(), InformationSource: models.ProviderSource("WorkSafe")}
	first := models.Employment{ID: id.NewEmploymentID(), InformationSource: models.SourceRequest}
	second := models.Employment{ID: id.NewEmploymentID(), InformationSource: models.SourceRequest}

	_, ok := Employment(nil)
	assert.False(t, ok)

	got, ok := Employment([]models.Employment{providerEmployment, first, second})
	assert.True(t, ok)
	assert.Equal(t, first.ID, got.ID, "first match wins")
}

func TestEmployment_SkipsSupersededRecords(t *testing.T) {
	superseded := models.Employment{ID: id.NewEmploymentID(), InformationSource: models.SourceRequest, IsDuplicated: true}
	current := models.Employment{ID: id.NewEmploymentID(), InformationSource: models.SourceRequest}

	got, ok := Employment([]models.Employment{superseded, current})
	assert.True(t, ok)
	assert.Equal(t, current.ID, got.ID)

	_, ok = Employment([]models.Employment{superseded})
	assert.False(t, ok, "only superseded records means no current employment")
}
