// Package match finds the existing sub-entity an incoming record should merge
// into, using business identity rather than primary keys. The first match wins.
package match

import "searchbridge/internal/searchrequest/models"

// PersonSought finds the order-channel person whose names equal the
// person-sought names stored on the root.
func PersonSought(sr *models.SearchRequest) (models.Person, bool) {
	if sr == nil {
		return models.Person{}, false
	}
	for _, p := range sr.Persons {
		if p.FirstName == sr.PersonSoughtFirstName &&
			p.LastName == sr.PersonSoughtLastName &&
			p.InformationSource == models.SourceRequest {
			return p, true
		}
	}
	return models.Person{}, false
}

// RelatedPerson finds the order-channel related person occupying role.
func RelatedPerson(existing []models.RelatedPerson, role models.RelatedPersonType) (models.RelatedPerson, bool) {
	for _, rp := range existing {
		if rp.InformationSource == models.SourceRequest && rp.PersonType == role {
			return rp, true
		}
	}
	return models.RelatedPerson{}, false
}

// Employment finds the current order-channel employment. Records superseded
// by an earlier update are flagged duplicated and never match.
func Employment(existing []models.Employment) (models.Employment, bool) {
	for _, e := range existing {
		if e.InformationSource == models.SourceRequest && !e.IsDuplicated {
			return e, true
		}
	}
	return models.Employment{}, false
}
