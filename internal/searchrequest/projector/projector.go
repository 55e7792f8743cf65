// Package projector maps inbound event payloads onto internal records. It is
// purely structural: ownership links, information sources and filtering are
// the orchestrator's job.
package projector

import "searchbridge/internal/searchrequest/models"

// SearchRequest projects the root fields of an order or update.
func SearchRequest(evt models.SearchRequestOrdered) models.SearchRequest {
	sr := models.SearchRequest{
		SearchRequestKey:   evt.SearchRequestKey,
		AgencyCode:         evt.AgencyCode,
		RequestPriority:    evt.RequestPriority,
		RequestDate:        evt.RequestDate,
		ApplicantFirstName: evt.ApplicantFirstName,
		ApplicantLastName:  evt.ApplicantLastName,
		Notes:              evt.Notes,
	}
	if evt.Person != nil {
		sr.PersonSoughtFirstName = evt.Person.FirstName
		sr.PersonSoughtLastName = evt.Person.LastName
		sr.PersonSoughtDateOfBirth = evt.Person.DateOfBirth
	}
	return sr
}

// Person projects the scalar person fields; collections are projected item by item.
func Person(p models.PersonPayload) models.Person {
	return models.Person{
		FirstName:    p.FirstName,
		MiddleName:   p.MiddleName,
		LastName:     p.LastName,
		DateOfBirth:  p.DateOfBirth,
		DateOfDeath:  p.DateOfDeath,
		Gender:       p.Gender,
		Incarcerated: p.Incarcerated,
	}
}

func Identifier(p models.IdentifierPayload) models.Identifier {
	return models.Identifier{
		Value:       p.Value,
		Type:        p.Type,
		IssuedBy:    p.IssuedBy,
		Description: p.Description,
	}
}

func Address(p models.AddressPayload) models.Address {
	return models.Address{
		AddressLine1:  p.AddressLine1,
		AddressLine2:  p.AddressLine2,
		City:          p.City,
		StateProvince: p.StateProvince,
		CountryRegion: p.CountryRegion,
		ZipPostalCode: p.ZipPostalCode,
		Category:      p.Type,
	}
}

func PhoneNumber(p models.PhonePayload) models.PhoneNumber {
	return models.PhoneNumber{
		Number:    p.PhoneNumber,
		Extension: p.Extension,
		Type:      p.Type,
	}
}

func Name(p models.NamePayload) models.Name {
	return models.Name{
		FirstName:  p.FirstName,
		MiddleName: p.MiddleName,
		LastName:   p.LastName,
		Type:       p.Type,
	}
}

// Employment flattens the employer onto the employment record.
func Employment(p models.EmploymentPayload) models.Employment {
	e := models.Employment{
		Occupation:       p.Occupation,
		Website:          p.Website,
		IncomeAssistance: p.IncomeAssistance,
		EmploymentStatus: p.EmploymentStatus,
		EmploymentStart:  p.StartDate,
		EmploymentEnd:    p.EndDate,
	}
	if p.Employer != nil {
		e.EmployerName = p.Employer.Name
		e.EmployerContact = p.Employer.ContactPerson
		e.AddressLine1 = p.Employer.AddressLine1
		e.City = p.Employer.City
		e.StateProvince = p.Employer.StateProvince
	}
	return e
}

func EmploymentContact(p models.PhonePayload) models.EmploymentContact {
	return models.EmploymentContact{
		PhoneNumber: p.PhoneNumber,
		Extension:   p.Extension,
		PhoneType:   p.Type,
	}
}

// RelatedPerson projects a related person; payloads without a type default to
// the Relation slot.
func RelatedPerson(p models.RelatedPersonPayload) models.RelatedPerson {
	personType := p.Type
	if personType == models.RelatedPersonUnspecified {
		personType = models.RelatedPersonRelation
	}
	return models.RelatedPerson{
		PersonType:  personType,
		FirstName:   p.FirstName,
		MiddleName:  p.MiddleName,
		LastName:    p.LastName,
		DateOfBirth: p.DateOfBirth,
		Gender:      p.Gender,
		Description: p.Description,
	}
}

// Applicant synthesizes the applicant slot from the root's applicant names.
func Applicant(sr models.SearchRequest) models.RelatedPerson {
	return models.RelatedPerson{
		PersonType: models.RelatedPersonApplicant,
		FirstName:  sr.ApplicantFirstName,
		LastName:   sr.ApplicantLastName,
		StatusCode: models.StatusActive,
	}
}
