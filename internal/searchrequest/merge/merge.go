// Package merge applies incoming updates onto existing records field by field.
//
// Every field follows one of four rules:
//
//   - Text: incoming empty or whitespace-only text keeps the existing value.
//   - Flag: incoming false keeps the existing value; only true propagates.
//   - Value: any other comparable field is replaced when incoming is non-zero.
//   - Time: optional timestamps are replaced when incoming is non-nil.
//
// Merges are shallow. Expanded collections are taken from the existing record
// (cloned, never shared) and must be reconciled separately. Inputs are passed
// by value and never mutated.
package merge

import (
	"slices"
	"strings"
	"time"

	"searchbridge/internal/searchrequest/models"
)

// Text keeps existing unless incoming carries non-blank text.
func Text(existing, incoming string) string {
	if strings.TrimSpace(incoming) == "" {
		return existing
	}
	return incoming
}

// Flag keeps existing unless incoming is true. An explicit false cannot be
// expressed through a merge.
func Flag(existing, incoming bool) bool {
	if !incoming {
		return existing
	}
	return incoming
}

// Value replaces existing with any non-zero incoming value.
func Value[T comparable](existing, incoming T) T {
	var zero T
	if incoming == zero {
		return existing
	}
	return incoming
}

// Time replaces existing with a non-nil incoming timestamp. The result never
// aliases incoming.
func Time(existing, incoming *time.Time) *time.Time {
	if incoming == nil {
		return existing
	}
	t := *incoming
	return &t
}

// SearchRequest merges root fields. Notes follow the Text rule here; callers
// that must preserve the stored note restore it afterwards.
func SearchRequest(existing, incoming models.SearchRequest) models.SearchRequest {
	merged := existing
	merged.ID = Value(existing.ID, incoming.ID)
	merged.SearchRequestKey = Text(existing.SearchRequestKey, incoming.SearchRequestKey)
	merged.Status = Value(existing.Status, incoming.Status)
	merged.AgencyCode = Text(existing.AgencyCode, incoming.AgencyCode)
	merged.RequestPriority = Value(existing.RequestPriority, incoming.RequestPriority)
	merged.RequestDate = Value(existing.RequestDate, incoming.RequestDate)
	merged.ApplicantFirstName = Text(existing.ApplicantFirstName, incoming.ApplicantFirstName)
	merged.ApplicantLastName = Text(existing.ApplicantLastName, incoming.ApplicantLastName)
	merged.Notes = Text(existing.Notes, incoming.Notes)
	merged.PersonSoughtFirstName = Text(existing.PersonSoughtFirstName, incoming.PersonSoughtFirstName)
	merged.PersonSoughtLastName = Text(existing.PersonSoughtLastName, incoming.PersonSoughtLastName)
	merged.PersonSoughtDateOfBirth = Time(existing.PersonSoughtDateOfBirth, incoming.PersonSoughtDateOfBirth)
	merged.CreatedByAPI = Flag(existing.CreatedByAPI, incoming.CreatedByAPI)
	merged.SendNotificationOnCreation = Flag(existing.SendNotificationOnCreation, incoming.SendNotificationOnCreation)

	merged.Persons = slices.Clone(existing.Persons)
	merged.RelatedPersons = slices.Clone(existing.RelatedPersons)
	merged.Employments = slices.Clone(existing.Employments)
	return merged
}

// Person merges person fields; sub-entity collections are carried over from existing.
func Person(existing, incoming models.Person) models.Person {
	merged := existing
	merged.ID = Value(existing.ID, incoming.ID)
	merged.SearchRequestID = Value(existing.SearchRequestID, incoming.SearchRequestID)
	merged.FirstName = Text(existing.FirstName, incoming.FirstName)
	merged.MiddleName = Text(existing.MiddleName, incoming.MiddleName)
	merged.LastName = Text(existing.LastName, incoming.LastName)
	merged.DateOfBirth = Time(existing.DateOfBirth, incoming.DateOfBirth)
	merged.DateOfDeath = Time(existing.DateOfDeath, incoming.DateOfDeath)
	merged.Gender = Text(existing.Gender, incoming.Gender)
	merged.Incarcerated = Flag(existing.Incarcerated, incoming.Incarcerated)
	merged.InformationSource = Value(existing.InformationSource, incoming.InformationSource)

	merged.Identifiers = slices.Clone(existing.Identifiers)
	merged.Addresses = slices.Clone(existing.Addresses)
	merged.Phones = slices.Clone(existing.Phones)
	merged.Names = slices.Clone(existing.Names)
	return merged
}

func RelatedPerson(existing, incoming models.RelatedPerson) models.RelatedPerson {
	merged := existing
	merged.ID = Value(existing.ID, incoming.ID)
	merged.SearchRequestID = Value(existing.SearchRequestID, incoming.SearchRequestID)
	merged.PersonID = Value(existing.PersonID, incoming.PersonID)
	merged.PersonType = Value(existing.PersonType, incoming.PersonType)
	merged.FirstName = Text(existing.FirstName, incoming.FirstName)
	merged.MiddleName = Text(existing.MiddleName, incoming.MiddleName)
	merged.LastName = Text(existing.LastName, incoming.LastName)
	merged.DateOfBirth = Time(existing.DateOfBirth, incoming.DateOfBirth)
	merged.Gender = Text(existing.Gender, incoming.Gender)
	merged.Description = Text(existing.Description, incoming.Description)
	merged.StatusCode = Value(existing.StatusCode, incoming.StatusCode)
	merged.InformationSource = Value(existing.InformationSource, incoming.InformationSource)
	return merged
}

func Employment(existing, incoming models.Employment) models.Employment {
	merged := existing
	merged.ID = Value(existing.ID, incoming.ID)
	merged.SearchRequestID = Value(existing.SearchRequestID, incoming.SearchRequestID)
	merged.PersonID = Value(existing.PersonID, incoming.PersonID)
	merged.Occupation = Text(existing.Occupation, incoming.Occupation)
	merged.Website = Text(existing.Website, incoming.Website)
	merged.AddressLine1 = Text(existing.AddressLine1, incoming.AddressLine1)
	merged.City = Text(existing.City, incoming.City)
	merged.StateProvince = Text(existing.StateProvince, incoming.StateProvince)
	merged.IncomeAssistance = Flag(existing.IncomeAssistance, incoming.IncomeAssistance)
	merged.EmploymentStatus = Value(existing.EmploymentStatus, incoming.EmploymentStatus)
	merged.EmploymentStart = Time(existing.EmploymentStart, incoming.EmploymentStart)
	merged.EmploymentEnd = Time(existing.EmploymentEnd, incoming.EmploymentEnd)
	merged.EmployerName = Text(existing.EmployerName, incoming.EmployerName)
	merged.EmployerContact = Text(existing.EmployerContact, incoming.EmployerContact)
	merged.IsDuplicated = Flag(existing.IsDuplicated, incoming.IsDuplicated)
	merged.InformationSource = Value(existing.InformationSource, incoming.InformationSource)

	merged.EmploymentContacts = slices.Clone(existing.EmploymentContacts)
	return merged
}
