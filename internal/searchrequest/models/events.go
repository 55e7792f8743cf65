package models

import "time"

// Event names carried on intake topics and passed to the notifier.
const (
	EventOrdered     = "Ordered"
	EventUpdated     = "Updated"
	EventCancelled   = "Cancelled"
	EventPersonFound = "PersonFound"
)

// OwnerType says whom a payload item belongs to. Only PersonSought items are
// uploaded against the sought person.
type OwnerType string

const (
	OwnerNotApplicable  OwnerType = "NotApplicable"
	OwnerPersonSought   OwnerType = "PersonSought"
	OwnerApplicant      OwnerType = "Applicant"
	OwnerInvolvedPerson OwnerType = "InvolvedPerson"
)

// ProviderProfile names the upstream agency or search provider that sent an event.
type ProviderProfile struct {
	Name string `json:"name"`
}

// SearchRequestOrdered is the payload for Ordered, Updated and Cancelled events.
type SearchRequestOrdered struct {
	SearchRequestKey   string          `json:"searchRequestKey"`
	RequestID          string          `json:"requestId,omitempty"`
	TimeStamp          time.Time       `json:"timeStamp"`
	ProviderProfile    ProviderProfile `json:"providerProfile"`
	AgencyCode         string          `json:"agencyCode,omitempty"`
	RequestPriority    int             `json:"requestPriority,omitempty"`
	RequestDate        time.Time       `json:"requestDate,omitempty"`
	ApplicantFirstName string          `json:"applicantFirstName,omitempty"`
	ApplicantLastName  string          `json:"applicantLastName,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Person             *PersonPayload  `json:"person,omitempty"`
}

// PersonFound is the payload a search provider sends when it locates a person.
type PersonFound struct {
	SearchRequestKey string          `json:"searchRequestKey"`
	TimeStamp        time.Time       `json:"timeStamp"`
	ProviderProfile  ProviderProfile `json:"providerProfile"`
	Person           *PersonPayload  `json:"person,omitempty"`
}

type PersonPayload struct {
	FirstName    string     `json:"firstName,omitempty"`
	MiddleName   string     `json:"middleName,omitempty"`
	LastName     string     `json:"lastName,omitempty"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	DateOfDeath  *time.Time `json:"dateOfDeath,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	Incarcerated bool       `json:"incarcerated,omitempty"`

	Identifiers    []IdentifierPayload    `json:"identifiers,omitempty"`
	Addresses      []AddressPayload       `json:"addresses,omitempty"`
	Phones         []PhonePayload         `json:"phones,omitempty"`
	Names          []NamePayload          `json:"names,omitempty"`
	Employments    []EmploymentPayload    `json:"employments,omitempty"`
	RelatedPersons []RelatedPersonPayload `json:"relatedPersons,omitempty"`
}

type IdentifierPayload struct {
	Value       string         `json:"value"`
	Type        IdentifierType `json:"type,omitempty"`
	IssuedBy    string         `json:"issuedBy,omitempty"`
	Description string         `json:"description,omitempty"`
	Owner       OwnerType      `json:"owner,omitempty"`
}

type AddressPayload struct {
	AddressLine1  string          `json:"addressLine1,omitempty"`
	AddressLine2  string          `json:"addressLine2,omitempty"`
	City          string          `json:"city,omitempty"`
	StateProvince string          `json:"stateProvince,omitempty"`
	CountryRegion string          `json:"countryRegion,omitempty"`
	ZipPostalCode string          `json:"zipPostalCode,omitempty"`
	Type          AddressCategory `json:"type,omitempty"`
	Owner         OwnerType       `json:"owner,omitempty"`
}

type PhonePayload struct {
	PhoneNumber string    `json:"phoneNumber"`
	Extension   string    `json:"extension,omitempty"`
	Type        PhoneType `json:"type,omitempty"`
	Owner       OwnerType `json:"owner,omitempty"`
}

type NamePayload struct {
	FirstName  string   `json:"firstName,omitempty"`
	MiddleName string   `json:"middleName,omitempty"`
	LastName   string   `json:"lastName,omitempty"`
	Type       NameType `json:"type,omitempty"`
}

type EmploymentPayload struct {
	Occupation       string           `json:"occupation,omitempty"`
	Website          string           `json:"website,omitempty"`
	IncomeAssistance bool             `json:"incomeAssistance,omitempty"`
	EmploymentStatus int              `json:"employmentStatus,omitempty"`
	StartDate        *time.Time       `json:"startDate,omitempty"`
	EndDate          *time.Time       `json:"endDate,omitempty"`
	Employer         *EmployerPayload `json:"employer,omitempty"`
}

type EmployerPayload struct {
	Name          string         `json:"name,omitempty"`
	ContactPerson string         `json:"contactPerson,omitempty"`
	AddressLine1  string         `json:"addressLine1,omitempty"`
	City          string         `json:"city,omitempty"`
	StateProvince string         `json:"stateProvince,omitempty"`
	Phones        []PhonePayload `json:"phones,omitempty"`
}

type RelatedPersonPayload struct {
	Type        RelatedPersonType `json:"type,omitempty"`
	FirstName   string            `json:"firstName,omitempty"`
	MiddleName  string            `json:"middleName,omitempty"`
	LastName    string            `json:"lastName,omitempty"`
	DateOfBirth *time.Time        `json:"dateOfBirth,omitempty"`
	Gender      string            `json:"gender,omitempty"`
	Description string            `json:"description,omitempty"`
}
