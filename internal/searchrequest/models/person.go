package models

import (
	"time"

	id "searchbridge/pkg/domain"
)

// Person is a sought or found person owned by a search request.
type Person struct {
	ID                id.PersonID        `json:"id"`
	SearchRequestID   id.SearchRequestID `json:"searchRequestId"`
	FirstName         string             `json:"firstName,omitempty"`
	MiddleName        string             `json:"middleName,omitempty"`
	LastName          string             `json:"lastName,omitempty"`
	DateOfBirth       *time.Time         `json:"dateOfBirth,omitempty"`
	DateOfDeath       *time.Time         `json:"dateOfDeath,omitempty"`
	Gender            string             `json:"gender,omitempty"`
	Incarcerated      bool               `json:"incarcerated"`
	InformationSource InformationSource  `json:"informationSource"`

	Identifiers []Identifier  `json:"identifiers,omitempty"`
	Addresses   []Address     `json:"addresses,omitempty"`
	Phones      []PhoneNumber `json:"phones,omitempty"`
	Names       []Name        `json:"names,omitempty"`
}

type IdentifierType string

const (
	IdentifierDriverLicense IdentifierType = "DriverLicense"
	IdentifierSIN           IdentifierType = "SocialInsuranceNumber"
	IdentifierPHN           IdentifierType = "PersonalHealthNumber"
	IdentifierBirthCert     IdentifierType = "BirthCertificate"
	IdentifierPassport      IdentifierType = "Passport"
	IdentifierOther         IdentifierType = "Other"
)

type Identifier struct {
	ID                id.RecordID        `json:"id"`
	SearchRequestID   id.SearchRequestID `json:"searchRequestId"`
	PersonID          id.PersonID        `json:"personId"`
	Value             string             `json:"value"`
	Type              IdentifierType     `json:"type,omitempty"`
	IssuedBy          string             `json:"issuedBy,omitempty"`
	Description       string             `json:"description,omitempty"`
	InformationSource InformationSource  `json:"informationSource"`
}

type AddressCategory string

const (
	AddressResidence AddressCategory = "Residence"
	AddressMailing   AddressCategory = "Mailing"
	AddressBusiness  AddressCategory = "Business"
	AddressUnknown   AddressCategory = "Unknown"
)

type Address struct {
	ID                id.RecordID        `json:"id"`
	SearchRequestID   id.SearchRequestID `json:"searchRequestId"`
	PersonID          id.PersonID        `json:"personId"`
	AddressLine1      string             `json:"addressLine1,omitempty"`
	AddressLine2      string             `json:"addressLine2,omitempty"`
	City              string             `json:"city,omitempty"`
	StateProvince     string             `json:"stateProvince,omitempty"`
	CountryRegion     string             `json:"countryRegion,omitempty"`
	ZipPostalCode     string             `json:"zipPostalCode,omitempty"`
	Category          AddressCategory    `json:"category,omitempty"`
	InformationSource InformationSource  `json:"informationSource"`
}

type PhoneType string

const (
	PhoneHome  PhoneType = "Home"
	PhoneCell  PhoneType = "Cell"
	PhoneWork  PhoneType = "Work"
	PhoneFax   PhoneType = "Fax"
	PhoneOther PhoneType = "Other"
)

type PhoneNumber struct {
	ID                id.RecordID        `json:"id"`
	SearchRequestID   id.SearchRequestID `json:"searchRequestId"`
	PersonID          id.PersonID        `json:"personId"`
	Number            string             `json:"number"`
	Extension         string             `json:"extension,omitempty"`
	Type              PhoneType          `json:"type,omitempty"`
	InformationSource InformationSource  `json:"informationSource"`
}

type NameType string

const (
	NameLegal  NameType = "Legal"
	NameAlias  NameType = "Alias"
	NameMaiden NameType = "Maiden"
)

// Name is an alias or alternate name for a person.
type Name struct {
	ID                id.RecordID        `json:"id"`
	SearchRequestID   id.SearchRequestID `json:"searchRequestId"`
	PersonID          id.PersonID        `json:"personId"`
	FirstName         string             `json:"firstName,omitempty"`
	MiddleName        string             `json:"middleName,omitempty"`
	LastName          string             `json:"lastName,omitempty"`
	Type              NameType           `json:"type,omitempty"`
	InformationSource InformationSource  `json:"informationSource"`
}

// RelatedPersonType is the slot a related person occupies on the aggregate.
type RelatedPersonType int

const (
	RelatedPersonUnspecified RelatedPersonType = iota
	RelatedPersonRelation
	RelatedPersonApplicant
)

func (t RelatedPersonType) String() string {
	switch t {
	case RelatedPersonRelation:
		return "relation"
	case RelatedPersonApplicant:
		return "applicant"
	default:
		return "unspecified"
	}
}

type RelatedPerson struct {
	ID                id.RecordID        `json:"id"`
	SearchRequestID   id.SearchRequestID `json:"searchRequestId"`
	PersonID          id.PersonID        `json:"personId"`
	PersonType        RelatedPersonType  `json:"personType"`
	FirstName         string             `json:"firstName,omitempty"`
	MiddleName        string             `json:"middleName,omitempty"`
	LastName          string             `json:"lastName,omitempty"`
	DateOfBirth       *time.Time         `json:"dateOfBirth,omitempty"`
	Gender            string             `json:"gender,omitempty"`
	Description       string             `json:"description,omitempty"`
	StatusCode        StatusCode         `json:"statusCode"`
	InformationSource InformationSource  `json:"informationSource"`
}

type Employment struct {
	ID                id.EmploymentID    `json:"id"`
	SearchRequestID   id.SearchRequestID `json:"searchRequestId"`
	PersonID          id.PersonID        `json:"personId"`
	Occupation        string             `json:"occupation,omitempty"`
	Website           string             `json:"website,omitempty"`
	AddressLine1      string             `json:"addressLine1,omitempty"`
	City              string             `json:"city,omitempty"`
	StateProvince     string             `json:"stateProvince,omitempty"`
	IncomeAssistance  bool               `json:"incomeAssistance"`
	EmploymentStatus  int                `json:"employmentStatus,omitempty"`
	EmploymentStart   *time.Time         `json:"employmentStart,omitempty"`
	EmploymentEnd     *time.Time         `json:"employmentEnd,omitempty"`
	EmployerName      string             `json:"employerName,omitempty"`
	EmployerContact   string             `json:"employerContact,omitempty"`
	IsDuplicated      bool               `json:"isDuplicated"`
	InformationSource InformationSource  `json:"informationSource"`

	EmploymentContacts []EmploymentContact `json:"employmentContacts,omitempty"`
}

// EmploymentContact is an employer phone linked to an employment record.
type EmploymentContact struct {
	ID           id.RecordID     `json:"id"`
	EmploymentID id.EmploymentID `json:"employmentId"`
	PhoneNumber  string          `json:"phoneNumber"`
	Extension    string          `json:"extension,omitempty"`
	PhoneType    PhoneType       `json:"phoneType,omitempty"`
}
