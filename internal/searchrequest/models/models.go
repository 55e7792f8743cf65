package models

import (
	"strings"
	"time"

	id "searchbridge/pkg/domain"
)

// InformationSource tags which channel produced a record: the original order
// or a named search provider.
type InformationSource string

const SourceRequest InformationSource = "request"

// ProviderSource derives the information source for a search provider.
func ProviderSource(providerName string) InformationSource {
	return InformationSource("provider:" + strings.ToLower(strings.TrimSpace(providerName)))
}

// IsProvider reports whether the record came from a search provider.
func (s InformationSource) IsProvider() bool {
	return strings.HasPrefix(string(s), "provider:")
}

// SearchRequestStatus is the lifecycle state of the aggregate root.
type SearchRequestStatus int

const (
	SearchRequestStatusUnspecified SearchRequestStatus = iota
	SearchRequestOpen
	SearchRequestInProgress
	SearchRequestCancelled
	SearchRequestClosed
)

func (s SearchRequestStatus) String() string {
	switch s {
	case SearchRequestOpen:
		return "open"
	case SearchRequestInProgress:
		return "in_progress"
	case SearchRequestCancelled:
		return "cancelled"
	case SearchRequestClosed:
		return "closed"
	default:
		return "unspecified"
	}
}

// StatusCode is the record status carried by sub-entities.
type StatusCode int

const (
	StatusUnspecified StatusCode = iota
	StatusActive
	StatusInactive
)

// SearchRequest is the aggregate root. Persons, RelatedPersons and
// Employments are only populated when the record is read with expansion and
// are never written back through UpdateSearchRequest.
type SearchRequest struct {
	ID                         id.SearchRequestID  `json:"id"`
	SearchRequestKey           string              `json:"searchRequestKey"`
	Status                     SearchRequestStatus `json:"status"`
	AgencyCode                 string              `json:"agencyCode,omitempty"`
	RequestPriority            int                 `json:"requestPriority,omitempty"`
	RequestDate                time.Time           `json:"requestDate,omitempty"`
	ApplicantFirstName         string              `json:"applicantFirstName,omitempty"`
	ApplicantLastName          string              `json:"applicantLastName,omitempty"`
	Notes                      string              `json:"notes,omitempty"`
	PersonSoughtFirstName      string              `json:"personSoughtFirstName,omitempty"`
	PersonSoughtLastName       string              `json:"personSoughtLastName,omitempty"`
	PersonSoughtDateOfBirth    *time.Time          `json:"personSoughtDateOfBirth,omitempty"`
	CreatedByAPI               bool                `json:"createdByApi"`
	SendNotificationOnCreation bool                `json:"sendNotificationOnCreation"`

	Persons        []Person        `json:"persons,omitempty"`
	RelatedPersons []RelatedPerson `json:"relatedPersons,omitempty"`
	Employments    []Employment    `json:"employments,omitempty"`
}

// WithoutCollections returns a copy suitable for a root-only write.
func (sr SearchRequest) WithoutCollections() SearchRequest {
	sr.Persons = nil
	sr.RelatedPersons = nil
	sr.Employments = nil
	return sr
}

// Note is a free-text history entry attached to the root.
type Note struct {
	ID                id.RecordID        `json:"id"`
	SearchRequestID   id.SearchRequestID `json:"searchRequestId"`
	Description       string             `json:"description"`
	StatusCode        StatusCode         `json:"statusCode"`
	InformationSource InformationSource  `json:"informationSource"`
}
