// Package domain holds typed identifiers shared across bounded contexts.
package domain

import (
	"github.com/google/uuid"

	dErrors "searchbridge/pkg/domain-errors"
)

// Typed IDs keep search request, person and search API request identifiers
// from being swapped at call sites.
type (
	SearchRequestID    uuid.UUID
	PersonID           uuid.UUID
	EmploymentID       uuid.UUID
	RecordID           uuid.UUID
	SearchAPIRequestID uuid.UUID
)

func (id SearchRequestID) String() string    { return uuid.UUID(id).String() }
func (id PersonID) String() string           { return uuid.UUID(id).String() }
func (id EmploymentID) String() string       { return uuid.UUID(id).String() }
func (id RecordID) String() string           { return uuid.UUID(id).String() }
func (id SearchAPIRequestID) String() string { return uuid.UUID(id).String() }

func (id SearchRequestID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PersonID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id EmploymentID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id RecordID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id SearchAPIRequestID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func NewSearchRequestID() SearchRequestID       { return SearchRequestID(uuid.New()) }
func NewPersonID() PersonID                     { return PersonID(uuid.New()) }
func NewEmploymentID() EmploymentID             { return EmploymentID(uuid.New()) }
func NewRecordID() RecordID                     { return RecordID(uuid.New()) }
func NewSearchAPIRequestID() SearchAPIRequestID { return SearchAPIRequestID(uuid.New()) }

func ParseSearchRequestID(s string) (SearchRequestID, error) {
	u, err := parseUUID(s, "search request id")
	return SearchRequestID(u), err
}

func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID(s, "person id")
	return PersonID(u), err
}

func ParseSearchAPIRequestID(s string) (SearchAPIRequestID, error) {
	u, err := parseUUID(s, "search api request id")
	return SearchAPIRequestID(u), err
}

// parseUUID rejects empty, malformed and nil UUIDs.
func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be nil")
	}
	return u, nil
}

// Text encoding keeps typed IDs readable in JSON payloads and JSONB columns.

func (id SearchRequestID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id PersonID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id EmploymentID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id RecordID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id SearchAPIRequestID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *SearchRequestID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *PersonID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *EmploymentID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *RecordID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SearchAPIRequestID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
