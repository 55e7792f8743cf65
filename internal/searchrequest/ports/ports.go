// Package ports defines the interfaces the search request orchestrator
// depends on.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"searchbridge/internal/searchrequest/models"
)

// SearchRequestStore is the remote record store for the search request
// aggregate. Create calls assign identifiers and return the stored record.
type SearchRequestStore interface {
	CreateSearchRequest(ctx context.Context, sr models.SearchRequest) (*models.SearchRequest, error)
	UpdateSearchRequest(ctx context.Context, sr models.SearchRequest) (*models.SearchRequest, error)

	// GetSearchRequest reads the aggregate by request key with persons,
	// related persons and employments expanded. Returns sentinel.ErrNotFound
	// when no request has that key.
	GetSearchRequest(ctx context.Context, key string) (*models.SearchRequest, error)

	// CancelSearchRequest transitions the request to cancelled. Returns
	// sentinel.ErrNotFound when no request has that key.
	CancelSearchRequest(ctx context.Context, key string) (*models.SearchRequest, error)

	SavePerson(ctx context.Context, p models.Person) (*models.Person, error)
	UpdatePerson(ctx context.Context, p models.Person) (*models.Person, error)

	CreateIdentifier(ctx context.Context, rec models.Identifier) (*models.Identifier, error)
	CreateAddress(ctx context.Context, rec models.Address) (*models.Address, error)
	CreatePhoneNumber(ctx context.Context, rec models.PhoneNumber) (*models.PhoneNumber, error)
	CreateName(ctx context.Context, rec models.Name) (*models.Name, error)

	CreateEmployment(ctx context.Context, e models.Employment) (*models.Employment, error)
	UpdateEmployment(ctx context.Context, e models.Employment) (*models.Employment, error)
	CreateEmploymentContact(ctx context.Context, c models.EmploymentContact) (*models.EmploymentContact, error)

	CreateRelatedPerson(ctx context.Context, rp models.RelatedPerson) (*models.RelatedPerson, error)
	UpdateRelatedPerson(ctx context.Context, rp models.RelatedPerson) (*models.RelatedPerson, error)

	CreateNotes(ctx context.Context, n models.Note) (*models.Note, error)
}

// Notifier receives every processed event. Its errors never change the
// outcome of the event that triggered it.
type Notifier interface {
	Notify(ctx context.Context, searchRequestKey string, payload any, eventName string) error
}
