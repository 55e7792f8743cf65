// Package models holds search API request records and provider policies.
package models

import (
	"time"

	id "searchbridge/pkg/domain"
)

// Status is the lifecycle state of a search API request.
type Status string

const (
	StatusReadyForSearch Status = "ReadyForSearch"
	StatusInProgress     Status = "InProgress"
	StatusComplete       Status = "Complete"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusReadyForSearch, StatusInProgress, StatusComplete:
		return true
	}
	return false
}

// DataProvider is the retry policy of one search provider, keyed by adaptor
// name.
type DataProvider struct {
	AdaptorName         string `json:"adaptorName" yaml:"adaptor_name"`
	NumberOfDaysToRetry int    `json:"numberOfDaysToRetry" yaml:"number_of_days_to_retry"`
	TimeBetweenRetries  int    `json:"timeBetweenRetries" yaml:"time_between_retries"`
	NumberOfRetries     int    `json:"numberOfRetries" yaml:"number_of_retries"`
}

// ProviderAttempt tracks a request's executions against one provider.
type ProviderAttempt struct {
	AdaptorName        string `json:"adaptorName"`
	NumberOfFailures   int    `json:"numberOfFailures"`
	TimeBetweenRetries int    `json:"timeBetweenRetries"`
	NumberOfRetries    int    `json:"numberOfRetries"`
}

// Identifier is a search key submitted to providers.
type Identifier struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// SearchAPIRequest is a unit of provider search work linked to a search
// request. IsFailed is set on results of the retry scan for downstream
// routing and is not a stored lifecycle state.
type SearchAPIRequest struct {
	ID              id.SearchAPIRequestID `json:"id"`
	SearchRequestID id.SearchRequestID    `json:"searchRequestId"`
	Status          Status                `json:"status"`
	Identifiers     []Identifier          `json:"identifiers,omitempty"`
	DataProviders   []ProviderAttempt     `json:"dataProviders,omitempty"`
	IsFailed        bool                  `json:"isFailed"`
}

// Clone returns a copy that shares no slices with r.
func (r SearchAPIRequest) Clone() SearchAPIRequest {
	out := r
	out.Identifiers = append([]Identifier(nil), r.Identifiers...)
	out.DataProviders = append([]ProviderAttempt(nil), r.DataProviders...)
	return out
}

// EventType is the kind of provider outcome recorded against a request.
type EventType string

const (
	EventSearchAccepted  EventType = "PersonSearchAccepted"
	EventSearchCompleted EventType = "PersonSearchCompleted"
	EventSearchFailed    EventType = "PersonSearchFailed"
	EventSearchRejected  EventType = "PersonSearchRejected"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventSearchAccepted, EventSearchCompleted, EventSearchFailed, EventSearchRejected:
		return true
	}
	return false
}

// FailureCategory classifies why a provider search failed.
type FailureCategory string

const (
	FailureTimeout     FailureCategory = "timeout"
	FailureUnavailable FailureCategory = "unavailable"
	FailureBadData     FailureCategory = "bad_data"
	FailureNotFound    FailureCategory = "not_found"
	FailureInternal    FailureCategory = "internal"
)

// Retryable reports whether a failure of this category counts toward the
// provider's retry budget rather than ending the search.
func (c FailureCategory) Retryable() bool {
	return c == FailureTimeout || c == FailureUnavailable || c == FailureInternal
}

// SearchAPIEvent is an outcome reported by a provider for a request.
type SearchAPIEvent struct {
	ID                 id.RecordID           `json:"id"`
	SearchAPIRequestID id.SearchAPIRequestID `json:"searchApiRequestId"`
	ProviderName       string                `json:"providerName"`
	Type               EventType             `json:"type"`
	FailureCategory    FailureCategory       `json:"failureCategory,omitempty"`
	Message            string                `json:"message,omitempty"`
	TimeStamp          time.Time             `json:"timeStamp"`
}
