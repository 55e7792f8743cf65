package handler

import (
	"time"

	"searchbridge/internal/searchapi/models"
	id "searchbridge/pkg/domain"
)

// EventRequest is the body of POST /search-api-requests/{id}/events.
type EventRequest struct {
	ProviderName    string                 `json:"providerName"`
	Type            models.EventType       `json:"type"`
	FailureCategory models.FailureCategory `json:"failureCategory,omitempty"`
	Message         string                 `json:"message,omitempty"`
	TimeStamp       *time.Time             `json:"timeStamp,omitempty"`
}

func (r EventRequest) ToModel() models.SearchAPIEvent {
	evt := models.SearchAPIEvent{
		ProviderName:    r.ProviderName,
		Type:            r.Type,
		FailureCategory: r.FailureCategory,
		Message:         r.Message,
	}
	if r.TimeStamp != nil {
		evt.TimeStamp = *r.TimeStamp
	}
	return evt
}

type ListResponse struct {
	Requests []models.SearchAPIRequest `json:"requests"`
	Count    int                       `json:"count"`
}

type LinkResponse struct {
	SearchAPIRequestID id.SearchAPIRequestID `json:"searchApiRequestId"`
	SearchRequestID    id.SearchRequestID    `json:"searchRequestId"`
}
