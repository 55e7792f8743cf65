package handler

import (
	"searchbridge/internal/searchrequest/models"
	"searchbridge/internal/searchrequest/service"
)

// Response is the body returned for a processed event.
type Response struct {
	SearchRequest *models.SearchRequest `json:"searchRequest"`
	Uploads       UploadsResponse       `json:"uploads"`
}

type UploadsResponse struct {
	Succeeded int               `json:"succeeded"`
	Failures  []FailureResponse `json:"failures"`
}

type FailureResponse struct {
	Collection string `json:"collection"`
	Index      int    `json:"index"`
	Reason     string `json:"reason"`
}

func FromResult(res *service.Result) Response {
	failures := make([]FailureResponse, 0, len(res.Uploads.Failures))
	for _, f := range res.Uploads.Failures {
		failures = append(failures, FailureResponse{
			Collection: string(f.Collection),
			Index:      f.Index,
			Reason:     f.Reason,
		})
	}
	return Response{
		SearchRequest: res.SearchRequest,
		Uploads:       UploadsResponse{Succeeded: res.Uploads.Succeeded, Failures: failures},
	}
}
