package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"searchbridge/internal/searchapi/models"
	id "searchbridge/pkg/domain"
	"searchbridge/pkg/platform/httputil"
	"searchbridge/pkg/requestcontext"
)

// Service is the search API request workflow the handler drives.
type Service interface {
	GetAllReadyForSearch(ctx context.Context) ([]models.SearchAPIRequest, error)
	GetAllValidFailed(ctx context.Context) ([]models.SearchAPIRequest, error)
	GetLinkedSearchRequestID(ctx context.Context, requestID id.SearchAPIRequestID) (id.SearchRequestID, error)
	MarkInProgress(ctx context.Context, requestID id.SearchAPIRequestID) (*models.SearchAPIRequest, error)
	MarkComplete(ctx context.Context, requestID id.SearchAPIRequestID) (*models.SearchAPIRequest, error)
	AddEvent(ctx context.Context, requestID id.SearchAPIRequestID, evt models.SearchAPIEvent) (*models.SearchAPIEvent, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts search API request endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/search-api-requests/ready", h.HandleReady)
	r.Get("/search-api-requests/failed", h.HandleFailed)
	r.Post("/search-api-requests/{id}/in-progress", h.HandleInProgress)
	r.Post("/search-api-requests/{id}/complete", h.HandleComplete)
	r.Post("/search-api-requests/{id}/events", h.HandleAddEvent)
	r.Get("/search-api-requests/{id}/search-request", h.HandleLinkedSearchRequest)
}

// HandleReady handles GET /search-api-requests/ready.
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "ready", h.service.GetAllReadyForSearch)
}

// HandleFailed handles GET /search-api-requests/failed.
func (h *Handler) HandleFailed(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "retry", h.service.GetAllValidFailed)
}

// HandleInProgress handles POST /search-api-requests/{id}/in-progress.
func (h *Handler) HandleInProgress(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkInProgress)
}

// HandleComplete handles POST /search-api-requests/{id}/complete.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkComplete)
}

// HandleAddEvent handles POST /search-api-requests/{id}/events.
func (h *Handler) HandleAddEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, err := id.ParseSearchAPIRequestID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.DecodeJSON[EventRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	evt, err := h.service.AddEvent(ctx, requestID, req.ToModel())
	if err != nil {
		h.logError(ctx, "failed to add search api event", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "search api event recorded",
		"request_id", requestcontext.RequestID(ctx),
		"search_api_request_id", requestID.String(),
		"provider", evt.ProviderName,
		"type", string(evt.Type),
	)
	httputil.WriteJSON(w, http.StatusCreated, evt)
}

// HandleLinkedSearchRequest handles GET /search-api-requests/{id}/search-request.
func (h *Handler) HandleLinkedSearchRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, err := id.ParseSearchAPIRequestID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	srID, err := h.service.GetLinkedSearchRequestID(ctx, requestID)
	if err != nil {
		h.logError(ctx, "failed to resolve linked search request", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LinkResponse{SearchAPIRequestID: requestID, SearchRequestID: srID})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, queue string, fetch func(context.Context) ([]models.SearchAPIRequest, error)) {
	ctx := r.Context()
	start := time.Now()

	requests, err := fetch(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list search api requests",
			"request_id", requestcontext.RequestID(ctx),
			"queue", queue,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if requests == nil {
		requests = []models.SearchAPIRequest{}
	}
	h.logger.InfoContext(ctx, "search api requests listed",
		"request_id", requestcontext.RequestID(ctx),
		"queue", queue,
		"count", len(requests),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Requests: requests, Count: len(requests)})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, id.SearchAPIRequestID) (*models.SearchAPIRequest, error)) {
	ctx := r.Context()
	requestID, err := id.ParseSearchAPIRequestID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := apply(ctx, requestID)
	if err != nil {
		h.logError(ctx, "failed to update search api request", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) logError(ctx context.Context, msg string, requestID id.SearchAPIRequestID, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"search_api_request_id", requestID.String(),
		"error", err,
	)
}
