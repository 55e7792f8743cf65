package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"searchbridge/internal/searchrequest/models"
	"searchbridge/internal/searchrequest/service"
	dErrors "searchbridge/pkg/domain-errors"
	"searchbridge/pkg/platform/httputil"
	"searchbridge/pkg/requestcontext"
)

// Service is the event entry point the handler drives.
type Service interface {
	Ordered(ctx context.Context, evt models.SearchRequestOrdered) (*service.Result, error)
	Updated(ctx context.Context, evt models.SearchRequestOrdered) (*service.Result, error)
	Cancelled(ctx context.Context, evt models.SearchRequestOrdered) (*service.Result, error)
	PersonFound(ctx context.Context, evt models.PersonFound) (*service.Result, error)
}

// Handler exposes the search request events over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts search request endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/search-requests", h.HandleOrder)
	r.Put("/search-requests/{key}", h.HandleUpdate)
	r.Post("/search-requests/{key}/cancel", h.HandleCancel)
	r.Post("/search-requests/{key}/person-found", h.HandlePersonFound)
}

// HandleOrder handles POST /search-requests.
func (h *Handler) HandleOrder(w http.ResponseWriter, r *http.Request) {
	evt, err := httputil.DecodeJSON[models.SearchRequestOrdered](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.respond(w, r, models.EventOrdered, evt.SearchRequestKey, http.StatusCreated, func(ctx context.Context) (*service.Result, error) {
		return h.service.Ordered(ctx, *evt)
	})
}

// HandleUpdate handles PUT /search-requests/{key}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	evt, err := httputil.DecodeJSON[models.SearchRequestOrdered](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := bindKey(&evt.SearchRequestKey, key); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.respond(w, r, models.EventUpdated, key, http.StatusOK, func(ctx context.Context) (*service.Result, error) {
		return h.service.Updated(ctx, *evt)
	})
}

// HandleCancel handles POST /search-requests/{key}/cancel.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	evt := models.SearchRequestOrdered{SearchRequestKey: key, TimeStamp: requestcontext.Now(r.Context())}
	h.respond(w, r, models.EventCancelled, key, http.StatusOK, func(ctx context.Context) (*service.Result, error) {
		return h.service.Cancelled(ctx, evt)
	})
}

// HandlePersonFound handles POST /search-requests/{key}/person-found.
func (h *Handler) HandlePersonFound(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	evt, err := httputil.DecodeJSON[models.PersonFound](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := bindKey(&evt.SearchRequestKey, key); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.respond(w, r, models.EventPersonFound, key, http.StatusCreated, func(ctx context.Context) (*service.Result, error) {
		return h.service.PersonFound(ctx, *evt)
	})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, event, key string, status int, run func(context.Context) (*service.Result, error)) {
	ctx := r.Context()
	start := time.Now()

	res, err := run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "search request event failed",
			"request_id", requestcontext.RequestID(ctx),
			"search_request_key", key,
			"event", event,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if res == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "search request not found"))
		return
	}

	h.logger.InfoContext(ctx, "search request event processed",
		"request_id", requestcontext.RequestID(ctx),
		"search_request_key", key,
		"event", event,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, status, FromResult(res))
}

// bindKey fills an empty body key from the path and rejects a mismatch.
func bindKey(bodyKey *string, pathKey string) error {
	if strings.TrimSpace(*bodyKey) == "" {
		*bodyKey = pathKey
		return nil
	}
	if *bodyKey != pathKey {
		return dErrors.New(dErrors.CodeBadRequest, "search request key in body does not match path")
	}
	return nil
}
