package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"companion/internal/diagnostics/models"
	dErrors "companion/pkg/domain-errors"
	"companion/pkg/platform/httputil"
	"companion/pkg/requestcontext"
)

// Service defines the diagnostics operations exposed over HTTP.
type Service interface {
	Items(ctx context.Context) ([]models.Item, error)
	FormattedText() string
	FormattedHTML() string
	UpdateItem(t models.ItemType, value string) error
	RefreshDeviceAndUserDiagnostics(ctx context.Context)
	RefreshConnectedSocials(ctx context.Context) <-chan error
	RemoveUserSpecificProperties()
}

// Handler handles diagnostics endpoints.
type Handler struct {
	service        Service
	logger         *slog.Logger
	refreshLimiter []func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithRefreshLimiter wraps the refresh endpoints, which re-read device facts
// and call the profile service.
func WithRefreshLimiter(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		if mw != nil {
			h.refreshLimiter = append(h.refreshLimiter, mw)
		}
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the diagnostics routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/diagnostics", func(r chi.Router) {
		r.Get("/", h.handleItems)
		r.Get("/report", h.handleReportText)
		r.Get("/report.html", h.handleReportHTML)
		r.Put("/items/{type}", h.handleUpdateItem)
		r.With(h.refreshLimiter...).Post("/refresh", h.handleRefresh)
		r.With(h.refreshLimiter...).Post("/socials/refresh", h.handleRefreshSocials)
		r.Delete("/user-specific", h.handleRemoveUserSpecific)
	})
}

type itemResponse struct {
	Type  models.ItemType `json:"type"`
	Title string          `json:"title"`
	Value string          `json:"value"`
}

type itemsResponse struct {
	Items []itemResponse `json:"items"`
}

type updateItemRequest struct {
	Value string `json:"value"`
}

func toItemsResponse(items []models.Item) itemsResponse {
	resp := itemsResponse{Items: make([]itemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, itemResponse{Type: item.Type, Title: item.Title(), Value: item.Value})
	}
	return resp
}

func (h *Handler) handleItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := h.service.Items(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load diagnostics",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toItemsResponse(items))
}

func (h *Handler) handleReportText(w http.ResponseWriter, r *http.Request) {
	httputil.WriteText(w, http.StatusOK, "text/plain; charset=utf-8", h.service.FormattedText())
}

func (h *Handler) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	httputil.WriteText(w, http.StatusOK, "text/html; charset=utf-8", h.service.FormattedHTML())
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := models.ParseItemType(chi.URLParam(r, "type"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, "unknown diagnostics item type"))
		return
	}
	req, err := httputil.DecodeJSON[updateItemRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.UpdateItem(t, req.Value); err != nil {
		h.logger.WarnContext(ctx, "failed to update diagnostics item",
			"request_id", requestcontext.RequestID(ctx),
			"item_type", t,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	h.service.RefreshDeviceAndUserDiagnostics(r.Context())
	h.handleItems(w, r)
}

// handleRefreshSocials starts the refresh and answers 202. With ?wait=true it
// waits for the outcome and answers 204, or 503 if the fetch failed.
func (h *Handler) handleRefreshSocials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	done := h.service.RefreshConnectedSocials(ctx)

	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if !wait {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	select {
	case err := <-done:
		if err != nil {
			h.logger.WarnContext(ctx, "connected socials refresh failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "connected socials are unavailable"))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case <-ctx.Done():
		w.WriteHeader(http.StatusAccepted)
	}
}

func (h *Handler) handleRemoveUserSpecific(w http.ResponseWriter, r *http.Request) {
	h.service.RemoveUserSpecificProperties()
	w.WriteHeader(http.StatusNoContent)
}
