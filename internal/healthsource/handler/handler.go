package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"companion/internal/healthsource/models"
	dErrors "companion/pkg/domain-errors"
	"companion/pkg/platform/httputil"
	"companion/pkg/requestcontext"
)

// Service defines the health source operations the handler needs.
type Service interface {
	Select(ctx context.Context, id string) (models.HealthSource, error)
	Clear(ctx context.Context)
	Current() (models.HealthSource, bool)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the health source routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health-sources", h.handleList)
	r.Put("/health-sources/current", h.handleSelect)
	r.Delete("/health-sources/current", h.handleClear)
}

type listResponse struct {
	Available []models.HealthSource `json:"available"`
	Current   *models.HealthSource  `json:"current"`
}

type selectRequest struct {
	ID string `json:"id"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	resp := listResponse{Available: models.Catalog()}
	if hs, ok := h.service.Current(); ok {
		resp.Current = &hs
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[selectRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.ID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "id is required"))
		return
	}

	hs, err := h.service.Select(ctx, req.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to select health source",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, hs)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
