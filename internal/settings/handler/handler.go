package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"companion/internal/settings/models"
	"companion/internal/settings/service"
	"companion/internal/settings/viewmodel"
	dErrors "companion/pkg/domain-errors"
	"companion/pkg/platform/httputil"
	"companion/pkg/requestcontext"
)

// Service defines the settings operations the handler needs.
type Service interface {
	Sections() []viewmodel.SectionViewModel[models.AppItem]
	LogScreenViewed(ctx context.Context)
	ExecuteAction(ctx context.Context, item models.AppItem) service.ActionResult
	RespondToRatePrompt(ctx context.Context, accepted bool) error
	BeginLogOut(ctx context.Context)
	ConfirmLogOut(ctx context.Context, confirmed bool) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the settings routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.handleSections)
		r.Post("/items/{item}", h.handleExecute)
		r.Post("/logout", h.handleBeginLogOut)
		r.Post("/logout/confirm", h.handleConfirmLogOut)
		r.Post("/rate", h.handleRate)
	})
}

type rowResponse struct {
	Item          models.AppItem `json:"item"`
	Title         string         `json:"title"`
	RowType       models.RowType `json:"row_type"`
	Route         models.Route   `json:"route,omitempty"`
	ShowSeparator bool           `json:"show_separator"`
}

type sectionResponse struct {
	Title string        `json:"title,omitempty"`
	Rows  []rowResponse `json:"rows"`
}

type sectionsResponse struct {
	Sections []sectionResponse `json:"sections"`
}

type confirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

type rateRequest struct {
	Accepted bool `json:"accepted"`
}

func toSectionsResponse(sections []viewmodel.SectionViewModel[models.AppItem]) sectionsResponse {
	resp := sectionsResponse{Sections: make([]sectionResponse, 0, len(sections))}
	for _, section := range sections {
		out := sectionResponse{Title: section.Title()}
		for _, row := range section.Rows() {
			route, _ := row.Item.Route()
			out.Rows = append(out.Rows, rowResponse{
				Item:          row.Item,
				Title:         row.Item.Title(),
				RowType:       row.Item.RowType(),
				Route:         route,
				ShowSeparator: row.ShouldShowSeparator,
			})
		}
		resp.Sections = append(resp.Sections, out)
	}
	return resp
}

func (h *Handler) handleSections(w http.ResponseWriter, r *http.Request) {
	h.service.LogScreenViewed(r.Context())
	httputil.WriteJSON(w, http.StatusOK, toSectionsResponse(h.service.Sections()))
}

func (h *Handler) handleExecute(w http.ResponseWriter, r *http.Request) {
	item, err := models.ParseAppItem(chi.URLParam(r, "item"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, err.Error()))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.ExecuteAction(r.Context(), item))
}

func (h *Handler) handleBeginLogOut(w http.ResponseWriter, r *http.Request) {
	h.service.BeginLogOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleConfirmLogOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[confirmRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.ConfirmLogOut(ctx, req.Confirmed); err != nil {
		h.fail(ctx, w, "failed to confirm log-out", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[rateRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.RespondToRatePrompt(ctx, req.Accepted); err != nil {
		h.fail(ctx, w, "failed to answer rate prompt", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
