package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"companion/internal/profile/models"
	dErrors "companion/pkg/domain-errors"
	"companion/pkg/platform/httputil"
	"companion/pkg/requestcontext"
)

// Service defines the profile operations exposed over HTTP.
type Service interface {
	SignIn(ctx context.Context, req models.SignInRequest) (*models.Profile, error)
	SignOut(ctx context.Context)
	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.Profile, error)
	GetProfileHistory(ctx context.Context) (*models.History, error)
	LinkAuthSource(ctx context.Context, source string) (*models.Profile, error)
	UnlinkAuthSource(ctx context.Context, source string) (*models.Profile, error)
}

// Handler handles profile endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the profile routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/session", h.handleSignIn)
	r.Delete("/session", h.handleSignOut)
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", h.handleGetProfile)
		r.Put("/", h.handleUpdateProfile)
		r.Get("/history", h.handleGetHistory)
		r.Post("/auth-sources", h.handleLinkAuthSource)
		r.Delete("/auth-sources/{source}", h.handleUnlinkAuthSource)
	})
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[models.SignInRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.SignIn(r.Context(), *req)
	h.respond(w, r, "sign in", p, err)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	h.service.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProfile(r.Context())
	h.respond(w, r, "get profile", p, err)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[models.UpdateProfileRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.UpdateProfile(r.Context(), *req)
	h.respond(w, r, "update profile", p, err)
}

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.GetProfileHistory(r.Context())
	h.respond(w, r, "get profile history", history, err)
}

func (h *Handler) handleLinkAuthSource(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[models.LinkAuthSourceRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.LinkAuthSource(r.Context(), req.Source)
	h.respond(w, r, "link auth source", p, err)
}

func (h *Handler) handleUnlinkAuthSource(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.UnlinkAuthSource(r.Context(), chi.URLParam(r, "source"))
	h.respond(w, r, "unlink auth source", p, err)
}

// respond writes body as 200 JSON, or the error envelope. Internal errors are
// logged at error level, client errors at warn.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op string, body any, err error) {
	if err == nil {
		httputil.WriteJSON(w, http.StatusOK, body)
		return
	}
	ctx := r.Context()
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, "failed to "+op,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
