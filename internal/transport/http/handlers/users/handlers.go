package usershandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leavemgmt/internal/domain/listing"
	"leavemgmt/internal/domain/policy"
	"leavemgmt/internal/domain/users"
	"leavemgmt/internal/transport/http/api"
	"leavemgmt/internal/transport/http/middleware"
	"leavemgmt/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, actor policy.Actor, filter listing.Filter, page listing.Page) (users.ListPage, error)
	Get(ctx context.Context, actor policy.Actor, id string) (users.Profile, error)
	Current(ctx context.Context, actor policy.Actor) (users.User, error)
}

type Handler struct {
	Service Service
	Policy  *policy.Policy
}

func NewHandler(service Service, p *policy.Policy) *Handler {
	return &Handler{Service: service, Policy: p}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/user", h.handleCurrent)
	r.Get("/profile", h.handleProfile)
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequireAction(h.Policy, policy.UserList)).Get("/", h.handleList)
		r.Get("/{userID}", h.handleGet)
	})
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	u, err := h.Service.Current(r.Context(), actor)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"user": u}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	h.writeProfile(w, r, actor, actor.ID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	page, err := h.Service.List(r.Context(), actor, shared.ParseUserFilter(r), shared.ParsePage(r))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, page, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	h.writeProfile(w, r, actor, chi.URLParam(r, "userID"))
}

func (h *Handler) writeProfile(w http.ResponseWriter, r *http.Request, actor policy.Actor, id string) {
	profile, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, profile, middleware.GetRequestID(r.Context()))
}
