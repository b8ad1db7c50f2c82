package leavehandler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"leavemgmt/internal/domain/leave"
	"leavemgmt/internal/domain/listing"
	"leavemgmt/internal/domain/policy"
	"leavemgmt/internal/requestctx"
	"leavemgmt/internal/transport/http/api"
	"leavemgmt/internal/transport/http/middleware"
	"leavemgmt/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, actor policy.Actor, filter listing.Filter, page listing.Page) (leave.ListPage, error)
	Create(ctx context.Context, actor policy.Actor, input leave.CreateInput) (leave.Leave, error)
	Get(ctx context.Context, actor policy.Actor, id string) (leave.Leave, error)
	Decide(ctx context.Context, actor policy.Actor, id string, input leave.DecideInput) (leave.Leave, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
	Statistics(ctx context.Context, actor policy.Actor) (leave.Statistics, error)
	StatisticsPDF(ctx context.Context, actor policy.Actor, w io.Writer) error
}

type Handler struct {
	Service Service
	Policy  *policy.Policy
}

func NewHandler(service Service, p *policy.Policy) *Handler {
	return &Handler{Service: service, Policy: p}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leaves", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.With(middleware.RequireAction(h.Policy, policy.LeaveStatistics)).Get("/statistics/overview", h.handleStatistics)
		r.With(middleware.RequireAction(h.Policy, policy.LeaveStatistics)).Get("/statistics/overview.pdf", h.handleStatisticsPDF)
		r.Get("/{leaveID}", h.handleGet)
		r.With(middleware.RequireAction(h.Policy, policy.LeaveDecide)).Put("/{leaveID}", h.handleDecide)
		r.With(middleware.RequireAction(h.Policy, policy.LeaveDecide)).Patch("/{leaveID}", h.handleDecide)
		r.Delete("/{leaveID}", h.handleDelete)
	})
}

type createRequest struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Reason    string `json:"reason"`
}

type decideRequest struct {
	Status        string  `json:"status"`
	AdminComments *string `json:"admin_comments"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	page, err := h.Service.List(r.Context(), actor, shared.ParseLeaveFilter(r), shared.ParsePage(r))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, page, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload createRequest
	if !shared.Decode(w, r, &payload, reqID) {
		return
	}
	// Formats were checked by Decode; empty dates stay zero and are
	// reported as missing by the service.
	start, _ := shared.ParseDate(payload.StartDate)
	end, _ := shared.ParseDate(payload.EndDate)

	created, err := h.Service.Create(r.Context(), actor, leave.CreateInput{
		LeaveType: leave.Type(strings.TrimSpace(payload.LeaveType)),
		StartDate: start,
		EndDate:   end,
		Reason:    payload.Reason,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, "Leave request submitted successfully", map[string]any{"leave": created}, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	l, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "leaveID"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"leave": l}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload decideRequest
	if !shared.Decode(w, r, &payload, reqID) {
		return
	}

	decided, err := h.Service.Decide(r.Context(), actor, chi.URLParam(r, "leaveID"), leave.DecideInput{
		Status:        leave.Status(strings.ToLower(strings.TrimSpace(payload.Status))),
		AdminComments: payload.AdminComments,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.SuccessMessage(w, fmt.Sprintf("Leave request %s successfully", decided.Status), map[string]any{"leave": decided}, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "leaveID")); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.SuccessMessage(w, "Leave request deleted successfully", nil, reqID)
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	stats, err := h.Service.Statistics(r.Context(), actor)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}

// handleStatisticsPDF renders into a buffer first so a failure can still be
// reported as a JSON envelope.
func (h *Handler) handleStatisticsPDF(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.Service.StatisticsPDF(r.Context(), actor, &buf); err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	filename := fmt.Sprintf("leave-statistics-%s.pdf", time.Now().UTC().Format(leave.DateLayout))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		requestctx.Logger(r.Context()).Warn("write statistics pdf failed", zap.Error(err))
	}
}
