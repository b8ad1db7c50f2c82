package authhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/users"
	"leavemgmt/internal/transport/http/api"
	"leavemgmt/internal/transport/http/middleware"
	"leavemgmt/internal/transport/http/shared"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (auth.Session, error)
	Logout(ctx context.Context, user auth.UserContext) error
}

type Registrar interface {
	Register(ctx context.Context, input users.RegisterInput) (users.User, error)
}

type Handler struct {
	Auth  Authenticator
	Users Registrar
}

func NewHandler(authSvc Authenticator, registrar Registrar) *Handler {
	return &Handler{Auth: authSvc, Users: registrar}
}

// RegisterPublicRoutes mounts the endpoints reachable without a token.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/logout", h.handleLogout)
}

type registerRequest struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email" validate:"omitempty,email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
	Department           *string `json:"department"`
	EmployeeID           string  `json:"employee_id"`
	JoiningDate          *string `json:"joining_date" validate:"omitempty,datetime=2006-01-02"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload registerRequest
	if !shared.Decode(w, r, &payload, reqID) {
		return
	}
	joining, err := shared.ParseOptionalDate(payload.JoiningDate)
	if err != nil {
		api.FailValidation(w, "", map[string]string{"joining_date": "Please provide a valid joining date."}, reqID)
		return
	}

	user, err := h.Users.Register(r.Context(), users.RegisterInput{
		Name:                 payload.Name,
		Email:                payload.Email,
		Password:             payload.Password,
		PasswordConfirmation: payload.PasswordConfirmation,
		Department:           payload.Department,
		EmployeeID:           payload.EmployeeID,
		JoiningDate:          joining,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, "User registered successfully", map[string]any{"user": user}, reqID)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.Decode(w, r, &payload, reqID) {
		return
	}
	session, err := h.Auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.SuccessMessage(w, "Login successful", session, reqID)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := shared.CurrentUser(w, r)
	if !ok {
		return
	}
	if err := h.Auth.Logout(r.Context(), user); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.SuccessMessage(w, "Logged out successfully", nil, reqID)
}
