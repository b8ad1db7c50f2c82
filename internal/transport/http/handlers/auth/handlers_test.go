package authhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/users"
	"leavemgmt/internal/platform/apperror"
	"leavemgmt/internal/transport/http/api"
	"leavemgmt/internal/transport/http/middleware"
)

type fakeAuth struct {
	loginFn   func(email, password string) (auth.Session, error)
	loggedOut []auth.UserContext
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (auth.Session, error) {
	return f.loginFn(email, password)
}

func (f *fakeAuth) Logout(_ context.Context, user auth.UserContext) error {
	f.loggedOut = append(f.loggedOut, user)
	return nil
}

type fakeRegistrar struct {
	got users.RegisterInput
	err error
}

func (f *fakeRegistrar) Register(_ context.Context, input users.RegisterInput) (users.User, error) {
	f.got = input
	if f.err != nil {
		return users.User{}, f.err
	}
	return users.User{ID: "u1", Name: input.Name, Email: input.Email, Role: auth.RoleEmployee}, nil
}

func newRouter(h *Handler, user *auth.UserContext) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if user != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), *user)))
			})
		})
	}
	h.RegisterPublicRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		h.RegisterRoutes(r)
	})
	return r
}

func do(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, api.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var env api.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return rec, env
}

func TestLogin(t *testing.T) {
	authSvc := &fakeAuth{loginFn: func(email, password string) (auth.Session, error) {
		if email == "jane@example.com" && password == "secret123" {
			return auth.Session{Token: "tok", TokenType: "Bearer", UserID: "u1", Role: auth.RoleEmployee}, nil
		}
		return auth.Session{}, apperror.ValidationField("email", "The provided credentials are incorrect.")
	}}
	router := newRouter(NewHandler(authSvc, &fakeRegistrar{}), nil)

	rec, env := do(t, router, http.MethodPost, "/login", `{"email":"jane@example.com","password":"secret123"}`)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected login success, got %d %+v", rec.Code, env)
	}

	rec, env = do(t, router, http.MethodPost, "/login", `{"email":"jane@example.com","password":"wrong"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Errors["email"] != "The provided credentials are incorrect." {
		t.Fatalf("unexpected errors: %+v", env.Errors)
	}

	rec, env = do(t, router, http.MethodPost, "/login", `{"password":"x"}`)
	if rec.Code != http.StatusBadRequest || env.Errors["email"] == "" {
		t.Fatalf("expected email validation error, got %d %+v", rec.Code, env)
	}
}

func TestRegister(t *testing.T) {
	registrar := &fakeRegistrar{}
	router := newRouter(NewHandler(&fakeAuth{}, registrar), nil)

	rec, env := do(t, router, http.MethodPost, "/register", `{
		"name":"Jane Doe","email":"jane@example.com","password":"secret123",
		"password_confirmation":"secret123","employee_id":"EMP100","joining_date":"2024-02-01"
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %+v", rec.Code, env)
	}
	if env.Message != "User registered successfully" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	if registrar.got.JoiningDate == nil || !registrar.got.JoiningDate.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected parsed joining date, got %v", registrar.got.JoiningDate)
	}

	rec, env = do(t, router, http.MethodPost, "/register", `{"email":"jane@example.com","joining_date":"01/02/2024"}`)
	if rec.Code != http.StatusBadRequest || env.Errors["joining_date"] == "" {
		t.Fatalf("expected joining_date error, got %d %+v", rec.Code, env)
	}

	registrar.err = apperror.ValidationField("email", "This email address is already registered.")
	rec, env = do(t, router, http.MethodPost, "/register", `{"email":"jane@example.com"}`)
	if rec.Code != http.StatusBadRequest || env.Errors["email"] != "This email address is already registered." {
		t.Fatalf("expected duplicate email error, got %d %+v", rec.Code, env)
	}
}

func TestLogout(t *testing.T) {
	authSvc := &fakeAuth{}
	router := newRouter(NewHandler(authSvc, &fakeRegistrar{}), nil)
	rec, _ := do(t, router, http.MethodPost, "/logout", ``)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	user := &auth.UserContext{UserID: "u1", Role: auth.RoleEmployee, TokenID: "jti-1"}
	router = newRouter(NewHandler(authSvc, &fakeRegistrar{}), user)
	rec, env := do(t, router, http.MethodPost, "/logout", ``)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected logout success, got %d %+v", rec.Code, env)
	}
	if len(authSvc.loggedOut) != 1 || authSvc.loggedOut[0].TokenID != "jti-1" {
		t.Fatalf("expected token jti-1 to be revoked, got %+v", authSvc.loggedOut)
	}
}
