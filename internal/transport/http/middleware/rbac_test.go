package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/policy"
)

func TestRequireAction(t *testing.T) {
	gate := RequireAction(policy.MustNew(), policy.LeaveStatistics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		user   *auth.UserContext
		status int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"employee", &auth.UserContext{UserID: "e1", Role: auth.RoleEmployee}, http.StatusForbidden},
		{"admin", &auth.UserContext{UserID: "a1", Role: auth.RoleAdmin}, http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.user != nil {
			req = req.WithContext(WithUser(req.Context(), *tc.user))
		}
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, rec.Code)
		}
	}
}
