package middleware

import (
	"net/http"

	"leavemgmt/internal/domain/policy"
	"leavemgmt/internal/transport/http/api"
)

// RequireAction applies the role gate for action before the handler runs.
// Ownership rules still run in the services.
func RequireAction(p *policy.Policy, action policy.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthenticated", "Unauthenticated.", GetRequestID(r.Context()))
				return
			}
			if !p.Allowed(user.Role, action) {
				api.FailError(w, p.Can(policy.ActorFrom(user), action, nil), GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

