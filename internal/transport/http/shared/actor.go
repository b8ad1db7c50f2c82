package shared

import (
	"net/http"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/policy"
	"leavemgmt/internal/transport/http/api"
	"leavemgmt/internal/transport/http/middleware"
)

// Actor returns the authenticated caller. When there is none it writes a
// 401 and returns false.
func Actor(w http.ResponseWriter, r *http.Request) (policy.Actor, bool) {
	user, ok := CurrentUser(w, r)
	if !ok {
		return policy.Actor{}, false
	}
	return policy.ActorFrom(user), true
}

func CurrentUser(w http.ResponseWriter, r *http.Request) (auth.UserContext, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthenticated", "Unauthenticated.", middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, false
	}
	return user, true
}
