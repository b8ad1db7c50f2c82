package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"leavemgmt/internal/platform/apperror"
	"leavemgmt/internal/requestctx"
	"leavemgmt/internal/transport/http/api"
)

// Recoverer turns a handler panic into a 500 envelope.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			requestctx.Logger(r.Context()).Error("panic recovered",
				zap.Any("panic", rec),
				zap.String("path", r.URL.Path),
				zap.Stack("stack"),
			)
			api.Fail(w, http.StatusInternalServerError, string(apperror.KindUnexpected), "Something went wrong", GetRequestID(r.Context()))
		}()
		next.ServeHTTP(w, r)
	})
}
