package server

import (
	"context"
	"net/http"
)

type ctxKey int

const ctxKeyIdentity ctxKey = iota

// authMiddleware requires a valid bearer token and stores the resolved
// identity in the request context.
func authMiddleware(auth *Auth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := identityFromRequest(r, auth)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFrom(r *http.Request) identity {
	return r.Context().Value(ctxKeyIdentity).(identity)
}
