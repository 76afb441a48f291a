package server

import (
	"context"
	"net/http"

	"github.com/taletrail/trailgen/internal/game"
)

// isAdmin reports whether ident may use the admin surface. The profile
// role is the sole signal; a nil identity, a missing profile row, or any
// lookup failure all mean non-admin (fail closed).
func isAdmin(ctx context.Context, store Store, ident *identity) bool {
	if ident == nil {
		return false
	}
	p, err := store.ProfileByUserID(ctx, ident.ID)
	if err != nil {
		return false
	}
	return p.Role == game.RoleAdmin
}

// requireAdmin gates a route subtree on the admin role. It runs after
// authMiddleware, so an identity is always present. Note the asymmetry:
// admins get template management and user cleanup, never access to other
// users' games.
func requireAdmin(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := identityFrom(r)
			if !isAdmin(r.Context(), store, &ident) {
				writeError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
