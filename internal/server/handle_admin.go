package server

import (
	"log/slog"
	"net/http"
)

// CleanupResponse is the response for POST /api/admin/cleanup-orphans.
type CleanupResponse struct {
	Message      string   `json:"message"`
	DeletedUsers []string `json:"deletedUsers"`
}

// UserSummary is returned from the admin user listing.
type UserSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// handleCleanupOrphans deletes users that have no profile row, along
// with any games they own. Profiles are the system of record; a user
// without one is leftover auth state.
func handleCleanupOrphans(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orphans, err := store.ListOrphanUsers(r.Context())
		if err != nil {
			logger.Error("listing orphan users", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		deleted := []string{}
		for _, u := range orphans {
			if err := store.DeleteUser(r.Context(), u.ID); err != nil {
				logger.Error("deleting orphan user", "user_id", u.ID, "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			deleted = append(deleted, u.ID)
			logger.Info("deleted orphan user", "user_id", u.ID, "email", u.Email)
		}

		msg := "no orphaned users found"
		if len(deleted) > 0 {
			msg = "orphaned users deleted"
		}
		writeJSON(w, http.StatusOK, CleanupResponse{Message: msg, DeletedUsers: deleted})
	}
}

func handleAdminListUsers(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := store.ListUsers(r.Context())
		if err != nil {
			logger.Error("listing users", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]UserSummary, 0, len(users))
		for _, u := range users {
			out = append(out, UserSummary{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
