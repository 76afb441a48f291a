package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/taletrail/trailgen/internal/game"
)

// SignupRequest is the request body for POST /api/auth/signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned on successful signup or login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MeResponse is the response for GET /api/me.
type MeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

func validateSignup(email, password string) string {
	if _, err := mail.ParseAddress(email); err != nil {
		return "a valid email is required"
	}
	if len(password) < 8 || len(password) > 100 {
		return "password must be 8-100 chars"
	}
	return ""
}

func handleSignup(logger *slog.Logger, store Store, auth *Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if msg := validateSignup(req.Email, req.Password); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		u, err := store.CreateUser(r.Context(), req.Email, string(hash))
		if errors.Is(err, ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		if err != nil {
			logger.Error("creating user", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// Every signed-up user gets a profile row; users without one are
		// orphans from the admin cleanup's point of view.
		if err := store.UpsertProfile(r.Context(), game.Profile{UserID: u.ID}); err != nil {
			logger.Error("creating profile", "user_id", u.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		token, err := auth.Sign(u)
		if err != nil {
			logger.Error("signing token", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: u})
	}
}

func handleLogin(logger *slog.Logger, store Store, auth *Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		u, err := store.UserByEmail(r.Context(), req.Email)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			logger.Error("looking up user", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := auth.Sign(u)
		if err != nil {
			logger.Error("signing token", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: u})
	}
}

func handleMe(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := identityFrom(r)

		resp := MeResponse{ID: ident.ID, Email: ident.Email}
		if p, err := store.ProfileByUserID(r.Context(), ident.ID); err == nil {
			resp.Role = p.Role
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
