package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taletrail/trailgen/internal/game"
)

// CreateGameRequest is the request body for POST /api/games.
type CreateGameRequest struct {
	Title   string       `json:"title"`
	Content game.Content `json:"content"`
}

// UpdateGameRequest is a partial update. Absent fields are left alone;
// anything outside this allow-list is ignored. When Content is present
// the route info is recomputed from its locations, overriding any
// RouteInfo the client sent alongside (derived data wins over stale
// client values).
type UpdateGameRequest struct {
	Title     *string         `json:"title"`
	Content   *game.Content   `json:"content"`
	RouteInfo *game.RouteInfo `json:"routeInfo"`
}

// RouteInfoRequest is the request body for PUT /api/games/{id}/route.
type RouteInfoRequest struct {
	RouteInfo *game.RouteInfo `json:"routeInfo"`
}

// SuccessResponse reports a boolean outcome for operations that do not
// treat a missing or non-owned game as an error.
type SuccessResponse struct {
	Success bool `json:"success"`
}

func (req *CreateGameRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title is required"
	}
	return ""
}

func handleListGames(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := identityFrom(r)

		games, err := store.ListGames(r.Context(), ident.ID)
		if err != nil {
			logger.Error("listing games", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if games == nil {
			games = []game.Game{}
		}
		writeJSON(w, http.StatusOK, games)
	}
}

func handleGetGame(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := identityFrom(r)

		g, err := store.GetGame(r.Context(), chi.URLParam(r, "gameID"), ident.ID)
		if errors.Is(err, ErrNotFound) {
			// Non-owned and nonexistent look identical on purpose.
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			logger.Error("getting game", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func handleCreateGame(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := identityFrom(r)

		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		g, err := store.CreateGame(r.Context(), game.Game{
			UserID:    ident.ID,
			Title:     req.Title,
			Content:   req.Content,
			RouteInfo: game.EstimateRoute(req.Content.Locations),
		})
		if err != nil {
			logger.Error("creating game", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

func handleUpdateGame(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := identityFrom(r)

		var req UpdateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Title == nil && req.Content == nil && req.RouteInfo == nil {
			writeError(w, http.StatusBadRequest, "no updatable fields in request")
			return
		}

		patch := GamePatch{Title: req.Title, Content: req.Content, RouteInfo: req.RouteInfo}
		if req.Content != nil {
			ri := game.EstimateRoute(req.Content.Locations)
			patch.RouteInfo = &ri
		}

		g, err := store.UpdateGame(r.Context(), chi.URLParam(r, "gameID"), ident.ID, patch)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			logger.Error("updating game", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

// handleRecalculateRoutes recomputes route info from the stored
// locations of every game the caller owns, persists the results, and
// returns the refreshed list. This repairs games whose route info was
// overwritten with external values that no longer match their stops.
func handleRecalculateRoutes(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := identityFrom(r)

		games, err := store.ListGames(r.Context(), ident.ID)
		if err != nil {
			logger.Error("listing games for recalculation", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		games = game.RecalculateRoutes(games)
		for _, g := range games {
			if _, err := store.UpdateRouteInfo(r.Context(), g.ID, ident.ID, g.RouteInfo); err != nil {
				logger.Error("persisting recalculated route", "game", g.ID, "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}
		writeJSON(w, http.StatusOK, games)
	}
}

// handleUpdateRouteInfo persists an externally computed route summary
// verbatim. Unlike the general update it recomputes nothing, and a
// missing or non-owned game is reported as success:false rather than 404.
func handleUpdateRouteInfo(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := identityFrom(r)

		var req RouteInfoRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.RouteInfo == nil {
			writeError(w, http.StatusBadRequest, "routeInfo is required")
			return
		}

		ok, err := store.UpdateRouteInfo(r.Context(), chi.URLParam(r, "gameID"), ident.ID, *req.RouteInfo)
		if err != nil {
			logger.Error("updating route info", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, SuccessResponse{Success: ok})
	}
}

func handleDeleteGame(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := identityFrom(r)

		ok, err := store.DeleteGame(r.Context(), chi.URLParam(r, "gameID"), ident.ID)
		if err != nil {
			logger.Error("deleting game", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}
