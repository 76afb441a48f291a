package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taletrail/trailgen/internal/game"
)

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

func (req *TemplateRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	req.Theme = strings.TrimSpace(req.Theme)
	req.Difficulty = strings.TrimSpace(req.Difficulty)
	if req.Name == "" {
		return "name is required"
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}
	if !validDifficulties[req.Difficulty] {
		return "difficulty must be easy, medium, or hard"
	}
	return ""
}

// handleListTemplates serves the catalog to any authenticated user.
func handleListTemplates(logger *slog.Logger, store Store, cache *TemplateCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templates, err := cache.List(r.Context(), store)
		if err != nil {
			logger.Error("listing templates", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if templates == nil {
			templates = []game.Template{}
		}
		writeJSON(w, http.StatusOK, templates)
	}
}

func handleCreateTemplate(logger *slog.Logger, store Store, cache *TemplateCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TemplateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		t, err := store.CreateTemplate(r.Context(), req)
		if err != nil {
			logger.Error("creating template", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		cache.Invalidate(r.Context())
		writeJSON(w, http.StatusCreated, t)
	}
}

func handleUpdateTemplate(logger *slog.Logger, store Store, cache *TemplateCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TemplateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		t, err := store.UpdateTemplate(r.Context(), chi.URLParam(r, "templateID"), req)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "template not found")
			return
		}
		if err != nil {
			logger.Error("updating template", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		cache.Invalidate(r.Context())
		writeJSON(w, http.StatusOK, t)
	}
}

func handleDeleteTemplate(logger *slog.Logger, store Store, cache *TemplateCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeleteTemplate(r.Context(), chi.URLParam(r, "templateID"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "template not found")
			return
		}
		if err != nil {
			logger.Error("deleting template", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		cache.Invalidate(r.Context())
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}
