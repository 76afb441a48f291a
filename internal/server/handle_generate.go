package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taletrail/trailgen/internal/ai"
)

// GenerateRequest is the request body for POST /api/generate. Provider
// selects a registered generation backend; empty means the server's
// configured default.
type GenerateRequest struct {
	Provider      string `json:"provider"`
	Theme         string `json:"theme"`
	City          string `json:"city"`
	Difficulty    string `json:"difficulty"`
	LocationCount int    `json:"locationCount"`
}

func (req *GenerateRequest) validate() string {
	req.Theme = strings.TrimSpace(req.Theme)
	req.City = strings.TrimSpace(req.City)
	req.Difficulty = strings.TrimSpace(req.Difficulty)
	if req.Theme == "" {
		return "theme is required"
	}
	if req.City == "" {
		return "city is required"
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}
	if !validDifficulties[req.Difficulty] {
		return "difficulty must be easy, medium, or hard"
	}
	if req.LocationCount < 0 || req.LocationCount > 12 {
		return "locationCount must be between 0 and 12"
	}
	return ""
}

func handleGenerate(logger *slog.Logger, providers func(name string) (ai.Provider, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		provider, err := providers(req.Provider)
		if err != nil {
			if errors.Is(err, ai.ErrUnknownProvider) {
				writeError(w, http.StatusBadRequest, "unknown provider")
				return
			}
			logger.Error("initializing provider", "provider", req.Provider, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		content, err := provider.Generate(r.Context(), ai.Request{
			Theme:         req.Theme,
			City:          req.City,
			Difficulty:    req.Difficulty,
			LocationCount: req.LocationCount,
		})
		if err != nil {
			logger.Error("generating content", "provider", provider.Name(), "error", err)
			writeError(w, http.StatusBadGateway, "content generation failed")
			return
		}

		writeJSON(w, http.StatusOK, content)
	}
}
