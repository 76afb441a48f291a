package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/taletrail/trailgen/internal/game"
)

// adminToken logs in as the seeded admin.
func adminToken(t *testing.T, r *chi.Mux) string {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "admin@taletrail.app", Password: "changeme",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp AuthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.Token
}

func TestTemplateCreateRequiresAdmin(t *testing.T) {
	r, _ := testRouter(t)
	user := signup(t, r, "maria@example.com")

	w := doJSON(r, http.MethodPost, "/api/admin/templates", user, TemplateRequest{Name: "Victorian Murder"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error != "Admin access required" {
		t.Errorf("unexpected error message %q", resp.Error)
	}
}

func TestTemplateCRUD(t *testing.T) {
	r, _ := testRouter(t)
	admin := adminToken(t, r)
	user := signup(t, r, "maria@example.com")

	// Create.
	w := doJSON(r, http.MethodPost, "/api/admin/templates", admin, TemplateRequest{
		Name:           "Victorian Murder",
		Theme:          "murder",
		Description:    "A gaslit whodunit.",
		StoryFramework: "Three acts, one twist.",
		CharacterTypes: []string{"detective", "landlord"},
		PuzzleTypes:    []string{"cipher", "riddle"},
		Difficulty:     "hard",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created game.Template
	json.NewDecoder(w.Body).Decode(&created)
	if created.ID == "" {
		t.Fatal("expected a generated template id")
	}

	// Any authenticated user can read the catalog.
	w = doJSON(r, http.MethodGet, "/api/templates", user, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var templates []game.Template
	json.NewDecoder(w.Body).Decode(&templates)
	if len(templates) != 1 || templates[0].Name != "Victorian Murder" {
		t.Fatalf("unexpected catalog %+v", templates)
	}
	if len(templates[0].CharacterTypes) != 2 || templates[0].PuzzleTypes[0] != "cipher" {
		t.Errorf("template lists not preserved: %+v", templates[0])
	}

	// Update.
	w = doJSON(r, http.MethodPut, "/api/admin/templates/"+created.ID, admin, TemplateRequest{
		Name: "Victorian Murder", Theme: "murder", Difficulty: "easy",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated game.Template
	json.NewDecoder(w.Body).Decode(&updated)
	if updated.Difficulty != "easy" {
		t.Errorf("expected difficulty updated, got %q", updated.Difficulty)
	}

	// Delete.
	w = doJSON(r, http.MethodDelete, "/api/admin/templates/"+created.ID, admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	w = doJSON(r, http.MethodDelete, "/api/admin/templates/"+created.ID, admin, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", w.Code)
	}
}

func TestTemplateValidation(t *testing.T) {
	r, _ := testRouter(t)
	admin := adminToken(t, r)

	w := doJSON(r, http.MethodPost, "/api/admin/templates", admin, TemplateRequest{Name: ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/api/admin/templates", admin, TemplateRequest{
		Name: "Bad Difficulty", Difficulty: "impossible",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad difficulty, got %d", w.Code)
	}
}

func TestCleanupOrphans(t *testing.T) {
	r, store := testRouter(t)
	admin := adminToken(t, r)
	keeper := signup(t, r, "keeper@example.com")

	// An auth user with no profile row: orphaned state.
	ctx := context.Background()
	orphan, err := store.CreateUser(ctx, "ghost@example.com", "x")
	if err != nil {
		t.Fatalf("create orphan: %v", err)
	}
	if _, err := store.CreateGame(ctx, game.Game{UserID: orphan.ID, Title: "Ghost Trail"}); err != nil {
		t.Fatalf("create orphan game: %v", err)
	}

	w := doJSON(r, http.MethodPost, "/api/admin/cleanup-orphans", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp CleanupResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.DeletedUsers) != 1 || resp.DeletedUsers[0] != orphan.ID {
		t.Fatalf("unexpected deleted users %v", resp.DeletedUsers)
	}

	// The orphan and their games are gone.
	if _, err := store.UserByEmail(ctx, "ghost@example.com"); err != ErrNotFound {
		t.Errorf("expected orphan deleted, got err=%v", err)
	}
	games, _ := store.ListGames(ctx, orphan.ID)
	if len(games) != 0 {
		t.Errorf("expected orphan games deleted, got %d", len(games))
	}

	// Users with profiles survive.
	if w := doJSON(r, http.MethodGet, "/api/me", keeper, nil); w.Code != http.StatusOK {
		t.Errorf("keeper should still exist, got %d", w.Code)
	}
	if _, err := store.UserByEmail(ctx, "keeper@example.com"); err != nil {
		t.Errorf("keeper row missing: %v", err)
	}
}

func TestCleanupOrphansNoneFound(t *testing.T) {
	r, _ := testRouter(t)
	admin := adminToken(t, r)

	w := doJSON(r, http.MethodPost, "/api/admin/cleanup-orphans", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp CleanupResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.DeletedUsers) != 0 {
		t.Errorf("expected no deletions, got %v", resp.DeletedUsers)
	}
	if resp.Message != "no orphaned users found" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestCleanupOrphansForbidden(t *testing.T) {
	r, _ := testRouter(t)
	user := signup(t, r, "maria@example.com")

	w := doJSON(r, http.MethodPost, "/api/admin/cleanup-orphans", user, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestAdminListUsers(t *testing.T) {
	r, _ := testRouter(t)
	admin := adminToken(t, r)
	signup(t, r, "maria@example.com")

	w := doJSON(r, http.MethodGet, "/api/admin/users", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var users []UserSummary
	json.NewDecoder(w.Body).Decode(&users)
	// Seeded admin plus the signup.
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
