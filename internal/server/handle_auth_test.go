package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestSignupAndLogin(t *testing.T) {
	r, _ := testRouter(t)
	signup(t, r, "maria@example.com")

	w := doJSON(r, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "maria@example.com", Password: "hunter2hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AuthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Token == "" {
		t.Fatal("login: expected a token")
	}
	if resp.User.Email != "maria@example.com" {
		t.Errorf("login: unexpected email %q", resp.User.Email)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	r, _ := testRouter(t)
	signup(t, r, "maria@example.com")

	w := doJSON(r, http.MethodPost, "/api/auth/signup", "", SignupRequest{
		Email: "maria@example.com", Password: "anotherpassword",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestSignupInvalid(t *testing.T) {
	r, _ := testRouter(t)

	tests := []SignupRequest{
		{Email: "not-an-email", Password: "hunter2hunter2"},
		{Email: "ok@example.com", Password: "short"},
	}
	for _, req := range tests {
		w := doJSON(r, http.MethodPost, "/api/auth/signup", "", req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%+v: expected 400, got %d", req, w.Code)
		}
	}
}

func TestLoginBadPassword(t *testing.T) {
	r, _ := testRouter(t)
	signup(t, r, "maria@example.com")

	w := doJSON(r, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "maria@example.com", Password: "wrongwrongwrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "nobody@example.com", Password: "whatever123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

// The store seeds an initial admin account into an empty database.
func TestSeededAdminLogin(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "admin@taletrail.app", Password: "changeme",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AuthResponse
	json.NewDecoder(w.Body).Decode(&resp)

	me := doJSON(r, http.MethodGet, "/api/me", resp.Token, nil)
	var meResp MeResponse
	json.NewDecoder(me.Body).Decode(&meResp)
	if meResp.Role != "admin" {
		t.Errorf("expected seeded admin role, got %q", meResp.Role)
	}
}

func TestMe(t *testing.T) {
	r, _ := testRouter(t)
	token := signup(t, r, "maria@example.com")

	w := doJSON(r, http.MethodGet, "/api/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp MeResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Email != "maria@example.com" {
		t.Errorf("unexpected email %q", resp.Email)
	}
	if resp.Role != "" {
		t.Errorf("expected no role for a fresh user, got %q", resp.Role)
	}
}

func TestMeWithoutToken(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(r, http.MethodGet, "/api/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestIsAdminNilIdentity(t *testing.T) {
	store := setupStore(t)

	if isAdmin(context.Background(), store, nil) {
		t.Error("nil identity must never be admin")
	}
}

func TestIsAdminNoProfile(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	// A user created without a profile row is non-admin by definition.
	u, err := store.CreateUser(ctx, "ghost@example.com", "x")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if isAdmin(ctx, store, &identity{ID: u.ID, Email: u.Email}) {
		t.Error("user without profile must not be admin")
	}
}
