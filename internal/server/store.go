package server

import (
	"context"
	"errors"

	"github.com/taletrail/trailgen/internal/game"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// User is an account row. PasswordHash never leaves the server.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"createdAt"`
}

// GamePatch is a partial update to a game. Only these fields are mutable;
// id and user_id never change after creation. A nil field is left alone.
type GamePatch struct {
	Title     *string
	Content   *game.Content
	RouteInfo *game.RouteInfo
}

// TemplateRequest is the body for creating or updating a game template.
type TemplateRequest struct {
	Name           string   `json:"name"`
	Theme          string   `json:"theme"`
	Description    string   `json:"description"`
	StoryFramework string   `json:"storyFramework"`
	CharacterTypes []string `json:"characterTypes"`
	PuzzleTypes    []string `json:"puzzleTypes"`
	Difficulty     string   `json:"difficulty"`
}

type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)

	ProfileByUserID(ctx context.Context, userID string) (game.Profile, error)
	UpsertProfile(ctx context.Context, p game.Profile) error

	// Orphans are users with no profile row; deleting one removes the
	// user and every game they own.
	ListOrphanUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error

	// Game reads and writes are owner-scoped: id alone never selects a
	// row, so a caller cannot distinguish another user's game from a
	// nonexistent one.
	ListGames(ctx context.Context, userID string) ([]game.Game, error)
	GetGame(ctx context.Context, id, userID string) (game.Game, error)
	CreateGame(ctx context.Context, g game.Game) (game.Game, error)
	UpdateGame(ctx context.Context, id, userID string, patch GamePatch) (game.Game, error)
	UpdateRouteInfo(ctx context.Context, id, userID string, ri game.RouteInfo) (bool, error)
	DeleteGame(ctx context.Context, id, userID string) (bool, error)

	ListTemplates(ctx context.Context) ([]game.Template, error)
	CreateTemplate(ctx context.Context, req TemplateRequest) (game.Template, error)
	UpdateTemplate(ctx context.Context, id string, req TemplateRequest) (game.Template, error)
	DeleteTemplate(ctx context.Context, id string) error
}
