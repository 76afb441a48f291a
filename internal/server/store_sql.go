package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taletrail/trailgen/internal/database"
	"github.com/taletrail/trailgen/internal/game"
)

// SQLStore implements Store on database/sql. Queries are written with ?
// placeholders and rebound to $N for Postgres; everything else stays in
// the common subset of the two dialects.
type SQLStore struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewSQLStore(ctx context.Context, db *sql.DB, dialect database.Dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: dialect}
	if err := s.seedIfEmpty(ctx); err != nil {
		return nil, fmt.Errorf("seeding admin: %w", err)
	}
	return s, nil
}

// Default admin credentials: admin@taletrail.app / changeme.
const seedAdminHash = "$2a$10$trCdqP4npsbw0R1vQxVwXeT1HebzRmP01SXaNGPz1eSAZ7mpcL0Uu"

func (s *SQLStore) seedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)
	`), id, "admin@taletrail.app", seedAdminHash, now())
	if err != nil {
		return err
	}
	return s.UpsertProfile(ctx, game.Profile{UserID: id, Role: game.RoleAdmin})
}

// q rewrites ? placeholders to $1..$N when talking to Postgres. None of
// the store's queries contain a literal question mark.
func (s *SQLStore) q(query string) string {
	if s.dialect != database.DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// --- users ---

func (s *SQLStore) CreateUser(ctx context.Context, email, passwordHash string) (User, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT 1 FROM users WHERE lower(email) = lower(?)
	`), email).Scan(&exists)
	if err == nil {
		return User{}, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, err
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now(),
	}
	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)
	`), u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, email, password_hash, created_at FROM users WHERE lower(email) = lower(?)
	`), email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLStore) ListOrphanUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.password_hash, u.created_at
		FROM users u
		LEFT JOIN user_profiles p ON p.user_id = u.id
		WHERE p.user_id IS NULL
		ORDER BY u.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes the user together with their games and profile.
func (s *SQLStore) DeleteUser(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM games WHERE user_id = ?`,
		`DELETE FROM user_profiles WHERE user_id = ?`,
		`DELETE FROM users WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, s.q(stmt), id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// --- profiles ---

func (s *SQLStore) ProfileByUserID(ctx context.Context, userID string) (game.Profile, error) {
	var p game.Profile
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT user_id, role FROM user_profiles WHERE user_id = ?
	`), userID).Scan(&p.UserID, &p.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Profile{}, ErrNotFound
	}
	return p, err
}

func (s *SQLStore) UpsertProfile(ctx context.Context, p game.Profile) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO user_profiles (user_id, role) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET role = excluded.role
	`), p.UserID, p.Role)
	return err
}

// --- games ---

func scanGame(scan func(dest ...any) error) (game.Game, error) {
	var g game.Game
	var content, routeInfo string
	if err := scan(&g.ID, &g.UserID, &g.Title, &content, &routeInfo, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return game.Game{}, err
	}
	if err := json.Unmarshal([]byte(content), &g.Content); err != nil {
		return game.Game{}, fmt.Errorf("decoding game content: %w", err)
	}
	if err := json.Unmarshal([]byte(routeInfo), &g.RouteInfo); err != nil {
		return game.Game{}, fmt.Errorf("decoding route info: %w", err)
	}
	return g, nil
}

const gameColumns = `id, user_id, title, content, route_info, created_at, updated_at`

func (s *SQLStore) ListGames(ctx context.Context, userID string) ([]game.Game, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT `+gameColumns+` FROM games WHERE user_id = ? ORDER BY created_at DESC
	`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []game.Game
	for rows.Next() {
		g, err := scanGame(rows.Scan)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *SQLStore) GetGame(ctx context.Context, id, userID string) (game.Game, error) {
	row := s.db.QueryRowContext(ctx, s.q(`
		SELECT `+gameColumns+` FROM games WHERE id = ? AND user_id = ?
	`), id, userID)
	g, err := scanGame(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Game{}, ErrNotFound
	}
	return g, err
}

func (s *SQLStore) CreateGame(ctx context.Context, g game.Game) (game.Game, error) {
	g.ID = uuid.NewString()
	g.CreatedAt = now()
	g.UpdatedAt = g.CreatedAt

	content, err := json.Marshal(g.Content)
	if err != nil {
		return game.Game{}, err
	}
	routeInfo, err := json.Marshal(g.RouteInfo)
	if err != nil {
		return game.Game{}, err
	}

	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO games (id, user_id, title, content, route_info, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), g.ID, g.UserID, g.Title, string(content), string(routeInfo), g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return game.Game{}, err
	}
	return g, nil
}

func (s *SQLStore) UpdateGame(ctx context.Context, id, userID string, patch GamePatch) (game.Game, error) {
	sets := []string{"updated_at = ?"}
	args := []any{now()}

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Content != nil {
		content, err := json.Marshal(patch.Content)
		if err != nil {
			return game.Game{}, err
		}
		sets = append(sets, "content = ?")
		args = append(args, string(content))
	}
	if patch.RouteInfo != nil {
		routeInfo, err := json.Marshal(patch.RouteInfo)
		if err != nil {
			return game.Game{}, err
		}
		sets = append(sets, "route_info = ?")
		args = append(args, string(routeInfo))
	}

	args = append(args, id, userID)
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE games SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?
	`), args...)
	if err != nil {
		return game.Game{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return game.Game{}, err
	}
	if n == 0 {
		return game.Game{}, ErrNotFound
	}
	return s.GetGame(ctx, id, userID)
}

func (s *SQLStore) UpdateRouteInfo(ctx context.Context, id, userID string, ri game.RouteInfo) (bool, error) {
	routeInfo, err := json.Marshal(ri)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE games SET route_info = ?, updated_at = ? WHERE id = ? AND user_id = ?
	`), string(routeInfo), now(), id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *SQLStore) DeleteGame(ctx context.Context, id, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM games WHERE id = ? AND user_id = ?
	`), id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// --- templates ---

func scanTemplate(scan func(dest ...any) error) (game.Template, error) {
	var t game.Template
	var characters, puzzles string
	err := scan(&t.ID, &t.Name, &t.Theme, &t.Description, &t.StoryFramework,
		&characters, &puzzles, &t.Difficulty, &t.CreatedAt)
	if err != nil {
		return game.Template{}, err
	}
	if err := json.Unmarshal([]byte(characters), &t.CharacterTypes); err != nil {
		return game.Template{}, fmt.Errorf("decoding character types: %w", err)
	}
	if err := json.Unmarshal([]byte(puzzles), &t.PuzzleTypes); err != nil {
		return game.Template{}, fmt.Errorf("decoding puzzle types: %w", err)
	}
	return t, nil
}

const templateColumns = `id, name, theme, description, story_framework, character_types, puzzle_types, difficulty, created_at`

func (s *SQLStore) ListTemplates(ctx context.Context) ([]game.Template, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+templateColumns+` FROM game_templates ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []game.Template
	for rows.Next() {
		t, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func marshalStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func (s *SQLStore) CreateTemplate(ctx context.Context, req TemplateRequest) (game.Template, error) {
	characters, err := marshalStrings(req.CharacterTypes)
	if err != nil {
		return game.Template{}, err
	}
	puzzles, err := marshalStrings(req.PuzzleTypes)
	if err != nil {
		return game.Template{}, err
	}

	t := game.Template{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Theme:          req.Theme,
		Description:    req.Description,
		StoryFramework: req.StoryFramework,
		CharacterTypes: req.CharacterTypes,
		PuzzleTypes:    req.PuzzleTypes,
		Difficulty:     req.Difficulty,
		CreatedAt:      now(),
	}
	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO game_templates (id, name, theme, description, story_framework, character_types, puzzle_types, difficulty, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), t.ID, t.Name, t.Theme, t.Description, t.StoryFramework, characters, puzzles, t.Difficulty, t.CreatedAt)
	if err != nil {
		return game.Template{}, err
	}
	return t, nil
}

func (s *SQLStore) UpdateTemplate(ctx context.Context, id string, req TemplateRequest) (game.Template, error) {
	characters, err := marshalStrings(req.CharacterTypes)
	if err != nil {
		return game.Template{}, err
	}
	puzzles, err := marshalStrings(req.PuzzleTypes)
	if err != nil {
		return game.Template{}, err
	}

	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE game_templates
		SET name = ?, theme = ?, description = ?, story_framework = ?,
			character_types = ?, puzzle_types = ?, difficulty = ?
		WHERE id = ?
	`), req.Name, req.Theme, req.Description, req.StoryFramework,
		characters, puzzles, req.Difficulty, id)
	if err != nil {
		return game.Template{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return game.Template{}, err
	}
	if n == 0 {
		return game.Template{}, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, s.q(`
		SELECT `+templateColumns+` FROM game_templates WHERE id = ?
	`), id)
	return scanTemplate(row.Scan)
}

func (s *SQLStore) DeleteTemplate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM game_templates WHERE id = ?
	`), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
