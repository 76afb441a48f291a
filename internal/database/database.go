package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/tursodatabase/go-libsql"
)

// Dialect identifies the SQL dialect of an open connection. The store and
// the migration runner both branch on it.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// Open connects to the database named by url. A postgres:// or
// postgresql:// URL opens a Postgres connection via pgx; anything else is
// treated as a SQLite path and opened via libSQL, configured for
// concurrent use (WAL journal mode, 5 s busy timeout, foreign keys).
func Open(ctx context.Context, url string) (*sql.DB, Dialect, error) {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		db, err := sql.Open("pgx", url)
		if err != nil {
			return nil, "", fmt.Errorf("opening postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, "", fmt.Errorf("pinging postgres: %w", err)
		}
		return db, DialectPostgres, nil
	}

	if !strings.HasPrefix(url, "file:") {
		url = "file:" + url
	}
	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, "", fmt.Errorf("opening sqlite: %w", err)
	}

	// An in-memory database exists per connection; without this every
	// pooled connection would see its own empty database.
	if strings.Contains(url, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	// libSQL rejects Exec for PRAGMAs that return rows, but some PRAGMAs
	// (like foreign_keys=ON) return nothing. Use QueryContext and drain
	// rows to handle both cases uniformly.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		rows, err := db.QueryContext(ctx, p)
		if err != nil {
			db.Close()
			return nil, "", fmt.Errorf("executing %s: %w", p, err)
		}
		rows.Close()
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("pinging sqlite: %w", err)
	}

	return db, DialectSQLite, nil
}
