package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/taletrail/trailgen/internal/database"
)

//go:embed *.sql
var fs embed.FS

// Run applies all pending migrations against db. The migration SQL is
// written to the common subset of SQLite and Postgres, so only the goose
// dialect differs between the two.
func Run(db *sql.DB, dialect database.Dialect) error {
	goose.SetBaseFS(fs)

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
