package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/sqlite/*.sql
var sqliteMigrations embed.FS

// ApplySQLiteSchema executes the bundled SQLite migrations in file order.
// It backs throwaway databases (tests, seeding a fresh file) where the
// migration bookkeeping table is not wanted.
func ApplySQLiteSchema(ctx context.Context, dbConn *sqlx.DB) error {
	files, err := fs.Glob(sqliteMigrations, "migrations/sqlite/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, name := range files {
		stmt, err := sqliteMigrations.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := dbConn.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}
