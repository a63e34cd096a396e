// Package dbtest hands out throwaway SQLite databases with the schema applied.
package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"hoyspace-api/database"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var seq atomic.Int64

// Open returns an isolated in-memory database closed at test cleanup.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	// A single connection keeps every statement on the same in-memory database.
	dsn := fmt.Sprintf("file:hoyspace_test_%d?mode=memory&cache=shared&_foreign_keys=on", seq.Add(1))
	dbConn, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	dbConn.SetMaxOpenConns(1)
	t.Cleanup(func() { dbConn.Close() })

	if err := database.ApplySQLiteSchema(context.Background(), dbConn); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return dbConn
}
