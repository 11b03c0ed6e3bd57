// Package dbtest provides a throwaway in-memory store for package tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/uptrace/bun"

	"github.com/padraicbc/courseapi/db"
)

// Open returns a fresh in-memory SQLite database with the full schema.
// It is closed automatically when the test ends.
func Open(t testing.TB) *bun.DB {
	t.Helper()

	bdb, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = bdb.Close() })

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return bdb
}
