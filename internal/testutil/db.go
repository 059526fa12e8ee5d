// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/smsgoals/internal/db"
)

// NewDB returns a migrated in-memory SQLite database closed at test end.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}
