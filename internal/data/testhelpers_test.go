//go:build integration

package data

import (
	"path/filepath"
	"testing"

	"go-portfolio-app/internal/config"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// newTestDB returns a migrated SQLite database in a temporary directory.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	cfg := config.DBConfig{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "test.db")}
	require.NoError(t, ApplyMigrations(cfg))
	db, err := NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
