//go:build unit

package session

import (
	"database/sql"
	"go-portfolio-app/internal/config"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sm, err := New(db, "sqlite3", config.SessionConfig{}, true)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, sm.Lifetime)
	assert.True(t, sm.Cookie.Secure)
	assert.Equal(t, "portfolio_session", sm.Cookie.Name)
}

func TestNew_MySQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectQuery(`SELECT VERSION\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("8.0.36-log"))

	sm, err := New(db, "mysql", config.SessionConfig{Lifetime: 2}, false)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, sm.Lifetime)
	assert.False(t, sm.Cookie.Secure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(&sql.DB{}, "postgres", config.SessionConfig{}, false)
	assert.Error(t, err)
}
