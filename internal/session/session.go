// Package session wires the scs session manager used for admin logins.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"go-portfolio-app/internal/config"
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Manager is an interface that abstracts the session management implementation.
// This allows for easier testing and dependency injection.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	PopString(ctx context.Context, key string) string
	Destroy(ctx context.Context) error
	Remove(ctx context.Context, key string)
	RenewToken(ctx context.Context) error
}

var _ Manager = (*scs.SessionManager)(nil)

// New creates a session manager storing sessions in the application
// database, in the sessions table created by the migrations.
func New(db *sql.DB, driver string, cfg config.SessionConfig, secure bool) (*scs.SessionManager, error) {
	sm := scs.New()
	switch driver {
	case "mysql":
		sm.Store = mysqlstore.New(db)
	case "sqlite3":
		sm.Store = sqlite3store.New(db)
	default:
		return nil, fmt.Errorf("unsupported session store driver %q", driver)
	}
	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = 24
	}
	sm.Lifetime = time.Duration(lifetime) * time.Hour
	sm.Cookie.Name = "portfolio_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Persist = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = secure
	return sm, nil
}
