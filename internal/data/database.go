package data

import (
	"embed"
	"errors"
	"fmt"
	"go-portfolio-app/internal/config"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

//go:embed migrations
var migrationsFS embed.FS

// builder renders squirrel statements with '?' placeholders, which both
// supported drivers accept.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// NewDB opens and pings a connection pool for the configured driver.
func NewDB(cfg config.DBConfig) (*sqlx.DB, error) {
	dsn, err := DriverDSN(cfg)
	if err != nil {
		return nil, err
	}
	// sqlx.Connect opens a connection and pings it to verify it's alive.
	db, err := sqlx.Connect(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// SQLite allows a single writer; serialising avoids SQLITE_BUSY storms.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	return db, nil
}

// DriverDSN returns the DSN handed to database/sql for cfg. MySQL DSNs are
// forced to parse DATETIME columns into time.Time in UTC; SQLite paths get
// foreign keys and a busy timeout.
func DriverDSN(cfg config.DBConfig) (string, error) {
	switch cfg.Driver {
	case DriverMySQL:
		mc, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN(), nil
	case DriverSQLite:
		if cfg.DSN == "" {
			return "", errors.New("sqlite dsn must name a database file")
		}
		sep := "?"
		if strings.Contains(cfg.DSN, "?") {
			sep = "&"
		}
		return cfg.DSN + sep + "_foreign_keys=on&_busy_timeout=5000", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// migrateURL converts cfg into the URL form golang-migrate expects.
func migrateURL(cfg config.DBConfig) (string, error) {
	switch cfg.Driver {
	case DriverMySQL:
		mc, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		mc.ParseTime = true
		mc.MultiStatements = true
		return "mysql://" + mc.FormatDSN(), nil
	case DriverSQLite:
		dsn, err := DriverDSN(cfg)
		if err != nil {
			return "", err
		}
		return "sqlite3://" + dsn, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// ApplyMigrations runs all up migrations embedded for the configured driver.
func ApplyMigrations(cfg config.DBConfig) error {
	src, err := iofs.New(migrationsFS, "migrations/"+cfg.Driver)
	if err != nil {
		return fmt.Errorf("failed to open migrations for %s: %w", cfg.Driver, err)
	}
	url, err := migrateURL(cfg)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	// Up applies all available up migrations.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// insertIgnore returns the INSERT option that turns a key collision into a
// no-op for the driver behind db.
func insertIgnore(db *sqlx.DB) string {
	if db.DriverName() == DriverMySQL {
		return "IGNORE"
	}
	return "OR IGNORE"
}

// now is the clock used for every timestamp written by the repositories.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
