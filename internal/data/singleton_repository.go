package data

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// SingletonRepository stores a table that holds exactly one row, keyed by
// SingletonID.
type SingletonRepository[T any] struct {
	db       *sqlx.DB
	table    string
	defaults func() *T
}

// NewSiteConfigurationRepository returns the repository for the site
// settings record.
func NewSiteConfigurationRepository(db *sqlx.DB) *SingletonRepository[SiteConfiguration] {
	return &SingletonRepository[SiteConfiguration]{db: db, table: "site_configuration", defaults: func() *SiteConfiguration {
		return &SiteConfiguration{
			SiteName:           "Developer Portfolio",
			EnableDarkMode:     true,
			EnableBlog:         true,
			EnableContactForm:  true,
			EnableTestimonials: true,
		}
	}}
}

// NewContactInfoRepository returns the repository for the contact details
// record.
func NewContactInfoRepository(db *sqlx.DB) *SingletonRepository[ContactInfo] {
	return &SingletonRepository[ContactInfo]{db: db, table: "contact_info", defaults: func() *ContactInfo {
		return &ContactInfo{}
	}}
}

// NewPersonalInfoRepository returns the repository for the owner's
// personal information record.
func NewPersonalInfoRepository(db *sqlx.DB) *SingletonRepository[PersonalInfo] {
	return &SingletonRepository[PersonalInfo]{db: db, table: "personal_info", defaults: func() *PersonalInfo {
		return &PersonalInfo{}
	}}
}

func (r *SingletonRepository[T]) insertSQL(option string) string {
	cols := columnsOf(new(T))
	verb := "INSERT"
	if option != "" {
		verb += " " + option
	}
	return fmt.Sprintf("%s INTO %s (id, %s) VALUES (%d, %s)", verb, r.table,
		strings.Join(cols, ", "), SingletonID, strings.Join(namedPlaceholders(cols), ", "))
}

// Get returns the record, creating it with default values first when it
// does not exist yet. Concurrent first calls all observe the same row: the
// insert is ignored when the fixed key is already taken.
func (r *SingletonRepository[T]) Get(ctx context.Context) (*T, error) {
	if _, err := r.db.NamedExecContext(ctx, r.insertSQL(insertIgnore(r.db)), r.defaults()); err != nil {
		return nil, fmt.Errorf("failed to initialise %s: %w", r.table, err)
	}
	v := new(T)
	if err := selectOne(ctx, r.db, v, builder.Select("*").From(r.table).Where(sq.Eq{"id": SingletonID})); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", r.table, err)
	}
	return v, nil
}

// Create inserts the record. It fails with ErrSingletonExists when the row
// is already present.
func (r *SingletonRepository[T]) Create(ctx context.Context, v *T) error {
	if _, err := r.db.NamedExecContext(ctx, r.insertSQL(""), v); err != nil {
		if IsUniqueViolation(err) {
			return ErrSingletonExists
		}
		return fmt.Errorf("failed to create %s: %w", r.table, err)
	}
	return nil
}

// Update overwrites the record, creating it first when necessary.
func (r *SingletonRepository[T]) Update(ctx context.Context, v *T) error {
	if _, err := r.Get(ctx); err != nil {
		return err
	}
	if err := updateRecord(ctx, r.db, r.table, SingletonID, v); err != nil {
		return fmt.Errorf("failed to update %s: %w", r.table, err)
	}
	return nil
}
