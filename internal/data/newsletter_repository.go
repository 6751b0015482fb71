package data

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// NewsletterRepository stores newsletter subscribers.
type NewsletterRepository struct {
	db *sqlx.DB
}

// NewNewsletterRepository creates a new NewsletterRepository.
func NewNewsletterRepository(db *sqlx.DB) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

// Subscribe signs email up in a single statement. A new address is created
// active, an inactive one is reactivated and takes the supplied name when
// it is not blank, and an already active one leaves the row untouched and
// returns ErrAlreadySubscribed.
func (r *NewsletterRepository) Subscribe(ctx context.Context, email, name string) (*NewsletterSubscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	var query string
	if r.db.DriverName() == DriverMySQL {
		// Assignments run left to right, so name is decided before
		// is_active flips.
		query = `INSERT INTO newsletter_subscribers (email, name, is_active, subscribed_at)
			VALUES (?, ?, 1, ?)
			ON DUPLICATE KEY UPDATE
				name = IF(is_active = 0 AND VALUES(name) <> '', VALUES(name), name),
				is_active = 1`
	} else {
		query = `INSERT INTO newsletter_subscribers (email, name, is_active, subscribed_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT(email) DO UPDATE SET
				is_active = 1,
				name = CASE WHEN excluded.name <> '' THEN excluded.name ELSE newsletter_subscribers.name END
			WHERE newsletter_subscribers.is_active = 0`
	}

	res, err := r.db.ExecContext(ctx, query, email, name, now())
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe %s: %w", email, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrAlreadySubscribed
	}
	return r.GetByEmail(ctx, email)
}

// GetByEmail returns the subscriber with the given address.
func (r *NewsletterRepository) GetByEmail(ctx context.Context, email string) (*NewsletterSubscriber, error) {
	var s NewsletterSubscriber
	b := builder.Select("*").From("newsletter_subscribers").Where(sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
	if err := selectOne(ctx, r.db, &s, b); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns subscribers, newest first. A nil active lists everyone.
func (r *NewsletterRepository) List(ctx context.Context, active *bool) ([]*NewsletterSubscriber, error) {
	b := builder.Select("*").From("newsletter_subscribers").OrderBy("subscribed_at DESC", "id DESC")
	if active != nil {
		b = b.Where(sq.Eq{"is_active": *active})
	}
	var subs []*NewsletterSubscriber
	if err := selectAll(ctx, r.db, &subs, b); err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subs, nil
}

// SetActive activates or deactivates subscribers.
func (r *NewsletterRepository) SetActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return exec(ctx, r.db, builder.Update("newsletter_subscribers").Set("is_active", active).Where(sq.Eq{"id": ids}))
}
