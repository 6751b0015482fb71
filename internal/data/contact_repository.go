package data

import (
	"context"
	"fmt"
	"go-portfolio-app/internal/content"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// ContactRepository stores contact messages, FAQs and social links.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// CreateMessage stores a new contact message with status new.
func (r *ContactRepository) CreateMessage(ctx context.Context, m *ContactMessage) error {
	if m.Status == "" {
		m.Status = content.MessageNew
	}
	if m.Reason == "" {
		m.Reason = content.ReasonGeneral
	}
	ts := now()
	m.CreatedAt, m.UpdatedAt = ts, ts
	id, err := insertRecord(ctx, r.db, "contact_messages", m)
	if err != nil {
		return fmt.Errorf("failed to store contact message: %w", err)
	}
	m.ID = id
	return nil
}

// GetMessage returns a contact message by id.
func (r *ContactRepository) GetMessage(ctx context.Context, id int64) (*ContactMessage, error) {
	var m ContactMessage
	if err := selectOne(ctx, r.db, &m, builder.Select("*").From("contact_messages").Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessages returns messages, important first and then newest first.
// An empty status lists every message.
func (r *ContactRepository) ListMessages(ctx context.Context, status content.MessageStatus) ([]*ContactMessage, error) {
	b := builder.Select("*").From("contact_messages").OrderBy("is_important DESC", "created_at DESC", "id DESC")
	if status != "" {
		b = b.Where(sq.Eq{"status": status})
	}
	var msgs []*ContactMessage
	if err := selectAll(ctx, r.db, &msgs, b); err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return msgs, nil
}

// SetStatus moves messages to status. Entering replied stamps replied_at.
func (r *ContactRepository) SetStatus(ctx context.Context, ids []int64, status content.MessageStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ts := now()
	b := builder.Update("contact_messages").Set("status", status).Set("updated_at", ts).Where(sq.Eq{"id": ids})
	if status == content.MessageReplied {
		b = b.Set("replied_at", ts)
	}
	return exec(ctx, r.db, b)
}

// SetImportant flags or unflags messages as important.
func (r *ContactRepository) SetImportant(ctx context.Context, ids []int64, important bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return exec(ctx, r.db, builder.Update("contact_messages").
		Set("is_important", important).Set("updated_at", now()).Where(sq.Eq{"id": ids}))
}

// CreateFAQ stores a FAQ entry.
func (r *ContactRepository) CreateFAQ(ctx context.Context, f *FAQ) error {
	id, err := insertRecord(ctx, r.db, "faqs", f)
	if err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}
	f.ID = id
	return nil
}

// ActiveFAQs lists active FAQs by (category, sort order).
func (r *ContactRepository) ActiveFAQs(ctx context.Context) ([]*FAQ, error) {
	var faqs []*FAQ
	b := builder.Select("*").From("faqs").Where(sq.Eq{"is_active": true}).OrderBy("category", "sort_order", "id")
	if err := selectAll(ctx, r.db, &faqs, b); err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}
	return faqs, nil
}

// CreateSocialLink stores a social link.
func (r *ContactRepository) CreateSocialLink(ctx context.Context, l *SocialLink) error {
	id, err := insertRecord(ctx, r.db, "social_links", l)
	if err != nil {
		return fmt.Errorf("failed to create social link: %w", err)
	}
	l.ID = id
	return nil
}

// ActiveSocialLinks lists active social links by sort order.
func (r *ContactRepository) ActiveSocialLinks(ctx context.Context) ([]*SocialLink, error) {
	var links []*SocialLink
	b := builder.Select("*").From("social_links").Where(sq.Eq{"is_active": true}).OrderBy("sort_order", "id")
	if err := selectAll(ctx, r.db, &links, b); err != nil {
		return nil, fmt.Errorf("failed to list social links: %w", err)
	}
	return links, nil
}
