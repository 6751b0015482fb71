package data

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// CommentFlags is a moderation change. Nil fields are left untouched.
type CommentFlags struct {
	Approved *bool
	Spam     *bool
}

// CommentRepository stores reader comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// visibleComments selects approved, non-spam comments.
func visibleComments() sq.SelectBuilder {
	return builder.Select("*").From("comments").Where(sq.Eq{"is_approved": true, "is_spam": false})
}

// Create stores a new comment. A comment created as spam is never approved.
func (r *CommentRepository) Create(ctx context.Context, c *Comment) error {
	if c.IsSpam {
		c.IsApproved = false
	}
	ts := now()
	c.CreatedAt, c.UpdatedAt = ts, ts
	id, err := insertRecord(ctx, r.db, "comments", c)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	c.ID = id
	return nil
}

// GetByID returns a comment regardless of its moderation state.
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*Comment, error) {
	var c Comment
	if err := selectOne(ctx, r.db, &c, builder.Select("*").From("comments").Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}
	return &c, nil
}

// Visible returns the approved, non-spam top-level comments of a post,
// newest first, each with its visible replies attached oldest first.
func (r *CommentRepository) Visible(ctx context.Context, postID int64) ([]*Comment, error) {
	var top []*Comment
	b := visibleComments().Where(sq.Eq{"post_id": postID, "parent_id": nil}).OrderBy("created_at DESC", "id DESC")
	if err := selectAll(ctx, r.db, &top, b); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if len(top) == 0 {
		return top, nil
	}

	ids := make([]int64, len(top))
	byID := make(map[int64]*Comment, len(top))
	for i, c := range top {
		ids[i] = c.ID
		byID[c.ID] = c
	}
	var replies []*Comment
	b = visibleComments().Where(sq.Eq{"parent_id": ids}).OrderBy("created_at", "id")
	if err := selectAll(ctx, r.db, &replies, b); err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	for _, reply := range replies {
		parent := byID[*reply.ParentID]
		parent.Replies = append(parent.Replies, reply)
	}
	return top, nil
}

// SetCommentFlags applies a moderation change to the given comments. It is
// the only place comment flags are written: marking a comment as spam
// clears its approval in the same statement, while approving leaves the
// spam flag alone.
func (r *CommentRepository) SetCommentFlags(ctx context.Context, ids []int64, flags CommentFlags) (int64, error) {
	if len(ids) == 0 || (flags.Approved == nil && flags.Spam == nil) {
		return 0, nil
	}
	b := builder.Update("comments").Set("updated_at", now()).Where(sq.Eq{"id": ids})
	if flags.Spam != nil {
		b = b.Set("is_spam", *flags.Spam)
	}
	switch {
	case flags.Spam != nil && *flags.Spam:
		b = b.Set("is_approved", false)
	case flags.Approved != nil:
		b = b.Set("is_approved", *flags.Approved)
	}
	n, err := exec(ctx, r.db, b)
	if err != nil {
		return 0, fmt.Errorf("failed to moderate comments: %w", err)
	}
	return n, nil
}
