package data

import (
	"context"
	"errors"
	"fmt"
	"go-portfolio-app/internal/content"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// postListingOrder is the public ordering of posts.
var postListingOrder = []string{"p.is_featured DESC", "p.published_at DESC", "p.created_at DESC"}

// PostFilter narrows the set of published posts.
type PostFilter struct {
	// Query is a case-insensitive substring matched against title, content,
	// excerpt and tag names. Blank means no filter.
	Query string
	// TitleOnly restricts Query to title and excerpt, as used by the live
	// search box.
	TitleOnly    bool
	CategoryID   int64
	TagID        int64
	FeaturedOnly bool
	ExcludeIDs   []int64
	// Recent orders by publication date instead of the listing order.
	Recent bool
}

// PostRepository provides access to posts, their tags and view records.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

func publishedPosts(columns ...string) sq.SelectBuilder {
	return builder.Select(columns...).From("posts p").Where(sq.Eq{"p.status": content.PostPublished})
}

func (f PostFilter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if q := strings.TrimSpace(f.Query); q != "" {
		pat := containsPattern(q)
		if f.TitleOnly {
			b = b.Where(sq.Or{ilike("p.title", pat), ilike("p.excerpt", pat)})
		} else {
			b = b.Where(sq.Or{
				ilike("p.title", pat),
				ilike("p.content", pat),
				ilike("p.excerpt", pat),
				sq.Expr("EXISTS (SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id"+
					" WHERE pt.post_id = p.id AND LOWER(t.name) LIKE ? ESCAPE '"+likeEscape+"')", pat),
			})
		}
	}
	if f.CategoryID != 0 {
		b = b.Where(sq.Eq{"p.category_id": f.CategoryID})
	}
	if f.TagID != 0 {
		b = b.Where(sq.Expr("EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = ?)", f.TagID))
	}
	if f.FeaturedOnly {
		b = b.Where(sq.Eq{"p.is_featured": true})
	}
	if len(f.ExcludeIDs) > 0 {
		b = b.Where(sq.NotEq{"p.id": f.ExcludeIDs})
	}
	return b
}

// ListPublished returns published posts matching f in listing order. A
// limit of zero returns every match.
func (r *PostRepository) ListPublished(ctx context.Context, f PostFilter, limit, offset int) ([]*Post, error) {
	b := f.apply(publishedPosts("p.*"))
	if f.Recent {
		b = b.OrderBy("p.published_at DESC", "p.created_at DESC")
	} else {
		b = b.OrderBy(postListingOrder...)
	}
	var posts []*Post
	if err := selectAll(ctx, r.db, &posts, page(b, limit, offset)); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// CountPublished counts published posts matching f.
func (r *PostRepository) CountPublished(ctx context.Context, f PostFilter) (int, error) {
	n, err := count(ctx, r.db, f.apply(publishedPosts("COUNT(*)")))
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

// PublishedBySlug returns a published post. Drafts and archived posts are
// reported as ErrNotFound.
func (r *PostRepository) PublishedBySlug(ctx context.Context, slug string) (*Post, error) {
	var p Post
	if err := selectOne(ctx, r.db, &p, publishedPosts("p.*").Where(sq.Eq{"p.slug": slug})); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID returns a post regardless of its status.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*Post, error) {
	var p Post
	if err := selectOne(ctx, r.db, &p, builder.Select("*").From("posts").Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts p and links it to tagIDs. A missing slug is derived from
// the title with a numeric suffix on collision; an explicit slug that is
// already taken fails with ErrDuplicate. A missing excerpt is derived from
// the content.
func (r *PostRepository) Create(ctx context.Context, p *Post, tagIDs []int64) error {
	if p.Slug == "" {
		s, err := content.UniqueSlug(ctx, p.Title, slugExists(r.db, "posts"))
		if err != nil {
			return err
		}
		p.Slug = s
	}
	if p.Excerpt == "" {
		p.Excerpt = content.Excerpt(p.Content)
	}
	if p.Status == "" {
		p.Status = content.PostDraft
	}
	if p.ReadingTime == 0 {
		p.ReadingTime = 5
	}
	ts := now()
	p.CreatedAt, p.UpdatedAt = ts, ts
	if p.Status == content.PostPublished && p.PublishedAt == nil {
		p.PublishedAt = &ts
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		id, err := insertRecord(ctx, tx, "posts", p)
		if err != nil {
			return fmt.Errorf("failed to create post %q: %w", p.Slug, err)
		}
		p.ID = id
		return linkAll(ctx, tx, "post_tags", "post_id", "tag_id", id, tagIDs)
	})
}

// Update writes every column of p. The excerpt is re-derived when blank.
func (r *PostRepository) Update(ctx context.Context, p *Post) error {
	if p.Excerpt == "" {
		p.Excerpt = content.Excerpt(p.Content)
	}
	p.UpdatedAt = now()
	if err := updateRecord(ctx, r.db, "posts", p.ID, p); err != nil {
		return fmt.Errorf("failed to update post %d: %w", p.ID, err)
	}
	return nil
}

// SetStatus moves posts to status. Publishing stamps published_at on posts
// that were never published.
func (r *PostRepository) SetStatus(ctx context.Context, ids []int64, status content.PostStatus) (int64, error) {
	ts := now()
	b := builder.Update("posts").Set("status", status).Set("updated_at", ts).Where(sq.Eq{"id": ids})
	if status == content.PostPublished {
		b = b.Set("published_at", sq.Expr("COALESCE(published_at, ?)", ts))
	}
	return exec(ctx, r.db, b)
}

// SetFeatured sets the featured flag on posts.
func (r *PostRepository) SetFeatured(ctx context.Context, ids []int64, featured bool) (int64, error) {
	return exec(ctx, r.db, builder.Update("posts").Set("is_featured", featured).Set("updated_at", now()).Where(sq.Eq{"id": ids}))
}

// Related returns up to limit published posts, other than p, that share
// its category or at least one tag, in listing order.
func (r *PostRepository) Related(ctx context.Context, p *Post, limit int) ([]*Post, error) {
	shared := sq.Or{sq.Expr("EXISTS (SELECT 1 FROM post_tags a JOIN post_tags b ON a.tag_id = b.tag_id"+
		" WHERE a.post_id = p.id AND b.post_id = ?)", p.ID)}
	if p.CategoryID != nil {
		shared = append(shared, sq.Eq{"p.category_id": *p.CategoryID})
	}
	b := publishedPosts("p.*").Where(sq.NotEq{"p.id": p.ID}).Where(shared).OrderBy(postListingOrder...)
	var posts []*Post
	if err := selectAll(ctx, r.db, &posts, page(b, limit, 0)); err != nil {
		return nil, fmt.Errorf("failed to list related posts: %w", err)
	}
	return posts, nil
}

// Next returns the published post published immediately after p, or nil.
func (r *PostRepository) Next(ctx context.Context, p *Post) (*Post, error) {
	if p.PublishedAt == nil {
		return nil, nil
	}
	return r.adjacent(ctx, sq.Gt{"p.published_at": *p.PublishedAt}, "p.published_at ASC")
}

// Previous returns the published post published immediately before p, or nil.
func (r *PostRepository) Previous(ctx context.Context, p *Post) (*Post, error) {
	if p.PublishedAt == nil {
		return nil, nil
	}
	return r.adjacent(ctx, sq.Lt{"p.published_at": *p.PublishedAt}, "p.published_at DESC")
}

func (r *PostRepository) adjacent(ctx context.Context, cond sq.Sqlizer, order string) (*Post, error) {
	var p Post
	err := selectOne(ctx, r.db, &p, publishedPosts("p.*").Where(cond).OrderBy(order, "p.id").Limit(1))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load adjacent post: %w", err)
	}
	return &p, nil
}

// RecordView increments the post's view counter and stores a PostView row
// in one transaction.
func (r *PostRepository) RecordView(ctx context.Context, postID int64, ip, userAgent string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := exec(ctx, tx, builder.Update("posts").
			Set("views_count", sq.Expr("views_count + 1")).
			Where(sq.Eq{"id": postID})); err != nil {
			return fmt.Errorf("failed to increment views for post %d: %w", postID, err)
		}
		view := &PostView{PostID: postID, IPAddress: ip, UserAgent: userAgent, ViewedAt: now()}
		if _, err := insertRecord(ctx, tx, "post_views", view); err != nil {
			return fmt.Errorf("failed to record view for post %d: %w", postID, err)
		}
		return nil
	})
}

// TagsFor returns the tags of each post, keyed by post id, ordered by name.
func (r *PostRepository) TagsFor(ctx context.Context, postIDs []int64) (map[int64][]*Tag, error) {
	out := make(map[int64][]*Tag, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID int64 `db:"post_id"`
		Tag
	}
	b := builder.Select("pt.post_id", "t.*").From("post_tags pt").Join("tags t ON t.id = pt.tag_id").
		Where(sq.Eq{"pt.post_id": postIDs}).OrderBy("t.name")
	if err := selectAll(ctx, r.db, &rows, b); err != nil {
		return nil, fmt.Errorf("failed to load post tags: %w", err)
	}
	for i := range rows {
		t := rows[i].Tag
		out[rows[i].PostID] = append(out[rows[i].PostID], &t)
	}
	return out, nil
}

// linkAll inserts (ownerID, id) pairs into a join table.
func linkAll(ctx context.Context, tx *sqlx.Tx, table, ownerCol, refCol string, ownerID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	b := builder.Insert(table).Columns(ownerCol, refCol)
	for _, id := range ids {
		b = b.Values(ownerID, id)
	}
	if _, err := exec(ctx, tx, b); err != nil {
		return fmt.Errorf("failed to link %s: %w", table, err)
	}
	return nil
}
