package data

import (
	"context"
	"fmt"
	"go-portfolio-app/internal/content"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// TaxonomyRepository stores blog categories and tags.
type TaxonomyRepository struct {
	db *sqlx.DB
}

// NewTaxonomyRepository creates a new TaxonomyRepository.
func NewTaxonomyRepository(db *sqlx.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

// CreateCategory inserts a category, deriving a unique slug from the name
// when none is given.
func (r *TaxonomyRepository) CreateCategory(ctx context.Context, c *Category) error {
	if c.Slug == "" {
		s, err := content.UniqueSlug(ctx, c.Name, slugExists(r.db, "categories"))
		if err != nil {
			return err
		}
		c.Slug = s
	}
	if c.Color == "" {
		c.Color = "#6c757d"
	}
	c.CreatedAt = now()
	id, err := insertRecord(ctx, r.db, "categories", c)
	if err != nil {
		return fmt.Errorf("failed to create category %q: %w", c.Name, err)
	}
	c.ID = id
	return nil
}

// ActiveCategories lists active categories ordered by (sort order, name).
func (r *TaxonomyRepository) ActiveCategories(ctx context.Context) ([]*Category, error) {
	var cats []*Category
	b := builder.Select("*").From("categories").Where(sq.Eq{"is_active": true}).OrderBy("sort_order", "name")
	if err := selectAll(ctx, r.db, &cats, b); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return cats, nil
}

// ActiveCategoryBySlug returns an active category. Inactive categories are
// reported as ErrNotFound.
func (r *TaxonomyRepository) ActiveCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var c Category
	b := builder.Select("*").From("categories").Where(sq.Eq{"slug": slug, "is_active": true})
	if err := selectOne(ctx, r.db, &c, b); err != nil {
		return nil, err
	}
	return &c, nil
}

// CategoriesByID loads categories regardless of their active flag.
func (r *TaxonomyRepository) CategoriesByID(ctx context.Context, ids []int64) (map[int64]*Category, error) {
	out := make(map[int64]*Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var cats []*Category
	if err := selectAll(ctx, r.db, &cats, builder.Select("*").From("categories").Where(sq.Eq{"id": ids})); err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	for _, c := range cats {
		out[c.ID] = c
	}
	return out, nil
}

// CreateTag inserts a tag, deriving a unique slug from the name when none
// is given.
func (r *TaxonomyRepository) CreateTag(ctx context.Context, t *Tag) error {
	if t.Slug == "" {
		s, err := content.UniqueSlug(ctx, t.Name, slugExists(r.db, "tags"))
		if err != nil {
			return err
		}
		t.Slug = s
	}
	t.CreatedAt = now()
	id, err := insertRecord(ctx, r.db, "tags", t)
	if err != nil {
		return fmt.Errorf("failed to create tag %q: %w", t.Name, err)
	}
	t.ID = id
	return nil
}

// ActiveTags lists active tags by name. A limit of zero means all.
func (r *TaxonomyRepository) ActiveTags(ctx context.Context, limit int) ([]*Tag, error) {
	var tags []*Tag
	b := page(builder.Select("*").From("tags").Where(sq.Eq{"is_active": true}).OrderBy("name"), limit, 0)
	if err := selectAll(ctx, r.db, &tags, b); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// ActiveTagBySlug returns an active tag or ErrNotFound.
func (r *TaxonomyRepository) ActiveTagBySlug(ctx context.Context, slug string) (*Tag, error) {
	var t Tag
	b := builder.Select("*").From("tags").Where(sq.Eq{"slug": slug, "is_active": true})
	if err := selectOne(ctx, r.db, &t, b); err != nil {
		return nil, err
	}
	return &t, nil
}

// slugExists returns a content.SlugExists bound to table.
func slugExists(db sqlx.QueryerContext, table string) content.SlugExists {
	return func(ctx context.Context, candidate string) (bool, error) {
		n, err := count(ctx, db, builder.Select("COUNT(*)").From(table).Where(sq.Eq{"slug": candidate}))
		return n > 0, err
	}
}
