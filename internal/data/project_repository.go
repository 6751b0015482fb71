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

var projectListingOrder = []string{"p.featured DESC", "p.created_at DESC", "p.id DESC"}

// ProjectFilter narrows the set of published projects.
type ProjectFilter struct {
	// Query is matched case-insensitively against title, description,
	// content and technology names.
	Query string
	// TitleOnly restricts Query to title and description.
	TitleOnly    bool
	CategoryID   int64
	TechnologyID int64
	// CategorySlug and TechnologySlug come straight from query strings;
	// unknown values match nothing.
	CategorySlug   string
	TechnologySlug string
	FeaturedOnly   bool
}

// ProjectRepository provides access to projects and their taxonomy,
// gallery images and stats.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func publishedProjects(columns ...string) sq.SelectBuilder {
	return builder.Select(columns...).From("projects p").Where(sq.Eq{"p.is_published": true})
}

func (f ProjectFilter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if q := strings.TrimSpace(f.Query); q != "" {
		pat := containsPattern(q)
		if f.TitleOnly {
			b = b.Where(sq.Or{ilike("p.title", pat), ilike("p.description", pat)})
		} else {
			b = b.Where(sq.Or{
				ilike("p.title", pat),
				ilike("p.description", pat),
				ilike("p.content", pat),
				sq.Expr("EXISTS (SELECT 1 FROM project_technologies pt JOIN technologies t ON t.id = pt.technology_id"+
					" WHERE pt.project_id = p.id AND LOWER(t.name) LIKE ? ESCAPE '"+likeEscape+"')", pat),
			})
		}
	}
	if f.CategoryID != 0 {
		b = b.Where(sq.Eq{"p.category_id": f.CategoryID})
	}
	if f.CategorySlug != "" {
		b = b.Where(sq.Expr("p.category_id IN (SELECT id FROM project_categories WHERE slug = ?)", f.CategorySlug))
	}
	if f.TechnologyID != 0 {
		b = b.Where(sq.Expr("EXISTS (SELECT 1 FROM project_technologies pt WHERE pt.project_id = p.id AND pt.technology_id = ?)", f.TechnologyID))
	}
	if f.TechnologySlug != "" {
		b = b.Where(sq.Expr("EXISTS (SELECT 1 FROM project_technologies pt JOIN technologies t ON t.id = pt.technology_id"+
			" WHERE pt.project_id = p.id AND t.slug = ?)", f.TechnologySlug))
	}
	if f.FeaturedOnly {
		b = b.Where(sq.Gt{"p.featured": content.FeaturedNone})
	}
	return b
}

// ListPublished returns published projects matching f in listing order.
func (r *ProjectRepository) ListPublished(ctx context.Context, f ProjectFilter, limit, offset int) ([]*Project, error) {
	var projects []*Project
	b := page(f.apply(publishedProjects("p.*")).OrderBy(projectListingOrder...), limit, offset)
	if err := selectAll(ctx, r.db, &projects, b); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// CountPublished counts published projects matching f.
func (r *ProjectRepository) CountPublished(ctx context.Context, f ProjectFilter) (int, error) {
	n, err := count(ctx, r.db, f.apply(publishedProjects("COUNT(*)")))
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

// PublishedBySlug returns a published project or ErrNotFound.
func (r *ProjectRepository) PublishedBySlug(ctx context.Context, slug string) (*Project, error) {
	var p Project
	if err := selectOne(ctx, r.db, &p, publishedProjects("p.*").Where(sq.Eq{"p.slug": slug})); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID returns a project regardless of whether it is published.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*Project, error) {
	var p Project
	if err := selectOne(ctx, r.db, &p, builder.Select("*").From("projects").Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts p and links it to technologyIDs, deriving the slug from
// the title when it is empty.
func (r *ProjectRepository) Create(ctx context.Context, p *Project, technologyIDs []int64) error {
	if p.Slug == "" {
		s, err := content.UniqueSlug(ctx, p.Title, slugExists(r.db, "projects"))
		if err != nil {
			return err
		}
		p.Slug = s
	}
	if p.Status == "" {
		p.Status = content.ProjectCompleted
	}
	if !p.Featured.Valid() {
		return fmt.Errorf("invalid featured value %d", p.Featured)
	}
	ts := now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = ts
	}
	p.UpdatedAt = ts

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		id, err := insertRecord(ctx, tx, "projects", p)
		if err != nil {
			return fmt.Errorf("failed to create project %q: %w", p.Slug, err)
		}
		p.ID = id
		return linkAll(ctx, tx, "project_technologies", "project_id", "technology_id", id, technologyIDs)
	})
}

// SetPublished publishes or hides projects.
func (r *ProjectRepository) SetPublished(ctx context.Context, ids []int64, published bool) (int64, error) {
	return exec(ctx, r.db, builder.Update("projects").Set("is_published", published).Set("updated_at", now()).Where(sq.Eq{"id": ids}))
}

// SetFeatured sets the featured level of projects.
func (r *ProjectRepository) SetFeatured(ctx context.Context, ids []int64, featured content.Featured) (int64, error) {
	if !featured.Valid() {
		return 0, fmt.Errorf("invalid featured value %d", featured)
	}
	return exec(ctx, r.db, builder.Update("projects").Set("featured", featured).Set("updated_at", now()).Where(sq.Eq{"id": ids}))
}

// Related returns up to limit published projects, other than p, that share
// its category or at least one technology, in listing order.
func (r *ProjectRepository) Related(ctx context.Context, p *Project, limit int) ([]*Project, error) {
	shared := sq.Or{sq.Expr("EXISTS (SELECT 1 FROM project_technologies a JOIN project_technologies b"+
		" ON a.technology_id = b.technology_id WHERE a.project_id = p.id AND b.project_id = ?)", p.ID)}
	if p.CategoryID != nil {
		shared = append(shared, sq.Eq{"p.category_id": *p.CategoryID})
	}
	b := publishedProjects("p.*").Where(sq.NotEq{"p.id": p.ID}).Where(shared).OrderBy(projectListingOrder...)
	var projects []*Project
	if err := selectAll(ctx, r.db, &projects, page(b, limit, 0)); err != nil {
		return nil, fmt.Errorf("failed to list related projects: %w", err)
	}
	return projects, nil
}

// Next returns the published project created immediately after p, or nil.
func (r *ProjectRepository) Next(ctx context.Context, p *Project) (*Project, error) {
	return r.adjacent(ctx, sq.Gt{"p.created_at": p.CreatedAt}, "p.created_at ASC")
}

// Previous returns the published project created immediately before p, or nil.
func (r *ProjectRepository) Previous(ctx context.Context, p *Project) (*Project, error) {
	return r.adjacent(ctx, sq.Lt{"p.created_at": p.CreatedAt}, "p.created_at DESC")
}

func (r *ProjectRepository) adjacent(ctx context.Context, cond sq.Sqlizer, order string) (*Project, error) {
	var p Project
	err := selectOne(ctx, r.db, &p, publishedProjects("p.*").Where(cond).OrderBy(order, "p.id").Limit(1))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load adjacent project: %w", err)
	}
	return &p, nil
}

// TechnologiesFor returns the technologies of each project, keyed by
// project id, ordered by name.
func (r *ProjectRepository) TechnologiesFor(ctx context.Context, projectIDs []int64) (map[int64][]*Technology, error) {
	out := make(map[int64][]*Technology, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ProjectID int64 `db:"project_id"`
		Technology
	}
	b := builder.Select("pt.project_id", "t.*").From("project_technologies pt").
		Join("technologies t ON t.id = pt.technology_id").
		Where(sq.Eq{"pt.project_id": projectIDs}).OrderBy("t.name")
	if err := selectAll(ctx, r.db, &rows, b); err != nil {
		return nil, fmt.Errorf("failed to load project technologies: %w", err)
	}
	for i := range rows {
		t := rows[i].Technology
		out[rows[i].ProjectID] = append(out[rows[i].ProjectID], &t)
	}
	return out, nil
}

// CategoriesByID loads project categories regardless of their active flag.
func (r *ProjectRepository) CategoriesByID(ctx context.Context, ids []int64) (map[int64]*ProjectCategory, error) {
	out := make(map[int64]*ProjectCategory, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var cats []*ProjectCategory
	if err := selectAll(ctx, r.db, &cats, builder.Select("*").From("project_categories").Where(sq.Eq{"id": ids})); err != nil {
		return nil, fmt.Errorf("failed to load project categories: %w", err)
	}
	for _, c := range cats {
		out[c.ID] = c
	}
	return out, nil
}

// Images returns a project's gallery ordered by sort order, featured first.
func (r *ProjectRepository) Images(ctx context.Context, projectID int64) ([]*ProjectImage, error) {
	var images []*ProjectImage
	b := builder.Select("*").From("project_images").Where(sq.Eq{"project_id": projectID}).
		OrderBy("sort_order", "is_featured DESC", "id")
	if err := selectAll(ctx, r.db, &images, b); err != nil {
		return nil, fmt.Errorf("failed to load project images: %w", err)
	}
	return images, nil
}

// AddImage attaches an uploaded image to a project.
func (r *ProjectRepository) AddImage(ctx context.Context, img *ProjectImage) error {
	id, err := insertRecord(ctx, r.db, "project_images", img)
	if err != nil {
		return fmt.Errorf("failed to add image to project %d: %w", img.ProjectID, err)
	}
	img.ID = id
	return nil
}

// Stats returns a project's stats ordered by sort order.
func (r *ProjectRepository) Stats(ctx context.Context, projectID int64) ([]*ProjectStat, error) {
	var stats []*ProjectStat
	b := builder.Select("*").From("project_stats").Where(sq.Eq{"project_id": projectID}).OrderBy("sort_order", "id")
	if err := selectAll(ctx, r.db, &stats, b); err != nil {
		return nil, fmt.Errorf("failed to load project stats: %w", err)
	}
	return stats, nil
}

// AddStat attaches a stat to a project.
func (r *ProjectRepository) AddStat(ctx context.Context, s *ProjectStat) error {
	id, err := insertRecord(ctx, r.db, "project_stats", s)
	if err != nil {
		return fmt.Errorf("failed to add stat to project %d: %w", s.ProjectID, err)
	}
	s.ID = id
	return nil
}

// CreateCategory inserts a project category, deriving its slug when empty.
func (r *ProjectRepository) CreateCategory(ctx context.Context, c *ProjectCategory) error {
	if c.Slug == "" {
		s, err := content.UniqueSlug(ctx, c.Name, slugExists(r.db, "project_categories"))
		if err != nil {
			return err
		}
		c.Slug = s
	}
	c.CreatedAt = now()
	id, err := insertRecord(ctx, r.db, "project_categories", c)
	if err != nil {
		return fmt.Errorf("failed to create project category %q: %w", c.Name, err)
	}
	c.ID = id
	return nil
}

// ActiveCategories lists active project categories by (sort order, name).
func (r *ProjectRepository) ActiveCategories(ctx context.Context) ([]*ProjectCategory, error) {
	var cats []*ProjectCategory
	b := builder.Select("*").From("project_categories").Where(sq.Eq{"is_active": true}).OrderBy("sort_order", "name")
	if err := selectAll(ctx, r.db, &cats, b); err != nil {
		return nil, fmt.Errorf("failed to list project categories: %w", err)
	}
	return cats, nil
}

// ActiveCategoryBySlug returns an active project category or ErrNotFound.
func (r *ProjectRepository) ActiveCategoryBySlug(ctx context.Context, slug string) (*ProjectCategory, error) {
	var c ProjectCategory
	b := builder.Select("*").From("project_categories").Where(sq.Eq{"slug": slug, "is_active": true})
	if err := selectOne(ctx, r.db, &c, b); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateTechnology inserts a technology, deriving its slug when empty.
func (r *ProjectRepository) CreateTechnology(ctx context.Context, t *Technology) error {
	if t.Slug == "" {
		s, err := content.UniqueSlug(ctx, t.Name, slugExists(r.db, "technologies"))
		if err != nil {
			return err
		}
		t.Slug = s
	}
	if t.Color == "" {
		t.Color = "#007bff"
	}
	t.CreatedAt = now()
	id, err := insertRecord(ctx, r.db, "technologies", t)
	if err != nil {
		return fmt.Errorf("failed to create technology %q: %w", t.Name, err)
	}
	t.ID = id
	return nil
}

// ActiveTechnologies lists active technologies by name. A limit of zero
// means all.
func (r *ProjectRepository) ActiveTechnologies(ctx context.Context, limit int) ([]*Technology, error) {
	var techs []*Technology
	b := page(builder.Select("*").From("technologies").Where(sq.Eq{"is_active": true}).OrderBy("name"), limit, 0)
	if err := selectAll(ctx, r.db, &techs, b); err != nil {
		return nil, fmt.Errorf("failed to list technologies: %w", err)
	}
	return techs, nil
}

// CountActiveTechnologies counts active technologies.
func (r *ProjectRepository) CountActiveTechnologies(ctx context.Context) (int, error) {
	return count(ctx, r.db, builder.Select("COUNT(*)").From("technologies").Where(sq.Eq{"is_active": true}))
}

// ActiveTechnologyBySlug returns an active technology or ErrNotFound.
func (r *ProjectRepository) ActiveTechnologyBySlug(ctx context.Context, slug string) (*Technology, error) {
	var t Technology
	b := builder.Select("*").From("technologies").Where(sq.Eq{"slug": slug, "is_active": true})
	if err := selectOne(ctx, r.db, &t, b); err != nil {
		return nil, err
	}
	return &t, nil
}
