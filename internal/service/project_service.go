package service

import (
	"context"
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/storage"
)

const projectSidebarFeatured = 3

// ProjectRepository is the project storage used by ProjectService.
type ProjectRepository interface {
	ListPublished(ctx context.Context, f data.ProjectFilter, limit, offset int) ([]*data.Project, error)
	CountPublished(ctx context.Context, f data.ProjectFilter) (int, error)
	PublishedBySlug(ctx context.Context, slug string) (*data.Project, error)
	Related(ctx context.Context, p *data.Project, limit int) ([]*data.Project, error)
	Next(ctx context.Context, p *data.Project) (*data.Project, error)
	Previous(ctx context.Context, p *data.Project) (*data.Project, error)
	TechnologiesFor(ctx context.Context, projectIDs []int64) (map[int64][]*data.Technology, error)
	CategoriesByID(ctx context.Context, ids []int64) (map[int64]*data.ProjectCategory, error)
	Images(ctx context.Context, projectID int64) ([]*data.ProjectImage, error)
	Stats(ctx context.Context, projectID int64) ([]*data.ProjectStat, error)
	ActiveCategories(ctx context.Context) ([]*data.ProjectCategory, error)
	ActiveCategoryBySlug(ctx context.Context, slug string) (*data.ProjectCategory, error)
	ActiveTechnologies(ctx context.Context, limit int) ([]*data.Technology, error)
	ActiveTechnologyBySlug(ctx context.Context, slug string) (*data.Technology, error)
}

// ProjectQuery selects a page of the project listing. CategorySlug and
// TechnologySlug come from the URL path and must name active rows;
// CategoryParam and TechnologyParam come from the query string and simply
// match nothing when unknown.
type ProjectQuery struct {
	Query           string
	CategorySlug    string
	TechnologySlug  string
	CategoryParam   string
	TechnologyParam string
	FeaturedOnly    bool
	Page            string
}

// ProjectListing is one page of projects plus the filter menus.
type ProjectListing struct {
	Projects         []*data.Project
	Pagination       Pagination
	Query            string
	Category         *data.ProjectCategory
	Technology       *data.Technology
	CategoryParam    string
	TechnologyParam  string
	Featured         bool
	Categories       []*data.ProjectCategory
	Technologies     []*data.Technology
	FeaturedProjects []*data.Project
	TotalProjects    int
	FeaturedCount    int
}

// ProjectDetail is everything shown on a project page.
type ProjectDetail struct {
	Project  *data.Project
	Related  []*data.Project
	Next     *data.Project
	Previous *data.Project
}

// ProjectSearchResult is one live search hit.
type ProjectSearchResult struct {
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	ThumbnailURL *string `json:"thumbnail"`
	Description  string  `json:"description"`
	Category     *string `json:"category"`
}

// ProjectService serves the project showcase.
type ProjectService struct {
	projects ProjectRepository
	renderer ContentRenderer
	media    media
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects ProjectRepository, renderer ContentRenderer, store storage.MediaStore, log logger.Logger) *ProjectService {
	return &ProjectService{projects: projects, renderer: renderer, media: media{store: store, log: log}}
}

// List returns a page of published projects.
func (s *ProjectService) List(ctx context.Context, q ProjectQuery) (*ProjectListing, error) {
	out := &ProjectListing{
		Query:           q.Query,
		CategoryParam:   q.CategoryParam,
		TechnologyParam: q.TechnologyParam,
		Featured:        q.FeaturedOnly,
	}
	f := data.ProjectFilter{
		Query:          q.Query,
		CategorySlug:   q.CategoryParam,
		TechnologySlug: q.TechnologyParam,
		FeaturedOnly:   q.FeaturedOnly,
	}

	if q.CategorySlug != "" {
		cat, err := s.projects.ActiveCategoryBySlug(ctx, q.CategorySlug)
		if err != nil {
			return nil, err
		}
		out.Category, f.CategoryID = cat, cat.ID
	}
	if q.TechnologySlug != "" {
		tech, err := s.projects.ActiveTechnologyBySlug(ctx, q.TechnologySlug)
		if err != nil {
			return nil, err
		}
		out.Technology, f.TechnologyID = tech, tech.ID
	}

	total, err := s.projects.CountPublished(ctx, f)
	if err != nil {
		return nil, err
	}
	out.Pagination = NewPagination(q.Page, total, ProjectsPerPage)
	if out.Projects, err = s.projects.ListPublished(ctx, f, ProjectsPerPage, out.Pagination.Offset()); err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, out.Projects); err != nil {
		return nil, err
	}

	if out.Categories, err = s.projects.ActiveCategories(ctx); err != nil {
		return nil, err
	}
	if out.Technologies, err = s.projects.ActiveTechnologies(ctx, 0); err != nil {
		return nil, err
	}
	if out.FeaturedProjects, err = s.projects.ListPublished(ctx, data.ProjectFilter{FeaturedOnly: true}, projectSidebarFeatured, 0); err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, out.FeaturedProjects); err != nil {
		return nil, err
	}
	if out.TotalProjects, err = s.projects.CountPublished(ctx, data.ProjectFilter{}); err != nil {
		return nil, err
	}
	if out.FeaturedCount, err = s.projects.CountPublished(ctx, data.ProjectFilter{FeaturedOnly: true}); err != nil {
		return nil, err
	}
	return out, nil
}

// Featured returns up to limit featured projects, main features first.
func (s *ProjectService) Featured(ctx context.Context, limit int) ([]*data.Project, error) {
	projects, err := s.projects.ListPublished(ctx, data.ProjectFilter{FeaturedOnly: true}, limit, 0)
	if err != nil {
		return nil, err
	}
	return projects, s.decorate(ctx, projects)
}

// Detail returns a published project with its gallery, stats, related
// projects and neighbours.
func (s *ProjectService) Detail(ctx context.Context, slug string) (*ProjectDetail, error) {
	p, err := s.projects.PublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, []*data.Project{p}); err != nil {
		return nil, err
	}
	p.HTMLContent = s.renderer.Render(p.Content)
	if p.Images, err = s.projects.Images(ctx, p.ID); err != nil {
		return nil, err
	}
	for _, img := range p.Images {
		img.URL = s.media.url(ctx, img.Image)
	}
	if p.Stats, err = s.projects.Stats(ctx, p.ID); err != nil {
		return nil, err
	}

	out := &ProjectDetail{Project: p}
	if out.Related, err = s.projects.Related(ctx, p, relatedLimit); err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, out.Related); err != nil {
		return nil, err
	}
	if out.Next, err = s.projects.Next(ctx, p); err != nil {
		return nil, err
	}
	if out.Previous, err = s.projects.Previous(ctx, p); err != nil {
		return nil, err
	}
	return out, nil
}

// QuickSearch returns up to five published projects whose title or
// description contains q.
func (s *ProjectService) QuickSearch(ctx context.Context, q string) ([]ProjectSearchResult, error) {
	if isBlank(q) {
		return nil, nil
	}
	projects, err := s.projects.ListPublished(ctx, data.ProjectFilter{Query: q, TitleOnly: true}, quickSearchLimit, 0)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, projects); err != nil {
		return nil, err
	}
	out := make([]ProjectSearchResult, len(projects))
	for i, p := range projects {
		out[i] = ProjectSearchResult{
			Title:       p.Title,
			Slug:        p.Slug,
			Description: content.Truncate(p.Description, content.PreviewLength),
		}
		if p.ThumbnailURL != "" {
			out[i].ThumbnailURL = &p.ThumbnailURL
		}
		if p.Category != nil {
			out[i].Category = &p.Category.Name
		}
	}
	return out, nil
}

// decorate attaches categories, technologies and thumbnail URLs.
func (s *ProjectService) decorate(ctx context.Context, projects []*data.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]int64, len(projects))
	var catIDs []int64
	for i, p := range projects {
		ids[i] = p.ID
		if p.CategoryID != nil {
			catIDs = append(catIDs, *p.CategoryID)
		}
	}
	cats, err := s.projects.CategoriesByID(ctx, catIDs)
	if err != nil {
		return err
	}
	techs, err := s.projects.TechnologiesFor(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if p.CategoryID != nil {
			p.Category = cats[*p.CategoryID]
		}
		p.Technologies = techs[p.ID]
		p.ThumbnailURL = s.media.url(ctx, p.Thumbnail)
	}
	return nil
}
