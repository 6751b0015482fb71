package service

import (
	"context"
	"errors"
	"fmt"
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/metrics"
	"go-portfolio-app/internal/storage"
	"sync"
	"time"
)

// Sidebar and related-content sizes.
const (
	relatedLimit      = 3
	sidebarTagLimit   = 15
	sidebarFeatured   = 3
	sidebarRecent     = 5
	quickSearchLimit  = 5
	viewRecordTimeout = 5 * time.Second
)

// PostRepository is the post storage used by BlogService.
type PostRepository interface {
	ListPublished(ctx context.Context, f data.PostFilter, limit, offset int) ([]*data.Post, error)
	CountPublished(ctx context.Context, f data.PostFilter) (int, error)
	PublishedBySlug(ctx context.Context, slug string) (*data.Post, error)
	Related(ctx context.Context, p *data.Post, limit int) ([]*data.Post, error)
	Next(ctx context.Context, p *data.Post) (*data.Post, error)
	Previous(ctx context.Context, p *data.Post) (*data.Post, error)
	RecordView(ctx context.Context, postID int64, ip, userAgent string) error
	TagsFor(ctx context.Context, postIDs []int64) (map[int64][]*data.Tag, error)
}

// TaxonomyRepository is the category and tag storage used by BlogService.
type TaxonomyRepository interface {
	ActiveCategories(ctx context.Context) ([]*data.Category, error)
	ActiveCategoryBySlug(ctx context.Context, slug string) (*data.Category, error)
	CategoriesByID(ctx context.Context, ids []int64) (map[int64]*data.Category, error)
	ActiveTags(ctx context.Context, limit int) ([]*data.Tag, error)
	ActiveTagBySlug(ctx context.Context, slug string) (*data.Tag, error)
}

// CommentRepository is the comment storage used by BlogService.
type CommentRepository interface {
	Visible(ctx context.Context, postID int64) ([]*data.Comment, error)
}

// BlogQuery selects a page of the blog listing.
type BlogQuery struct {
	Query        string
	CategorySlug string
	TagSlug      string
	FeaturedOnly bool
	Page         string
}

// BlogSidebar is shown next to every blog page.
type BlogSidebar struct {
	Categories    []*data.Category
	Tags          []*data.Tag
	FeaturedPosts []*data.Post
	RecentPosts   []*data.Post
}

// BlogListing is one page of posts.
type BlogListing struct {
	Posts      []*data.Post
	Pagination Pagination
	Query      string
	Category   *data.Category
	Tag        *data.Tag
	Featured   bool
	Sidebar    *BlogSidebar
}

// PostDetail is everything shown on a post page.
type PostDetail struct {
	Post     *data.Post
	Comments []*data.Comment
	Related  []*data.Post
	Next     *data.Post
	Previous *data.Post
	Sidebar  *BlogSidebar
}

// SearchResult is one live search hit.
type SearchResult struct {
	Title    string  `json:"title"`
	Slug     string  `json:"slug"`
	ImageURL *string `json:"image"`
	Excerpt  string  `json:"excerpt"`
	Category *string `json:"category"`
}

// BlogService serves the public blog.
type BlogService struct {
	posts    PostRepository
	taxonomy TaxonomyRepository
	comments CommentRepository
	renderer ContentRenderer
	media    media
	log      logger.Logger
	metrics  metrics.Recorder
	views    sync.WaitGroup
}

// NewBlogService creates a new BlogService.
func NewBlogService(posts PostRepository, taxonomy TaxonomyRepository, comments CommentRepository,
	renderer ContentRenderer, store storage.MediaStore, log logger.Logger, rec metrics.Recorder) *BlogService {
	return &BlogService{
		posts:    posts,
		taxonomy: taxonomy,
		comments: comments,
		renderer: renderer,
		media:    media{store: store, log: log},
		log:      log,
		metrics:  rec,
	}
}

// List returns a page of published posts. An unknown or inactive category
// or tag slug yields data.ErrNotFound.
func (s *BlogService) List(ctx context.Context, q BlogQuery) (*BlogListing, error) {
	out := &BlogListing{Query: q.Query, Featured: q.FeaturedOnly}
	f := data.PostFilter{Query: q.Query, FeaturedOnly: q.FeaturedOnly}

	if q.CategorySlug != "" {
		cat, err := s.taxonomy.ActiveCategoryBySlug(ctx, q.CategorySlug)
		if err != nil {
			return nil, err
		}
		out.Category, f.CategoryID = cat, cat.ID
	}
	if q.TagSlug != "" {
		tag, err := s.taxonomy.ActiveTagBySlug(ctx, q.TagSlug)
		if err != nil {
			return nil, err
		}
		out.Tag, f.TagID = tag, tag.ID
	}

	total, err := s.posts.CountPublished(ctx, f)
	if err != nil {
		return nil, err
	}
	out.Pagination = NewPagination(q.Page, total, PostsPerPage)
	out.Posts, err = s.posts.ListPublished(ctx, f, PostsPerPage, out.Pagination.Offset())
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, out.Posts); err != nil {
		return nil, err
	}

	out.Sidebar, err = s.sidebar(ctx, 0)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Detail returns a published post with its comments, related posts and
// neighbours, and records the view in the background.
func (s *BlogService) Detail(ctx context.Context, slug, ip, userAgent string) (*PostDetail, error) {
	post, err := s.posts.PublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.recordView(ctx, post.ID, ip, userAgent)

	out := &PostDetail{Post: post}
	if err := s.decorate(ctx, []*data.Post{post}); err != nil {
		return nil, err
	}
	post.HTMLContent = s.renderer.Render(post.Content)

	if out.Comments, err = s.comments.Visible(ctx, post.ID); err != nil {
		return nil, err
	}
	if out.Related, err = s.posts.Related(ctx, post, relatedLimit); err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, out.Related); err != nil {
		return nil, err
	}
	if out.Next, err = s.posts.Next(ctx, post); err != nil {
		return nil, err
	}
	if out.Previous, err = s.posts.Previous(ctx, post); err != nil {
		return nil, err
	}
	if out.Sidebar, err = s.sidebar(ctx, post.ID); err != nil {
		return nil, err
	}
	return out, nil
}

// QuickSearch returns up to five published posts whose title or excerpt
// contains q. A blank query returns nothing.
func (s *BlogService) QuickSearch(ctx context.Context, q string) ([]SearchResult, error) {
	if isBlank(q) {
		return nil, nil
	}
	posts, err := s.posts.ListPublished(ctx, data.PostFilter{Query: q, TitleOnly: true}, quickSearchLimit, 0)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, posts); err != nil {
		return nil, err
	}
	out := make([]SearchResult, len(posts))
	for i, p := range posts {
		out[i] = SearchResult{
			Title:   p.Title,
			Slug:    p.Slug,
			Excerpt: content.Truncate(p.Excerpt, content.PreviewLength),
		}
		if p.ImageURL != "" {
			out[i].ImageURL = &p.ImageURL
		}
		if p.Category != nil {
			out[i].Category = &p.Category.Name
		}
	}
	return out, nil
}

// Wait blocks until background view recording has finished.
func (s *BlogService) Wait() {
	s.views.Wait()
}

// recordView counts a view without delaying or failing the request. It
// runs detached from the request context, bounded by its own timeout.
func (s *BlogService) recordView(ctx context.Context, postID int64, ip, userAgent string) {
	s.views.Add(1)
	go func() {
		defer s.views.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), viewRecordTimeout)
		defer cancel()
		if err := s.posts.RecordView(ctx, postID, ip, userAgent); err != nil {
			s.log.Error(err, fmt.Sprintf("failed to record view of post %d", postID))
			return
		}
		s.metrics.RecordPostView()
	}()
}

// sidebar loads the blog sidebar. Recent posts exclude the featured ones
// and the post being shown.
func (s *BlogService) sidebar(ctx context.Context, currentID int64) (*BlogSidebar, error) {
	var err error
	sb := &BlogSidebar{}
	if sb.Categories, err = s.taxonomy.ActiveCategories(ctx); err != nil {
		return nil, err
	}
	if sb.Tags, err = s.taxonomy.ActiveTags(ctx, sidebarTagLimit); err != nil {
		return nil, err
	}
	if sb.FeaturedPosts, err = s.posts.ListPublished(ctx, data.PostFilter{FeaturedOnly: true}, sidebarFeatured, 0); err != nil {
		return nil, err
	}
	exclude := make([]int64, 0, len(sb.FeaturedPosts)+1)
	for _, p := range sb.FeaturedPosts {
		exclude = append(exclude, p.ID)
	}
	if currentID != 0 {
		exclude = append(exclude, currentID)
	}
	if sb.RecentPosts, err = s.posts.ListPublished(ctx, data.PostFilter{Recent: true, ExcludeIDs: exclude}, sidebarRecent, 0); err != nil {
		return nil, err
	}
	return sb, nil
}

// decorate attaches categories, tags and image URLs to posts.
func (s *BlogService) decorate(ctx context.Context, posts []*data.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]int64, len(posts))
	var catIDs []int64
	for i, p := range posts {
		ids[i] = p.ID
		if p.CategoryID != nil {
			catIDs = append(catIDs, *p.CategoryID)
		}
	}
	cats, err := s.taxonomy.CategoriesByID(ctx, catIDs)
	if err != nil {
		return err
	}
	tags, err := s.posts.TagsFor(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		if p.CategoryID != nil {
			p.Category = cats[*p.CategoryID]
		}
		p.Tags = tags[p.ID]
		p.ImageURL = s.media.url(ctx, p.FeaturedImage)
	}
	return nil
}

// IsNotFound reports whether err means the requested content does not exist
// or is not visible.
func IsNotFound(err error) bool {
	return errors.Is(err, data.ErrNotFound)
}
