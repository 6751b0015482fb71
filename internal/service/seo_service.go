package service

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"strings"
	"time"
)

// SitemapCacheKey is the cache entry holding the rendered sitemap.
const SitemapCacheKey = "seo:sitemap.xml"

const (
	sitemapDateFormat = "2006-01-02"
	sitemapNamespace  = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

// staticRoutes are the fixed pages listed in the sitemap.
var staticRoutes = []string{
	"/", "/about/", "/services/", "/resume/", "/testimonials/", "/skills/",
	"/projects/", "/projects/featured/", "/blog/", "/blog/featured/",
	"/contact/", "/contact/faq/",
}

// SitemapSource lists everything the sitemap publishes.
type SitemapSource interface {
	PublishedPosts(ctx context.Context) ([]*data.Post, error)
	PublishedProjects(ctx context.Context) ([]*data.Project, error)
	ActiveBlogCategories(ctx context.Context) ([]*data.Category, error)
}

// SiteContextProvider supplies the shared page context.
type SiteContextProvider interface {
	Context(ctx context.Context) (*SiteContext, error)
}

// SitemapRepositories adapts the concrete repositories to SitemapSource.
type SitemapRepositories struct {
	Posts    *data.PostRepository
	Projects *data.ProjectRepository
	Taxonomy *data.TaxonomyRepository
}

func (r SitemapRepositories) PublishedPosts(ctx context.Context) ([]*data.Post, error) {
	return r.Posts.ListPublished(ctx, data.PostFilter{Recent: true}, 0, 0)
}

func (r SitemapRepositories) PublishedProjects(ctx context.Context) ([]*data.Project, error) {
	return r.Projects.ListPublished(ctx, data.ProjectFilter{}, 0, 0)
}

func (r SitemapRepositories) ActiveBlogCategories(ctx context.Context) ([]*data.Category, error) {
	return r.Taxonomy.ActiveCategories(ctx)
}

type sitemapURL struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod,omitempty"`
	ChangeFreq string   `xml:"changefreq"`
	Priority   string   `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SeoService produces the crawler documents.
type SeoService struct {
	source  SitemapSource
	cache   Cache
	baseURL string
	site    SiteContextProvider
	log     logger.Logger
}

// NewSeoService creates a new SeoService. baseURL is the absolute site
// origin used in sitemap locations.
func NewSeoService(source SitemapSource, cache Cache, baseURL string, site SiteContextProvider, log logger.Logger) *SeoService {
	return &SeoService{source: source, cache: cache, baseURL: strings.TrimRight(baseURL, "/"), site: site, log: log}
}

// Sitemap returns the sitemap XML, served from the cache when possible.
func (s *SeoService) Sitemap(ctx context.Context) ([]byte, error) {
	if cached, err := s.cache.Get(ctx, SitemapCacheKey); err != nil {
		s.log.Error(err, "failed to read sitemap from cache")
	} else if cached != nil {
		return cached, nil
	}

	doc, err := s.buildSitemap(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, SitemapCacheKey, doc); err != nil {
		s.log.Error(err, "failed to cache sitemap")
	}
	return doc, nil
}

func (s *SeoService) buildSitemap(ctx context.Context) ([]byte, error) {
	set := urlSet{Xmlns: sitemapNamespace}
	for _, route := range staticRoutes {
		set.URLs = append(set.URLs, s.entry(route, nil, "weekly", "0.8"))
	}

	projects, err := s.source.PublishedProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		set.URLs = append(set.URLs, s.entry("/projects/"+p.Slug+"/", &p.UpdatedAt, "weekly", "0.9"))
	}

	posts, err := s.source.PublishedPosts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		set.URLs = append(set.URLs, s.entry("/blog/"+p.Slug+"/", &p.UpdatedAt, "weekly", "0.8"))
	}

	categories, err := s.source.ActiveBlogCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		set.URLs = append(set.URLs, s.entry("/blog/category/"+c.Slug+"/", &c.CreatedAt, "monthly", "0.6"))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *SeoService) entry(path string, lastMod *time.Time, freq, priority string) sitemapURL {
	u := sitemapURL{Loc: s.baseURL + path, ChangeFreq: freq, Priority: priority}
	if lastMod != nil && !lastMod.IsZero() {
		u.LastMod = lastMod.Format(sitemapDateFormat)
	}
	return u
}

// Robots returns robots.txt.
func (s *SeoService) Robots() []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("Disallow: /auth/\n\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", s.baseURL)
	return []byte(b.String())
}

// Humans returns humans.txt, naming the site owner.
func (s *SeoService) Humans(ctx context.Context) ([]byte, error) {
	site, err := s.site.Context(ctx)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("/* TEAM */\n")
	if site.Author != "" {
		fmt.Fprintf(&b, "Developer: %s\n", site.Author)
	}
	if site.Personal.Title != "" {
		fmt.Fprintf(&b, "Role: %s\n", site.Personal.Title)
	}
	if site.Personal.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", site.Personal.Location)
	}
	b.WriteString("\n/* SITE */\n")
	fmt.Fprintf(&b, "Name: %s\n", site.Name)
	b.WriteString("Language: English\n")
	b.WriteString("Software: Go, chi, sqlx, goldmark\n")
	return []byte(b.String()), nil
}
