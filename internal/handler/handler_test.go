//go:build unit

package handler

import (
	"context"
	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/metrics"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/session"
	"go-portfolio-app/internal/view"
	"go-portfolio-app/web"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// fakeSession is an in-memory session.Manager.
type fakeSession struct {
	values        map[string]string
	destroyCalled bool
	renewed       bool
}

var _ session.Manager = (*fakeSession)(nil)

func newFakeSession() *fakeSession { return &fakeSession{values: map[string]string{}} }

func (m *fakeSession) LoadAndSave(next http.Handler) http.Handler { return next }
func (m *fakeSession) Put(_ context.Context, key string, val interface{}) {
	m.values[key], _ = val.(string)
}
func (m *fakeSession) GetString(_ context.Context, key string) string { return m.values[key] }
func (m *fakeSession) PopString(_ context.Context, key string) string {
	v := m.values[key]
	delete(m.values, key)
	return v
}
func (m *fakeSession) Remove(_ context.Context, key string) { delete(m.values, key) }
func (m *fakeSession) Destroy(context.Context) error {
	m.destroyCalled = true
	m.values = map[string]string{}
	return nil
}
func (m *fakeSession) RenewToken(context.Context) error {
	m.renewed = true
	return nil
}

var published = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func samplePost(slug string) *data.Post {
	return &data.Post{
		ID: 1, Title: "Hello " + slug, Slug: slug, Excerpt: "An excerpt",
		Status: content.PostPublished, PublishedAt: &published, ReadingTime: 3, ViewsCount: 1200,
		Category: &data.Category{Name: "Go", Slug: "go"},
		Tags:     []*data.Tag{{Name: "testing", Slug: "testing"}},
	}
}

func sampleProject(slug string) *data.Project {
	return &data.Project{
		ID: 1, Title: "Project " + slug, Slug: slug, Description: "A project",
		Status: content.ProjectCompleted, IsPublished: true, KeyFeatures: "Fast\nSmall",
		Category:     &data.ProjectCategory{Name: "Web", Slug: "web"},
		Technologies: []*data.Technology{{Name: "Go", Slug: "go"}},
	}
}

type stubSite struct{}

func (stubSite) Home(context.Context) (*service.HomePage, error) {
	return &service.HomePage{
		Personal:         &data.PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Title: "Engineer"},
		FeaturedProjects: []*data.Project{sampleProject("demo")},
		RecentPosts:      []*data.Post{samplePost("recent")},
		Experiences:      []*data.Experience{{Title: "Dev", Company: "Acme", StartDate: published, IsCurrent: true}},
		Testimonials:     []*data.Testimonial{{Name: "Bob", Content: "Great", Rating: 5}},
	}, nil
}
func (stubSite) About(context.Context) (*service.AboutPage, error) {
	return &service.AboutPage{
		Personal: &data.PersonalInfo{FirstName: "Ada", AboutMe: "**bold**"},
		Stats:    service.AboutStats{YearsExperience: 7, ProjectsCompleted: 12, Technologies: 9, HappyClients: 30},
	}, nil
}
func (stubSite) Services(context.Context) ([]*data.Service, error) {
	return []*data.Service{{Title: "Consulting", Features: "Audits\nReviews"}}, nil
}
func (stubSite) Resume(context.Context) (*service.ResumePage, error) {
	return &service.ResumePage{Personal: &data.PersonalInfo{FirstName: "Ada"}, ResumeURL: "/media/cv.pdf"}, nil
}
func (stubSite) Testimonials(_ context.Context, raw string) (*service.TestimonialsPage, error) {
	return &service.TestimonialsPage{
		Testimonials: []*data.Testimonial{{Name: "Bob", Content: "Great", Rating: 4}},
		Pagination:   service.NewPagination(raw, 20, service.TestimonialsPerPage),
	}, nil
}
func (stubSite) Skills(context.Context) (*service.SkillsPage, error) {
	return &service.SkillsPage{SkillCategories: []*data.SkillCategory{{Name: "Backend", Skills: []*data.Skill{{Name: "Go", Proficiency: 90}}}}}, nil
}

type stubBlog struct {
	lastQuery  service.BlogQuery
	lastIP     string
	searchedQ  string
	missingErr error
}

func (s *stubBlog) List(_ context.Context, q service.BlogQuery) (*service.BlogListing, error) {
	s.lastQuery = q
	if s.missingErr != nil {
		return nil, s.missingErr
	}
	l := &service.BlogListing{
		Posts:      []*data.Post{samplePost("hello")},
		Pagination: service.NewPagination(q.Page, 13, service.PostsPerPage),
		Query:      q.Query,
		Featured:   q.FeaturedOnly,
		Sidebar:    &service.BlogSidebar{Categories: []*data.Category{{Name: "Go", Slug: "go"}}},
	}
	if q.CategorySlug != "" {
		l.Category = &data.Category{Name: "Golang", Slug: q.CategorySlug}
	}
	return l, nil
}
func (s *stubBlog) Detail(_ context.Context, slug, ip, _ string) (*service.PostDetail, error) {
	s.lastIP = ip
	if slug == "missing" {
		return nil, data.ErrNotFound
	}
	post := samplePost(slug)
	post.HTMLContent = "<p>Body</p>"
	return &service.PostDetail{
		Post: post,
		Comments: []*data.Comment{
			{Name: "Reader", Content: "Nice <b>post</b>", CreatedAt: published},
			{Name: "Fan", Content: "Tom & Jerry", CreatedAt: published},
		},
		Next:    samplePost("next"),
		Sidebar: &service.BlogSidebar{},
	}, nil
}
func (s *stubBlog) QuickSearch(_ context.Context, q string) ([]service.SearchResult, error) {
	s.searchedQ = q
	cat := "Go"
	return []service.SearchResult{{Title: "Testing in Go", Slug: "testing-in-go", Excerpt: "How to", Category: &cat}}, nil
}

type stubProjects struct {
	lastQuery service.ProjectQuery
}

func (s *stubProjects) List(_ context.Context, q service.ProjectQuery) (*service.ProjectListing, error) {
	s.lastQuery = q
	if q.TechnologySlug == "cobol" {
		return nil, data.ErrNotFound
	}
	return &service.ProjectListing{
		Projects:        []*data.Project{sampleProject("demo")},
		Pagination:      service.NewPagination(q.Page, 1, service.ProjectsPerPage),
		Query:           q.Query,
		CategoryParam:   q.CategoryParam,
		TechnologyParam: q.TechnologyParam,
		Categories:      []*data.ProjectCategory{{Name: "Web", Slug: "web"}},
		TotalProjects:   1,
	}, nil
}
func (s *stubProjects) Detail(_ context.Context, slug string) (*service.ProjectDetail, error) {
	if slug == "missing" {
		return nil, data.ErrNotFound
	}
	p := sampleProject(slug)
	p.HTMLContent = "<p>Details</p>"
	p.Images = []*data.ProjectImage{{URL: "/media/a.png", Caption: "Screen"}}
	return &service.ProjectDetail{Project: p, Related: []*data.Project{sampleProject("other")}}, nil
}
func (s *stubProjects) QuickSearch(context.Context, string) ([]service.ProjectSearchResult, error) {
	return []service.ProjectSearchResult{{Title: "Portfolio", Slug: "portfolio", Description: "Site"}}, nil
}

type stubContact struct {
	submitted  []service.ContactForm
	quick      []service.QuickContactForm
	lastMeta   service.RequestMeta
	subscribed []service.NewsletterForm
}

func (s *stubContact) Submit(_ context.Context, f service.ContactForm, meta service.RequestMeta) (*data.ContactMessage, error) {
	s.lastMeta = meta
	if len(f.Message) < 20 {
		return nil, service.ValidationErrors{"message": "Must be at least 20 characters long."}
	}
	s.submitted = append(s.submitted, f)
	return &data.ContactMessage{ID: 1}, nil
}
func (s *stubContact) QuickContact(_ context.Context, f service.QuickContactForm, meta service.RequestMeta) (*data.ContactMessage, error) {
	s.lastMeta = meta
	if f.Email == "" {
		return nil, service.ValidationErrors{"email": "This field is required."}
	}
	s.quick = append(s.quick, f)
	return &data.ContactMessage{ID: 2}, nil
}
func (s *stubContact) Subscribe(_ context.Context, f service.NewsletterForm) (service.SubscribeResult, error) {
	s.subscribed = append(s.subscribed, f)
	return service.SubscribeResult{Message: "Thank you for subscribing to our newsletter!", Type: "success"}, nil
}
func (s *stubContact) FAQs(context.Context) ([]*data.FAQ, error) {
	out := make([]*data.FAQ, 8)
	for i := range out {
		out[i] = &data.FAQ{Question: "Q?", Answer: "A."}
	}
	return out, nil
}

type stubSeo struct{}

func (stubSeo) Sitemap(context.Context) ([]byte, error) { return []byte("<urlset></urlset>"), nil }
func (stubSeo) Robots() []byte                          { return []byte("User-agent: *\n") }
func (stubSeo) Humans(context.Context) ([]byte, error)  { return []byte("/* TEAM */\n"), nil }

type stubSiteLoader struct{}

func (stubSiteLoader) Context(context.Context) (*service.SiteContext, error) {
	return &service.SiteContext{
		Name: "Ada's Portfolio", Tagline: "Building things", Year: 2024,
		Settings:    &data.SiteConfiguration{FooterText: "All rights reserved."},
		Personal:    &data.PersonalInfo{FirstName: "Ada"},
		Contact:     &data.ContactInfo{Email: "ada@example.com", City: "London", Country: "UK"},
		SocialLinks: []*data.SocialLink{{Platform: "github", Name: "GitHub", URL: "https://github.com/ada"}},
	}, nil
}

type testDeps struct {
	blog     *stubBlog
	projects *stubProjects
	contact  *stubContact
	session  *fakeSession
	admin    *AdminHandler
	auth     *AuthHandler
}

// newTestRouter builds the full router over stub services and the embedded
// templates.
func newTestRouter(t *testing.T, d *testDeps) *chi.Mux {
	t.Helper()
	log := logger.Nop()
	v, err := view.New(web.TemplateFS, view.NewMarkdown())
	require.NoError(t, err)

	if d.blog == nil {
		d.blog = &stubBlog{}
	}
	if d.projects == nil {
		d.projects = &stubProjects{}
	}
	if d.contact == nil {
		d.contact = &stubContact{}
	}
	if d.session == nil {
		d.session = newFakeSession()
	}
	rl := middleware.NewRateLimiter(config.RateLimitConfig{FormsPerMinute: 1000, FormsBurst: 1000}, log)
	t.Cleanup(rl.Stop)

	h := Handlers{
		Site:     NewSiteHandler(stubSite{}, v),
		Blog:     NewBlogHandler(d.blog, d.contact, v, log),
		Projects: NewProjectHandler(d.projects, v),
		Contact:  NewContactHandler(d.contact, d.session, v, log),
		Seo:      NewSeoHandler(stubSeo{}, log),
		Auth:     d.auth,
		Admin:    d.admin,
	}
	return NewRouter(h, RouterDeps{
		Log:         log,
		View:        v,
		Metrics:     metrics.Nop{},
		Sessions:    d.session,
		Site:        stubSiteLoader{},
		RateLimiter: rl,
		Authorizer:  func(next http.Handler) http.Handler { return next },
	})
}
