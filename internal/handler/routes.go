package handler

import (
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/metrics"
	appmw "go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/session"
	"go-portfolio-app/internal/view"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the route handlers. Auth and Admin are optional: without
// an identity provider the login and moderation routes are not mounted.
type Handlers struct {
	Site     *SiteHandler
	Blog     *BlogHandler
	Projects *ProjectHandler
	Contact  *ContactHandler
	Seo      *SeoHandler
	Auth     *AuthHandler
	Admin    *AdminHandler
}

// RouterDeps holds the cross-cutting pieces wired around the handlers.
type RouterDeps struct {
	Log         logger.Logger
	View        *view.View
	Metrics     metrics.Recorder
	MetricsHTTP http.Handler
	Sessions    session.Manager
	Site        appmw.SiteLoader
	RateLimiter *appmw.RateLimiter
	Authorizer  func(http.Handler) http.Handler
	Static      fs.FS
}

// NewRouter creates and configures a new chi router.
func NewRouter(h Handlers, d RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	page := appmw.Error(d.Log, d.View)

	r.Use(middleware.RequestID)
	r.Use(appmw.RequestLogger(d.Log, d.Metrics))
	r.Use(appmw.SecurityHeaders)
	r.Use(d.Sessions.LoadAndSave)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		appmw.RenderError(w, r, d.Log, d.View, http.StatusNotFound, "Page Not Found")
	})

	if d.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(d.Static))))
	}
	if d.MetricsHTTP != nil {
		r.Handle("/metrics", d.MetricsHTTP)
	}

	r.Get("/sitemap.xml", h.Seo.sitemap)
	r.Get("/robots.txt", h.Seo.robots)
	r.Get("/humans.txt", h.Seo.humans)

	r.Group(func(r chi.Router) {
		r.Use(appmw.SiteContext(d.Site, d.Log))
		pages(r, h, d, page)
	})

	if h.Auth != nil {
		r.Get("/auth/login", h.Auth.handleLogin)
		r.Get("/auth/callback", h.Auth.handleCallback)
		r.Get("/auth/logout", h.Auth.handleLogout)
	}
	if h.Admin != nil && d.Authorizer != nil {
		r.Route("/admin/api", func(r chi.Router) {
			r.Use(d.Authorizer)
			h.Admin.Routes(r)
		})
	}

	return r
}

// pages mounts the HTML pages and the public form endpoints.
func pages(r chi.Router, h Handlers, d RouterDeps, page func(appmw.AppHandler) http.Handler) {
	r.Method(http.MethodGet, "/", page(h.Site.home))
	r.Method(http.MethodGet, "/about/", page(h.Site.about))
	r.Method(http.MethodGet, "/services/", page(h.Site.services))
	r.Method(http.MethodGet, "/resume/", page(h.Site.resume))
	r.Method(http.MethodGet, "/testimonials/", page(h.Site.testimonials))
	r.Method(http.MethodGet, "/skills/", page(h.Site.skills))

	r.Route("/blog", func(r chi.Router) {
		r.Method(http.MethodGet, "/", page(h.Blog.list))
		r.Method(http.MethodGet, "/featured/", page(h.Blog.featured))
		r.Method(http.MethodGet, "/category/{slug}/", page(h.Blog.category))
		r.Method(http.MethodGet, "/tag/{slug}/", page(h.Blog.tag))
		r.Method(http.MethodGet, "/ajax/search/", page(h.Blog.search))
		r.Method(http.MethodGet, "/newsletter/subscribe/", page(h.Blog.subscribe))
		r.With(d.RateLimiter.Middleware).Method(http.MethodPost, "/newsletter/subscribe/", page(h.Blog.subscribe))
		r.Method(http.MethodGet, "/{slug}/", page(h.Blog.detail))
	})

	r.Route("/projects", func(r chi.Router) {
		r.Method(http.MethodGet, "/", page(h.Projects.list))
		r.Method(http.MethodGet, "/featured/", page(h.Projects.featured))
		r.Method(http.MethodGet, "/category/{slug}/", page(h.Projects.category))
		r.Method(http.MethodGet, "/technology/{slug}/", page(h.Projects.technology))
		r.Method(http.MethodGet, "/ajax/search/", page(h.Projects.search))
		r.Method(http.MethodGet, "/{slug}/", page(h.Projects.detail))
	})

	r.Route("/contact", func(r chi.Router) {
		r.Method(http.MethodGet, "/", page(h.Contact.form))
		r.With(d.RateLimiter.Middleware).Method(http.MethodPost, "/", page(h.Contact.submit))
		r.Method(http.MethodGet, "/success/", page(h.Contact.success))
		r.Method(http.MethodGet, "/faq/", page(h.Contact.faq))
		r.With(d.RateLimiter.Middleware).HandleFunc("/ajax/quick-contact/", h.Contact.quickContact)
	})
}
