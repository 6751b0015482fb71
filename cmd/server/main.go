package main

import (
	"context"
	"errors"
	"fmt"
	"go-portfolio-app/internal/auth"
	"go-portfolio-app/internal/cache"
	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/handler"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/metrics"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/notify"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/session"
	"go-portfolio-app/internal/storage"
	"go-portfolio-app/internal/view"
	"go-portfolio-app/web"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, os.Stdout)

	// --- Pre-flight Checks ---
	adminEnabled := cfg.OIDC.IssuerURL != ""
	if adminEnabled && len(cfg.OIDC.AdminSubjects) == 0 {
		log.Fatal(errors.New("no admin subjects configured"), "Set PORTFOLIO_OIDC_ADMIN_SUBJECTS or disable OIDC.")
	}

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Session Management Setup ---
	sessionManager, err := session.New(db.DB, cfg.DB.Driver, cfg.Session, cfg.Server.TLS.Enabled)
	if err != nil {
		log.Fatal(err, "Failed to initialize sessions")
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	markdown := view.NewMarkdown()
	viewService, err := view.New(web.TemplateFS, markdown)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		log.Fatal(err, "Failed to open static assets")
	}

	// --- Cache, Media and Mail ---
	pageCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer pageCache.Close()
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go pageCache.PurgeEvery(janitorCtx, cfg.Cache.TTL, log)

	media, err := storage.New(cfg.Media)
	if err != nil {
		log.Fatal(err, "Failed to initialize media storage")
	}
	dispatcher := notify.NewDispatcher(notify.New(cfg.Mail, log), cfg.Mail.Timeout, log, collector)

	// --- Dependency Injection ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	posts := data.NewPostRepository(db)
	taxonomy := data.NewTaxonomyRepository(db)
	comments := data.NewCommentRepository(db)
	projects := data.NewProjectRepository(db)
	contacts := data.NewContactRepository(db)
	newsletter := data.NewNewsletterRepository(db)
	profile := data.NewProfileRepository(db)

	blogService := service.NewBlogService(posts, taxonomy, comments, markdown, media, log, collector)
	projectService := service.NewProjectService(projects, markdown, media, log)
	contactService := service.NewContactService(contacts, newsletter, dispatcher, log, collector)
	siteService := service.NewSiteService(service.SiteDeps{
		Settings: data.NewSiteConfigurationRepository(db),
		Contact:  data.NewContactInfoRepository(db),
		Personal: data.NewPersonalInfoRepository(db),
		Social:   contacts,
		Profile:  profile,
		Showcase: projects,
		Featured: projectService,
		Posts:    posts,
		Media:    media,
	}, cfg.Site, log)
	seoService := service.NewSeoService(service.SitemapRepositories{Posts: posts, Projects: projects, Taxonomy: taxonomy},
		pageCache, cfg.Server.BaseURL, siteService, log)

	handlers := handler.Handlers{
		Site:     handler.NewSiteHandler(siteService, viewService),
		Blog:     handler.NewBlogHandler(blogService, contactService, viewService, log),
		Projects: handler.NewProjectHandler(projectService, viewService),
		Contact:  handler.NewContactHandler(contactService, sessionManager, viewService, log),
		Seo:      handler.NewSeoHandler(seoService, log),
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, log)
	defer rateLimiter.Stop()

	deps := handler.RouterDeps{
		Log:         log,
		View:        viewService,
		Metrics:     collector,
		MetricsHTTP: metrics.Handler(registry),
		Sessions:    sessionManager,
		Site:        siteService,
		RateLimiter: rateLimiter,
		Static:      staticFS,
	}

	// --- Authentication and Authorization Setup ---
	if adminEnabled {
		log.Info("Initializing authentication and authorization...")
		authenticator, err := auth.NewAuthenticator(context.Background(), &cfg.OIDC)
		if err != nil {
			log.Fatal(err, "Failed to initialize authenticator")
		}
		enforcer, err := auth.NewEnforcer(cfg.DB)
		if err != nil {
			log.Fatal(err, "Failed to initialize enforcer")
		}
		auth.SeedDefaultPolicies(enforcer, cfg.OIDC.AdminSubjects, log)

		moderation := service.NewModerationService(service.Repositories{
			Posts:      posts,
			Comments:   comments,
			Projects:   projects,
			Newsletter: newsletter,
			Contact:    contacts,
		}, media, pageCache, log)
		handlers.Auth = handler.NewAuthHandler(authenticator, sessionManager, log)
		handlers.Admin = handler.NewAdminHandler(moderation, siteService, log)
		deps.Authorizer = middleware.Authorizer(enforcer, sessionManager, log)
		log.Info("Auth components initialized and policies seeded.")
	} else {
		log.Warn("OIDC issuer not configured; admin routes are disabled.")
	}

	// --- Router Setup ---
	router := handler.NewRouter(handlers, deps)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	// Let background view counting and notifications finish.
	blogService.Wait()
	dispatcher.Wait()
	log.Info("Server exiting")
}
