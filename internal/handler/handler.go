package handler

import (
	"context"
	"errors"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/view"
	"net/http"
)

// SiteServicer serves the marketing pages.
type SiteServicer interface {
	Home(ctx context.Context) (*service.HomePage, error)
	About(ctx context.Context) (*service.AboutPage, error)
	Services(ctx context.Context) ([]*data.Service, error)
	Resume(ctx context.Context) (*service.ResumePage, error)
	Testimonials(ctx context.Context, rawPage string) (*service.TestimonialsPage, error)
	Skills(ctx context.Context) (*service.SkillsPage, error)
}

// BlogServicer serves the public blog.
type BlogServicer interface {
	List(ctx context.Context, q service.BlogQuery) (*service.BlogListing, error)
	Detail(ctx context.Context, slug, ip, userAgent string) (*service.PostDetail, error)
	QuickSearch(ctx context.Context, q string) ([]service.SearchResult, error)
}

// ProjectServicer serves the project showcase.
type ProjectServicer interface {
	List(ctx context.Context, q service.ProjectQuery) (*service.ProjectListing, error)
	Detail(ctx context.Context, slug string) (*service.ProjectDetail, error)
	QuickSearch(ctx context.Context, q string) ([]service.ProjectSearchResult, error)
}

// ContactServicer accepts the public form submissions.
type ContactServicer interface {
	Submit(ctx context.Context, form service.ContactForm, meta service.RequestMeta) (*data.ContactMessage, error)
	QuickContact(ctx context.Context, form service.QuickContactForm, meta service.RequestMeta) (*data.ContactMessage, error)
	Subscribe(ctx context.Context, form service.NewsletterForm) (service.SubscribeResult, error)
	FAQs(ctx context.Context) ([]*data.FAQ, error)
}

// render executes a full page template.
func render(v *view.View, w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) *middleware.AppError {
	if err := v.Render(w, r, name, data); err != nil {
		return middleware.Internal(err, "Failed to render page")
	}
	return nil
}

// lookupError maps a failed lookup to a 404 when the record is missing.
func lookupError(err error, msg string) *middleware.AppError {
	if errors.Is(err, data.ErrNotFound) {
		return middleware.NotFound(err)
	}
	return middleware.Internal(err, msg)
}

func requestMeta(r *http.Request) service.RequestMeta {
	return service.RequestMeta{
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}
}
