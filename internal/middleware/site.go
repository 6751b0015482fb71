package middleware

import (
	"context"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/view"
	"net/http"
)

// SiteLoader loads the context shared by every page.
type SiteLoader interface {
	Context(ctx context.Context) (*service.SiteContext, error)
}

// SiteContext loads the site settings, owner details and social links once
// per request and makes them available to templates. A failing load is
// logged and the page renders without them.
func SiteContext(loader SiteLoader, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			site, err := loader.Context(r.Context())
			if err != nil {
				log.Error(err, "failed to load site context")
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(view.WithSite(r.Context(), site)))
		})
	}
}
