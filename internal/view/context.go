package view

import "context"

type siteKey struct{}

// WithSite stores the shared page context for templates.
func WithSite(ctx context.Context, site any) context.Context {
	return context.WithValue(ctx, siteKey{}, site)
}

// Site returns the shared page context stored by WithSite, or nil.
func Site(ctx context.Context) any {
	return ctx.Value(siteKey{})
}
