// Package service holds the business rules of the portfolio: what is
// visible, how listings are filtered and paginated, how related content is
// found, and how submissions are accepted and moderated.
package service

import (
	"context"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/storage"
	"html/template"
)

// ContentRenderer turns stored Markdown into safe HTML.
type ContentRenderer interface {
	Render(src string) template.HTML
}

// Cache is the byte cache used for generated documents.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// media resolves media keys, logging and swallowing failures so that a
// broken object store never takes a page down.
type media struct {
	store storage.MediaStore
	log   logger.Logger
}

func (m media) url(ctx context.Context, key string) string {
	if key == "" || m.store == nil {
		return ""
	}
	u, err := m.store.URL(ctx, key)
	if err != nil {
		m.log.Error(err, "failed to resolve media url")
		return ""
	}
	return u
}
