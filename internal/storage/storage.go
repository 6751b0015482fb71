// Package storage resolves and stores media files (post images, project
// thumbnails and gallery images) referenced by key from the database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"go-portfolio-app/internal/config"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaStore turns stored media keys into URLs and accepts uploads.
type MediaStore interface {
	// URL returns a browser-usable URL for key. An empty key yields "".
	URL(ctx context.Context, key string) (string, error)
	// Upload stores r under a fresh key below prefix and returns the key.
	Upload(ctx context.Context, prefix, fileName string, r io.Reader, size int64) (string, error)
}

// New returns the MediaStore selected by cfg.Driver.
func New(cfg config.MediaConfig) (MediaStore, error) {
	switch cfg.Driver {
	case "", "static":
		return NewStatic(cfg.BaseURL), nil
	case "minio":
		return NewMinIO(cfg)
	}
	return nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
}

// objectKey builds "<prefix>/<yyyy>/<mm>/<uuid><ext>" for an upload.
func objectKey(prefix, fileName string, now time.Time) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%d/%02d/%s%s", strings.Trim(prefix, "/"), now.Year(), now.Month(), uuid.NewString(), ext)
}

// contentType guesses the MIME type from the file extension.
func contentType(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Static serves media from a fixed base URL, e.g. a CDN or a directory
// behind the reverse proxy. It cannot accept uploads.
type Static struct {
	baseURL string
}

// NewStatic creates a Static store rooted at baseURL.
func NewStatic(baseURL string) *Static {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Static{baseURL: baseURL}
}

// URL joins key onto the base URL. Absolute keys are returned unchanged.
func (s *Static) URL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	if u, err := url.Parse(key); err == nil && u.IsAbs() {
		return key, nil
	}
	return s.baseURL + strings.TrimPrefix(key, "/"), nil
}

// ErrUploadsUnsupported is returned by stores that are read-only.
var ErrUploadsUnsupported = errors.New("media store does not accept uploads")

// Upload always fails for the static store.
func (s *Static) Upload(context.Context, string, string, io.Reader, int64) (string, error) {
	return "", ErrUploadsUnsupported
}
