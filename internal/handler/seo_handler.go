package handler

import (
	"context"
	"go-portfolio-app/internal/logger"
	"net/http"
)

// SeoServicer produces the crawler-facing documents.
type SeoServicer interface {
	Sitemap(ctx context.Context) ([]byte, error)
	Robots() []byte
	Humans(ctx context.Context) ([]byte, error)
}

// SeoHandler serves sitemap.xml, robots.txt and humans.txt.
type SeoHandler struct {
	seo SeoServicer
	log logger.Logger
}

// NewSeoHandler creates a new SeoHandler.
func NewSeoHandler(s SeoServicer, log logger.Logger) *SeoHandler {
	return &SeoHandler{seo: s, log: log}
}

func (h *SeoHandler) sitemap(w http.ResponseWriter, r *http.Request) {
	body, err := h.seo.Sitemap(r.Context())
	if err != nil {
		h.log.Error(err, "failed to build sitemap")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

func (h *SeoHandler) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(h.seo.Robots())
}

func (h *SeoHandler) humans(w http.ResponseWriter, r *http.Request) {
	body, err := h.seo.Humans(r.Context())
	if err != nil {
		h.log.Error(err, "failed to build humans.txt")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(body)
}
