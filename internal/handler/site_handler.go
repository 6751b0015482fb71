package handler

import (
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/view"
	"net/http"
)

// SiteHandler serves the home page and the other marketing pages.
type SiteHandler struct {
	site SiteServicer
	view *view.View
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(s SiteServicer, v *view.View) *SiteHandler {
	return &SiteHandler{site: s, view: v}
}

func (h *SiteHandler) home(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, err := h.site.Home(r.Context())
	if err != nil {
		return middleware.Internal(err, "Failed to load home page")
	}
	return render(h.view, w, r, "home.html", map[string]interface{}{
		"Title": "Home",
		"Page":  page,
	})
}

func (h *SiteHandler) about(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, err := h.site.About(r.Context())
	if err != nil {
		return middleware.Internal(err, "Failed to load about page")
	}
	return render(h.view, w, r, "about.html", map[string]interface{}{
		"Title": "About",
		"Page":  page,
	})
}

func (h *SiteHandler) services(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	services, err := h.site.Services(r.Context())
	if err != nil {
		return middleware.Internal(err, "Failed to load services")
	}
	return render(h.view, w, r, "services.html", map[string]interface{}{
		"Title":    "Services",
		"Services": services,
	})
}

func (h *SiteHandler) resume(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, err := h.site.Resume(r.Context())
	if err != nil {
		return middleware.Internal(err, "Failed to load resume")
	}
	return render(h.view, w, r, "resume.html", map[string]interface{}{
		"Title": "Resume",
		"Page":  page,
	})
}

func (h *SiteHandler) testimonials(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, err := h.site.Testimonials(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		return middleware.Internal(err, "Failed to load testimonials")
	}
	return render(h.view, w, r, "testimonials.html", map[string]interface{}{
		"Title": "Testimonials",
		"Page":  page,
	})
}

func (h *SiteHandler) skills(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, err := h.site.Skills(r.Context())
	if err != nil {
		return middleware.Internal(err, "Failed to load skills")
	}
	return render(h.view, w, r, "skills.html", map[string]interface{}{
		"Title": "Skills",
		"Page":  page,
	})
}
