package handler

import (
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/view"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ProjectHandler holds the dependencies for the project showcase handlers.
type ProjectHandler struct {
	projects ProjectServicer
	view     *view.View
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(p ProjectServicer, v *view.View) *ProjectHandler {
	return &ProjectHandler{projects: p, view: v}
}

func (h *ProjectHandler) listing(w http.ResponseWriter, r *http.Request, q service.ProjectQuery, title string) *middleware.AppError {
	params := r.URL.Query()
	q.Query = params.Get("q")
	q.CategoryParam = params.Get("category")
	q.TechnologyParam = params.Get("technology")
	q.Page = params.Get("page")

	listing, err := h.projects.List(r.Context(), q)
	if err != nil {
		return lookupError(err, "Failed to load projects")
	}
	switch {
	case listing.Category != nil:
		title = listing.Category.Name + " Projects"
	case listing.Technology != nil:
		title = listing.Technology.Name + " Projects"
	}
	return render(h.view, w, r, "project_list.html", map[string]interface{}{
		"Title":   title,
		"Listing": listing,
	})
}

func (h *ProjectHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.listing(w, r, service.ProjectQuery{}, "Projects")
}

func (h *ProjectHandler) featured(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.listing(w, r, service.ProjectQuery{FeaturedOnly: true}, "Featured Projects")
}

func (h *ProjectHandler) category(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.listing(w, r, service.ProjectQuery{CategorySlug: chi.URLParam(r, "slug")}, "Projects")
}

func (h *ProjectHandler) technology(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.listing(w, r, service.ProjectQuery{TechnologySlug: chi.URLParam(r, "slug")}, "Projects")
}

func (h *ProjectHandler) detail(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	detail, err := h.projects.Detail(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		return lookupError(err, "Failed to load project")
	}
	return render(h.view, w, r, "project_detail.html", map[string]interface{}{
		"Title":  detail.Project.DisplayTitle(),
		"Detail": detail,
	})
}

func (h *ProjectHandler) search(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	q := r.URL.Query().Get("q")
	results, err := h.projects.QuickSearch(r.Context(), q)
	if err != nil {
		return middleware.Internal(err, "Search failed")
	}
	return render(h.view, w, r, "partials/project_search_results.html", map[string]interface{}{
		"Query":   q,
		"Results": results,
	})
}
