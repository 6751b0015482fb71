package handler

import (
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/view"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// BlogHandler holds the dependencies for the blog handlers.
type BlogHandler struct {
	blog    BlogServicer
	contact ContactServicer
	view    *view.View
	log     logger.Logger
}

// NewBlogHandler creates a new BlogHandler. The contact service handles
// the newsletter form embedded in the blog pages.
func NewBlogHandler(b BlogServicer, c ContactServicer, v *view.View, log logger.Logger) *BlogHandler {
	return &BlogHandler{blog: b, contact: c, view: v, log: log}
}

func (h *BlogHandler) listing(w http.ResponseWriter, r *http.Request, q service.BlogQuery, title string) *middleware.AppError {
	q.Query = r.URL.Query().Get("q")
	q.Page = r.URL.Query().Get("page")
	listing, err := h.blog.List(r.Context(), q)
	if err != nil {
		return lookupError(err, "Failed to load posts")
	}
	switch {
	case listing.Category != nil:
		title = listing.Category.Name
	case listing.Tag != nil:
		title = "#" + listing.Tag.Name
	}
	return render(h.view, w, r, "blog_list.html", map[string]interface{}{
		"Title":   title,
		"Listing": listing,
	})
}

func (h *BlogHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.listing(w, r, service.BlogQuery{}, "Blog")
}

func (h *BlogHandler) featured(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.listing(w, r, service.BlogQuery{FeaturedOnly: true}, "Featured Posts")
}

func (h *BlogHandler) category(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.listing(w, r, service.BlogQuery{CategorySlug: chi.URLParam(r, "slug")}, "Blog")
}

func (h *BlogHandler) tag(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.listing(w, r, service.BlogQuery{TagSlug: chi.URLParam(r, "slug")}, "Blog")
}

func (h *BlogHandler) detail(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	meta := requestMeta(r)
	detail, err := h.blog.Detail(r.Context(), chi.URLParam(r, "slug"), meta.IP, meta.UserAgent)
	if err != nil {
		return lookupError(err, "Failed to load post")
	}
	return render(h.view, w, r, "post_detail.html", map[string]interface{}{
		"Title":  detail.Post.DisplayTitle(),
		"Detail": detail,
	})
}

// subscribe answers the newsletter form with a fragment that replaces the
// form in place. Plain GETs go back to the blog.
func (h *BlogHandler) subscribe(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/blog/", http.StatusFound)
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Bad Request", Code: http.StatusBadRequest}
	}
	res, err := h.contact.Subscribe(r.Context(), service.NewsletterForm{
		Email: r.PostFormValue("email"),
		Name:  r.PostFormValue("name"),
	})
	if err != nil {
		h.log.Error(err, "newsletter signup failed")
		res = service.SubscribeResult{Message: "An error occurred. Please try again later.", Type: "error"}
	}
	return render(h.view, w, r, "partials/newsletter_message.html", map[string]interface{}{
		"Message": res.Message,
		"Type":    res.Type,
	})
}

func (h *BlogHandler) search(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	q := r.URL.Query().Get("q")
	results, err := h.blog.QuickSearch(r.Context(), q)
	if err != nil {
		return middleware.Internal(err, "Search failed")
	}
	return render(h.view, w, r, "partials/post_search_results.html", map[string]interface{}{
		"Query":   q,
		"Results": results,
	})
}
