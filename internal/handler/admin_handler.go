package handler

import (
	"context"
	"encoding/json"
	"errors"
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/storage"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// maxUploadSize bounds a project image upload.
const maxUploadSize = 10 << 20

// Moderator performs the bulk moderation actions.
type Moderator interface {
	ApproveComments(ctx context.Context, ids []int64) (int64, error)
	MarkCommentsSpam(ctx context.Context, ids []int64) (int64, error)
	SetPostStatus(ctx context.Context, ids []int64, status content.PostStatus) (int64, error)
	FeaturePosts(ctx context.Context, ids []int64) (int64, error)
	SetProjectsPublished(ctx context.Context, ids []int64, published bool) (int64, error)
	FeatureProjects(ctx context.Context, ids []int64, level content.Featured) (int64, error)
	SetSubscribersActive(ctx context.Context, ids []int64, active bool) (int64, error)
	SetMessageStatus(ctx context.Context, ids []int64, status content.MessageStatus) (int64, error)
	SetMessageImportant(ctx context.Context, ids []int64, important bool) (int64, error)
	Messages(ctx context.Context, status content.MessageStatus) ([]*data.ContactMessage, error)
	UploadProjectImage(ctx context.Context, projectID int64, fileName, caption string, r io.Reader, size int64) (*data.ProjectImage, error)
}

// SettingsServicer reads and writes the singleton settings records.
type SettingsServicer interface {
	SiteConfiguration(ctx context.Context) (*data.SiteConfiguration, error)
	UpdateSiteConfiguration(ctx context.Context, v *data.SiteConfiguration) error
	CreateSiteConfiguration(ctx context.Context, v *data.SiteConfiguration) error
	ContactInfo(ctx context.Context) (*data.ContactInfo, error)
	UpdateContactInfo(ctx context.Context, v *data.ContactInfo) error
	CreateContactInfo(ctx context.Context, v *data.ContactInfo) error
	PersonalInfo(ctx context.Context) (*data.PersonalInfo, error)
	UpdatePersonalInfo(ctx context.Context, v *data.PersonalInfo) error
	CreatePersonalInfo(ctx context.Context, v *data.PersonalInfo) error
}

// AdminHandler serves the JSON moderation API under /admin/api.
type AdminHandler struct {
	moderation Moderator
	settings   SettingsServicer
	log        logger.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(m Moderator, s SettingsServicer, log logger.Logger) *AdminHandler {
	return &AdminHandler{moderation: m, settings: s, log: log}
}

// bulkRequest is the body of every bulk action.
type bulkRequest struct {
	IDs       []int64 `json:"ids"`
	Status    string  `json:"status"`
	Important *bool   `json:"important"`
	Level     *int    `json:"level"`
}

type bulkAction func(ctx context.Context, req bulkRequest) (int64, error)

// Routes mounts the moderation endpoints.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Get("/messages", h.messages)
	r.Post("/messages/status", h.bulk(func(ctx context.Context, req bulkRequest) (int64, error) {
		return h.moderation.SetMessageStatus(ctx, req.IDs, content.MessageStatus(req.Status))
	}))
	r.Post("/messages/important", h.bulk(func(ctx context.Context, req bulkRequest) (int64, error) {
		important := true
		if req.Important != nil {
			important = *req.Important
		}
		return h.moderation.SetMessageImportant(ctx, req.IDs, important)
	}))

	r.Post("/comments/approve", h.bulk(func(ctx context.Context, req bulkRequest) (int64, error) {
		return h.moderation.ApproveComments(ctx, req.IDs)
	}))
	r.Post("/comments/spam", h.bulk(func(ctx context.Context, req bulkRequest) (int64, error) {
		return h.moderation.MarkCommentsSpam(ctx, req.IDs)
	}))

	r.Post("/posts/publish", h.bulk(func(ctx context.Context, req bulkRequest) (int64, error) {
		return h.moderation.SetPostStatus(ctx, req.IDs, content.PostPublished)
	}))
	r.Post("/posts/draft", h.bulk(func(ctx context.Context, req bulkRequest) (int64, error) {
		return h.moderation.SetPostStatus(ctx, req.IDs, content.PostDraft)
	}))
	r.Post("/posts/feature", h.bulk(func(ctx context.Context, req bulkRequest) (int64, error) {
		return h.moderation.FeaturePosts(ctx, req.IDs)
	}))

	r.Post("/projects/publish", h.bulk(func(ctx context.Context, req bulkRequest) (int64, error) {
		return h.moderation.SetProjectsPublished(ctx, req.IDs, true)
	}))
	r.Post("/projects/unpublish", h.bulk(func(ctx context.Context, req bulkRequest) (int64, error) {
		return h.moderation.SetProjectsPublished(ctx, req.IDs, false)
	}))
	r.Post("/projects/feature", h.bulk(func(ctx context.Context, req bulkRequest) (int64, error) {
		level := content.FeaturedYes
		if req.Level != nil {
			level = content.Featured(*req.Level)
		}
		return h.moderation.FeatureProjects(ctx, req.IDs, level)
	}))
	r.Post("/projects/{id}/images", h.uploadImage)

	r.Post("/subscribers/activate", h.bulk(func(ctx context.Context, req bulkRequest) (int64, error) {
		return h.moderation.SetSubscribersActive(ctx, req.IDs, true)
	}))
	r.Post("/subscribers/deactivate", h.bulk(func(ctx context.Context, req bulkRequest) (int64, error) {
		return h.moderation.SetSubscribersActive(ctx, req.IDs, false)
	}))

	singleton(r, "/site-config", h.log, h.settings.SiteConfiguration, h.settings.UpdateSiteConfiguration, h.settings.CreateSiteConfiguration)
	singleton(r, "/contact-info", h.log, h.settings.ContactInfo, h.settings.UpdateContactInfo, h.settings.CreateContactInfo)
	singleton(r, "/personal-info", h.log, h.settings.PersonalInfo, h.settings.UpdatePersonalInfo, h.settings.CreatePersonalInfo)
}

func (h *AdminHandler) bulk(action bulkAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.JSONError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		n, err := action(r.Context(), req)
		if err != nil {
			writeServiceError(w, h.log, err)
			return
		}
		h.log.With(map[string]interface{}{
			"subject": middleware.GetUserInfo(r.Context()).Subject,
			"action":  r.URL.Path,
			"updated": n,
		}).Info("moderation action applied")
		middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "updated": n})
	}
}

func (h *AdminHandler) messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.moderation.Messages(r.Context(), content.MessageStatus(r.URL.Query().Get("status")))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if msgs == nil {
		msgs = []*data.ContactMessage{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "messages": msgs})
}

func (h *AdminHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.JSONError(w, http.StatusBadRequest, "Invalid project id")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.JSONError(w, http.StatusBadRequest, "Malformed upload")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.JSONError(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	img, err := h.moderation.UploadProjectImage(r.Context(), id, header.Filename, r.FormValue("caption"), file, header.Size)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "image": img})
}

// singleton mounts GET, PUT and POST for one settings record.
func singleton[T any](r chi.Router, path string, log logger.Logger,
	get func(context.Context) (*T, error),
	update func(context.Context, *T) error,
	create func(context.Context, *T) error) {
	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		v, err := get(r.Context())
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, v)
	})
	r.Put(path, func(w http.ResponseWriter, r *http.Request) {
		v := new(T)
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			middleware.JSONError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if err := update(r.Context(), v); err != nil {
			writeServiceError(w, log, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, v)
	})
	r.Post(path, func(w http.ResponseWriter, r *http.Request) {
		v := new(T)
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			middleware.JSONError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if err := create(r.Context(), v); err != nil {
			writeServiceError(w, log, err)
			return
		}
		middleware.WriteJSON(w, http.StatusCreated, v)
	})
}

// writeServiceError maps service and repository errors to JSON responses.
func writeServiceError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNoSelection), errors.Is(err, service.ErrInvalidValue):
		middleware.JSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, data.ErrNotFound):
		middleware.JSONError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, data.ErrSingletonExists):
		middleware.JSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrUploadsUnsupported):
		middleware.JSONError(w, http.StatusNotImplemented, err.Error())
	default:
		log.Error(err, "admin action failed")
		middleware.JSONError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
