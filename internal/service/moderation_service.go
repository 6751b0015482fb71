package service

import (
	"context"
	"errors"
	"fmt"
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/storage"
	"io"
)

var (
	// ErrNoSelection is returned by bulk actions called without ids.
	ErrNoSelection = errors.New("no items selected")
	// ErrInvalidValue is returned when a status or level is not one of the
	// allowed values.
	ErrInvalidValue = errors.New("invalid value")
)

// ModerationStore groups the write operations used by ModerationService.
type ModerationStore interface {
	SetCommentFlags(ctx context.Context, ids []int64, flags data.CommentFlags) (int64, error)
	SetPostStatus(ctx context.Context, ids []int64, status content.PostStatus) (int64, error)
	SetPostFeatured(ctx context.Context, ids []int64, featured bool) (int64, error)
	SetProjectPublished(ctx context.Context, ids []int64, published bool) (int64, error)
	SetProjectFeatured(ctx context.Context, ids []int64, featured content.Featured) (int64, error)
	SetSubscribersActive(ctx context.Context, ids []int64, active bool) (int64, error)
	SetMessageStatus(ctx context.Context, ids []int64, status content.MessageStatus) (int64, error)
	SetMessageImportant(ctx context.Context, ids []int64, important bool) (int64, error)
	ListMessages(ctx context.Context, status content.MessageStatus) ([]*data.ContactMessage, error)
	GetProject(ctx context.Context, id int64) (*data.Project, error)
	AddProjectImage(ctx context.Context, img *data.ProjectImage) error
}

// Repositories adapts the concrete repositories to ModerationStore.
type Repositories struct {
	Posts      *data.PostRepository
	Comments   *data.CommentRepository
	Projects   *data.ProjectRepository
	Newsletter *data.NewsletterRepository
	Contact    *data.ContactRepository
}

func (r Repositories) SetCommentFlags(ctx context.Context, ids []int64, f data.CommentFlags) (int64, error) {
	return r.Comments.SetCommentFlags(ctx, ids, f)
}

func (r Repositories) SetPostStatus(ctx context.Context, ids []int64, s content.PostStatus) (int64, error) {
	return r.Posts.SetStatus(ctx, ids, s)
}

func (r Repositories) SetPostFeatured(ctx context.Context, ids []int64, featured bool) (int64, error) {
	return r.Posts.SetFeatured(ctx, ids, featured)
}

func (r Repositories) SetProjectPublished(ctx context.Context, ids []int64, published bool) (int64, error) {
	return r.Projects.SetPublished(ctx, ids, published)
}

func (r Repositories) SetProjectFeatured(ctx context.Context, ids []int64, f content.Featured) (int64, error) {
	return r.Projects.SetFeatured(ctx, ids, f)
}

func (r Repositories) SetSubscribersActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	return r.Newsletter.SetActive(ctx, ids, active)
}

func (r Repositories) SetMessageStatus(ctx context.Context, ids []int64, s content.MessageStatus) (int64, error) {
	return r.Contact.SetStatus(ctx, ids, s)
}

func (r Repositories) SetMessageImportant(ctx context.Context, ids []int64, important bool) (int64, error) {
	return r.Contact.SetImportant(ctx, ids, important)
}

func (r Repositories) ListMessages(ctx context.Context, s content.MessageStatus) ([]*data.ContactMessage, error) {
	return r.Contact.ListMessages(ctx, s)
}

func (r Repositories) GetProject(ctx context.Context, id int64) (*data.Project, error) {
	return r.Projects.GetByID(ctx, id)
}

func (r Repositories) AddProjectImage(ctx context.Context, img *data.ProjectImage) error {
	return r.Projects.AddImage(ctx, img)
}

// ModerationService implements the admin bulk actions. Actions that change
// what is publicly listed drop the cached sitemap.
type ModerationService struct {
	store ModerationStore
	media storage.MediaStore
	cache Cache
	log   logger.Logger
}

// NewModerationService creates a new ModerationService.
func NewModerationService(store ModerationStore, media storage.MediaStore, cache Cache, log logger.Logger) *ModerationService {
	return &ModerationService{store: store, media: media, cache: cache, log: log}
}

func (s *ModerationService) bulk(ids []int64, fn func() (int64, error)) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoSelection
	}
	return fn()
}

func (s *ModerationService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, SitemapCacheKey); err != nil {
		s.log.Error(err, "failed to invalidate sitemap cache")
	}
}

// ApproveComments approves comments. Spam flags are left alone.
func (s *ModerationService) ApproveComments(ctx context.Context, ids []int64) (int64, error) {
	approved := true
	return s.bulk(ids, func() (int64, error) {
		return s.store.SetCommentFlags(ctx, ids, data.CommentFlags{Approved: &approved})
	})
}

// MarkCommentsSpam flags comments as spam, which also unapproves them.
func (s *ModerationService) MarkCommentsSpam(ctx context.Context, ids []int64) (int64, error) {
	spam := true
	return s.bulk(ids, func() (int64, error) {
		return s.store.SetCommentFlags(ctx, ids, data.CommentFlags{Spam: &spam})
	})
}

// SetPostStatus publishes, drafts or archives posts.
func (s *ModerationService) SetPostStatus(ctx context.Context, ids []int64, status content.PostStatus) (int64, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: post status %q", ErrInvalidValue, status)
	}
	n, err := s.bulk(ids, func() (int64, error) { return s.store.SetPostStatus(ctx, ids, status) })
	if err == nil {
		s.invalidate(ctx)
	}
	return n, err
}

// FeaturePosts marks posts as featured.
func (s *ModerationService) FeaturePosts(ctx context.Context, ids []int64) (int64, error) {
	return s.bulk(ids, func() (int64, error) { return s.store.SetPostFeatured(ctx, ids, true) })
}

// SetProjectsPublished publishes or hides projects.
func (s *ModerationService) SetProjectsPublished(ctx context.Context, ids []int64, published bool) (int64, error) {
	n, err := s.bulk(ids, func() (int64, error) { return s.store.SetProjectPublished(ctx, ids, published) })
	if err == nil {
		s.invalidate(ctx)
	}
	return n, err
}

// FeatureProjects sets the featured level of projects.
func (s *ModerationService) FeatureProjects(ctx context.Context, ids []int64, level content.Featured) (int64, error) {
	if !level.Valid() {
		return 0, fmt.Errorf("%w: featured level %d", ErrInvalidValue, level)
	}
	return s.bulk(ids, func() (int64, error) { return s.store.SetProjectFeatured(ctx, ids, level) })
}

// SetSubscribersActive activates or deactivates newsletter subscribers.
func (s *ModerationService) SetSubscribersActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	return s.bulk(ids, func() (int64, error) { return s.store.SetSubscribersActive(ctx, ids, active) })
}

// SetMessageStatus moves contact messages to any state; every state is
// reachable from every other.
func (s *ModerationService) SetMessageStatus(ctx context.Context, ids []int64, status content.MessageStatus) (int64, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: message status %q", ErrInvalidValue, status)
	}
	return s.bulk(ids, func() (int64, error) { return s.store.SetMessageStatus(ctx, ids, status) })
}

// SetMessageImportant toggles the important flag of contact messages.
func (s *ModerationService) SetMessageImportant(ctx context.Context, ids []int64, important bool) (int64, error) {
	return s.bulk(ids, func() (int64, error) { return s.store.SetMessageImportant(ctx, ids, important) })
}

// Messages lists contact messages in admin order, optionally by status.
func (s *ModerationService) Messages(ctx context.Context, status content.MessageStatus) ([]*data.ContactMessage, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: message status %q", ErrInvalidValue, status)
	}
	return s.store.ListMessages(ctx, status)
}

// UploadProjectImage stores an image in media storage and attaches it to
// the project's gallery.
func (s *ModerationService) UploadProjectImage(ctx context.Context, projectID int64, fileName, caption string,
	r io.Reader, size int64) (*data.ProjectImage, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	key, err := s.media.Upload(ctx, fmt.Sprintf("projects/%d", projectID), fileName, r, size)
	if err != nil {
		return nil, err
	}
	img := &data.ProjectImage{ProjectID: projectID, Image: key, Caption: caption}
	if err := s.store.AddProjectImage(ctx, img); err != nil {
		return nil, err
	}
	img.URL, err = s.media.URL(ctx, key)
	if err != nil {
		s.log.Error(err, "failed to resolve uploaded image url")
	}
	return img, nil
}
