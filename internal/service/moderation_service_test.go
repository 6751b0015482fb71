//go:build unit

package service

import (
	"bytes"
	"context"
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubMedia records uploads and serves keys under /media/.
type stubMedia struct {
	uploads []string
}

func (s *stubMedia) URL(_ context.Context, key string) (string, error) {
	return "/media/" + key, nil
}

func (s *stubMedia) Upload(_ context.Context, prefix, fileName string, r io.Reader, _ int64) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	key := prefix + "/" + fileName
	s.uploads = append(s.uploads, key)
	return key, nil
}

func newModeration(store *mockModerationStore, cache *memoryCache) *ModerationService {
	return NewModerationService(store, &stubMedia{}, cache, logger.Nop())
}

func TestModerationService_CommentFlags(t *testing.T) {
	store := &mockModerationStore{}
	svc := newModeration(store, newMemoryCache())
	yes := true

	store.On("SetCommentFlags", mock.Anything, []int64{1, 2}, data.CommentFlags{Spam: &yes}).Return(int64(2), nil)
	n, err := svc.MarkCommentsSpam(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	store.On("SetCommentFlags", mock.Anything, []int64{3}, data.CommentFlags{Approved: &yes}).Return(int64(1), nil)
	_, err = svc.ApproveComments(context.Background(), []int64{3})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestModerationService_EmptySelection(t *testing.T) {
	store := &mockModerationStore{}
	svc := newModeration(store, newMemoryCache())

	_, err := svc.ApproveComments(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSelection)
	_, err = svc.SetMessageStatus(context.Background(), []int64{}, content.MessageRead)
	assert.ErrorIs(t, err, ErrNoSelection)
	store.AssertNotCalled(t, "SetCommentFlags", mock.Anything, mock.Anything, mock.Anything)
}

func TestModerationService_InvalidValues(t *testing.T) {
	svc := newModeration(&mockModerationStore{}, newMemoryCache())

	_, err := svc.SetPostStatus(context.Background(), []int64{1}, "deleted")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = svc.SetMessageStatus(context.Background(), []int64{1}, "pending")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = svc.FeatureProjects(context.Background(), []int64{1}, content.Featured(7))
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = svc.Messages(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestModerationService_PublishingInvalidatesSitemap(t *testing.T) {
	store := &mockModerationStore{}
	cache := newMemoryCache()
	cache.entries[SitemapCacheKey] = []byte("<urlset/>")
	svc := newModeration(store, cache)

	store.On("SetPostStatus", mock.Anything, []int64{4}, content.PostPublished).Return(int64(1), nil)
	_, err := svc.SetPostStatus(context.Background(), []int64{4}, content.PostPublished)
	require.NoError(t, err)
	assert.NotContains(t, cache.entries, SitemapCacheKey)

	store.On("SetProjectPublished", mock.Anything, []int64{5}, false).Return(int64(1), nil)
	_, err = svc.SetProjectsPublished(context.Background(), []int64{5}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.deletes)

	store.On("SetPostFeatured", mock.Anything, []int64{4}, true).Return(int64(1), nil)
	_, err = svc.FeaturePosts(context.Background(), []int64{4})
	require.NoError(t, err)
	assert.Equal(t, 2, cache.deletes, "featuring does not change the sitemap")
}

func TestModerationService_MessageWorkflow(t *testing.T) {
	store := &mockModerationStore{}
	svc := newModeration(store, newMemoryCache())

	for _, status := range content.MessageStatuses {
		store.On("SetMessageStatus", mock.Anything, []int64{9}, status).Return(int64(1), nil).Once()
		n, err := svc.SetMessageStatus(context.Background(), []int64{9}, status)
		require.NoError(t, err, status)
		assert.Equal(t, int64(1), n)
	}

	store.On("ListMessages", mock.Anything, content.MessageStatus("")).Return([]*data.ContactMessage{{ID: 9}}, nil)
	msgs, err := svc.Messages(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
	store.AssertExpectations(t)
}

func TestModerationService_UploadProjectImage(t *testing.T) {
	store := &mockModerationStore{}
	media := &stubMedia{}
	svc := NewModerationService(store, media, newMemoryCache(), logger.Nop())

	store.On("GetProject", mock.Anything, int64(3)).Return(&data.Project{ID: 3}, nil)
	store.On("AddProjectImage", mock.Anything, mock.AnythingOfType("*data.ProjectImage")).Return(nil)

	img, err := svc.UploadProjectImage(context.Background(), 3, "shot.png", "Home", bytes.NewBufferString("png"), 3)
	require.NoError(t, err)
	assert.Equal(t, "projects/3/shot.png", img.Image)
	assert.Equal(t, "/media/projects/3/shot.png", img.URL)
	assert.Equal(t, int64(3), img.ProjectID)

	store.On("GetProject", mock.Anything, int64(4)).Return(nil, data.ErrNotFound)
	_, err = svc.UploadProjectImage(context.Background(), 4, "x.png", "", bytes.NewBufferString("x"), 1)
	assert.ErrorIs(t, err, data.ErrNotFound)
	assert.Len(t, media.uploads, 1)
}
