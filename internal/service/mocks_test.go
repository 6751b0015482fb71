//go:build unit

package service

import (
	"context"
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/notify"
	"html/template"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// posts returns the typed first return value, tolerating nil.
func posts(args mock.Arguments, i int) []*data.Post {
	if v := args.Get(i); v != nil {
		return v.([]*data.Post)
	}
	return nil
}

type mockPostRepo struct{ mock.Mock }

func (m *mockPostRepo) ListPublished(ctx context.Context, f data.PostFilter, limit, offset int) ([]*data.Post, error) {
	args := m.Called(ctx, f, limit, offset)
	return posts(args, 0), args.Error(1)
}

func (m *mockPostRepo) CountPublished(ctx context.Context, f data.PostFilter) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *mockPostRepo) PublishedBySlug(ctx context.Context, slug string) (*data.Post, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(*data.Post)
	return p, args.Error(1)
}

func (m *mockPostRepo) Related(ctx context.Context, p *data.Post, limit int) ([]*data.Post, error) {
	args := m.Called(ctx, p, limit)
	return posts(args, 0), args.Error(1)
}

func (m *mockPostRepo) Next(ctx context.Context, p *data.Post) (*data.Post, error) {
	args := m.Called(ctx, p)
	n, _ := args.Get(0).(*data.Post)
	return n, args.Error(1)
}

func (m *mockPostRepo) Previous(ctx context.Context, p *data.Post) (*data.Post, error) {
	args := m.Called(ctx, p)
	n, _ := args.Get(0).(*data.Post)
	return n, args.Error(1)
}

func (m *mockPostRepo) RecordView(ctx context.Context, postID int64, ip, userAgent string) error {
	return m.Called(ctx, postID, ip, userAgent).Error(0)
}

func (m *mockPostRepo) TagsFor(ctx context.Context, postIDs []int64) (map[int64][]*data.Tag, error) {
	args := m.Called(ctx, postIDs)
	t, _ := args.Get(0).(map[int64][]*data.Tag)
	return t, args.Error(1)
}

type mockTaxonomyRepo struct{ mock.Mock }

func (m *mockTaxonomyRepo) ActiveCategories(ctx context.Context) ([]*data.Category, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]*data.Category)
	return c, args.Error(1)
}

func (m *mockTaxonomyRepo) ActiveCategoryBySlug(ctx context.Context, slug string) (*data.Category, error) {
	args := m.Called(ctx, slug)
	c, _ := args.Get(0).(*data.Category)
	return c, args.Error(1)
}

func (m *mockTaxonomyRepo) CategoriesByID(ctx context.Context, ids []int64) (map[int64]*data.Category, error) {
	args := m.Called(ctx, ids)
	c, _ := args.Get(0).(map[int64]*data.Category)
	return c, args.Error(1)
}

func (m *mockTaxonomyRepo) ActiveTags(ctx context.Context, limit int) ([]*data.Tag, error) {
	args := m.Called(ctx, limit)
	t, _ := args.Get(0).([]*data.Tag)
	return t, args.Error(1)
}

func (m *mockTaxonomyRepo) ActiveTagBySlug(ctx context.Context, slug string) (*data.Tag, error) {
	args := m.Called(ctx, slug)
	t, _ := args.Get(0).(*data.Tag)
	return t, args.Error(1)
}

type mockCommentRepo struct{ mock.Mock }

func (m *mockCommentRepo) Visible(ctx context.Context, postID int64) ([]*data.Comment, error) {
	args := m.Called(ctx, postID)
	c, _ := args.Get(0).([]*data.Comment)
	return c, args.Error(1)
}

type mockMessageRepo struct{ mock.Mock }

func (m *mockMessageRepo) CreateMessage(ctx context.Context, msg *data.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockMessageRepo) ActiveFAQs(ctx context.Context) ([]*data.FAQ, error) {
	args := m.Called(ctx)
	f, _ := args.Get(0).([]*data.FAQ)
	return f, args.Error(1)
}

type mockSubscriberRepo struct{ mock.Mock }

func (m *mockSubscriberRepo) Subscribe(ctx context.Context, email, name string) (*data.NewsletterSubscriber, error) {
	args := m.Called(ctx, email, name)
	s, _ := args.Get(0).(*data.NewsletterSubscriber)
	return s, args.Error(1)
}

// recordingDispatcher keeps every dispatched notification.
type recordingDispatcher struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (d *recordingDispatcher) Dispatch(n notify.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
}

// recordingMetrics counts submissions by form and result.
type recordingMetrics struct {
	mu          sync.Mutex
	submissions map[string]int
	views       int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{submissions: map[string]int{}}
}

func (r *recordingMetrics) RecordRequest(string, string, int, time.Duration) {}
func (r *recordingMetrics) RecordNotificationFailure(string)                 {}

func (r *recordingMetrics) RecordSubmission(form, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions[form+"/"+result]++
}

func (r *recordingMetrics) RecordPostView() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views++
}

type mockModerationStore struct{ mock.Mock }

func (m *mockModerationStore) SetCommentFlags(ctx context.Context, ids []int64, f data.CommentFlags) (int64, error) {
	args := m.Called(ctx, ids, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockModerationStore) SetPostStatus(ctx context.Context, ids []int64, s content.PostStatus) (int64, error) {
	args := m.Called(ctx, ids, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockModerationStore) SetPostFeatured(ctx context.Context, ids []int64, featured bool) (int64, error) {
	args := m.Called(ctx, ids, featured)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockModerationStore) SetProjectPublished(ctx context.Context, ids []int64, published bool) (int64, error) {
	args := m.Called(ctx, ids, published)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockModerationStore) SetProjectFeatured(ctx context.Context, ids []int64, f content.Featured) (int64, error) {
	args := m.Called(ctx, ids, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockModerationStore) SetSubscribersActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	args := m.Called(ctx, ids, active)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockModerationStore) SetMessageStatus(ctx context.Context, ids []int64, s content.MessageStatus) (int64, error) {
	args := m.Called(ctx, ids, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockModerationStore) SetMessageImportant(ctx context.Context, ids []int64, important bool) (int64, error) {
	args := m.Called(ctx, ids, important)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockModerationStore) ListMessages(ctx context.Context, s content.MessageStatus) ([]*data.ContactMessage, error) {
	args := m.Called(ctx, s)
	msgs, _ := args.Get(0).([]*data.ContactMessage)
	return msgs, args.Error(1)
}

func (m *mockModerationStore) GetProject(ctx context.Context, id int64) (*data.Project, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*data.Project)
	return p, args.Error(1)
}

func (m *mockModerationStore) AddProjectImage(ctx context.Context, img *data.ProjectImage) error {
	return m.Called(ctx, img).Error(0)
}

// memoryCache is an in-process Cache.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deletes++
	return nil
}

// plainRenderer wraps content in a paragraph without parsing it.
type plainRenderer struct{}

func (plainRenderer) Render(src string) template.HTML {
	return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
}

// fakeSingleton is an in-memory Singleton.
type fakeSingleton[T any] struct {
	value   *T
	created bool
}

func (f *fakeSingleton[T]) Get(context.Context) (*T, error) {
	if f.value == nil {
		f.value = new(T)
	}
	return f.value, nil
}

func (f *fakeSingleton[T]) Create(_ context.Context, v *T) error {
	if f.created || f.value != nil {
		return data.ErrSingletonExists
	}
	f.value, f.created = v, true
	return nil
}

func (f *fakeSingleton[T]) Update(_ context.Context, v *T) error {
	f.value = v
	return nil
}
