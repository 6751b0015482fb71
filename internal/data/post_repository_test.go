//go:build integration

package data

import (
	"context"
	"strings"
	"testing"
	"time"

	"go-portfolio-app/internal/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blogFixture struct {
	posts *PostRepository
	tax   *TaxonomyRepository
}

func newBlogFixture(t *testing.T) *blogFixture {
	db := newTestDB(t)
	return &blogFixture{posts: NewPostRepository(db), tax: NewTaxonomyRepository(db)}
}

func (f *blogFixture) publish(t *testing.T, title string, at time.Time, mutate func(*Post), tagIDs ...int64) *Post {
	t.Helper()
	p := &Post{Title: title, Content: "Body of " + title, Status: content.PostPublished, PublishedAt: &at}
	if mutate != nil {
		mutate(p)
	}
	require.NoError(t, f.posts.Create(context.Background(), p, tagIDs))
	return p
}

func TestPostCreate_SlugAndExcerpt(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	long := strings.Repeat("a", 250)
	p1 := &Post{Title: "Hello World", Content: long}
	require.NoError(t, f.posts.Create(ctx, p1, nil))
	assert.Equal(t, "hello-world", p1.Slug)
	assert.Equal(t, strings.Repeat("a", 200)+"...", p1.Excerpt)
	assert.Equal(t, content.PostDraft, p1.Status)
	assert.Equal(t, 5, p1.ReadingTime)

	p2 := &Post{Title: "Hello World", Content: "short"}
	require.NoError(t, f.posts.Create(ctx, p2, nil))
	assert.Equal(t, "hello-world-2", p2.Slug)
	assert.Equal(t, "short", p2.Excerpt)

	p3 := &Post{Title: "Other", Slug: "hello-world", Content: "x"}
	err := f.posts.Create(ctx, p3, nil)
	assert.ErrorIs(t, err, ErrDuplicate)

	stored, err := f.posts.GetByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", stored.Title)
}

func TestPostVisibilityAndOrdering(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	old := f.publish(t, "Old", base, nil)
	newer := f.publish(t, "Newer", base.Add(48*time.Hour), nil)
	featured := f.publish(t, "Featured", base.Add(-48*time.Hour), func(p *Post) { p.IsFeatured = true })
	require.NoError(t, f.posts.Create(ctx, &Post{Title: "Draft", Content: "x"}, nil))

	posts, err := f.posts.ListPublished(ctx, PostFilter{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []int64{featured.ID, newer.ID, old.ID}, []int64{posts[0].ID, posts[1].ID, posts[2].ID})

	n, err := f.posts.CountPublished(ctx, PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = f.posts.PublishedBySlug(ctx, "draft")
	assert.ErrorIs(t, err, ErrNotFound)

	recent, err := f.posts.ListPublished(ctx, PostFilter{Recent: true, ExcludeIDs: []int64{newer.ID}}, 5, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, old.ID, recent[0].ID)
}

func TestPostSearch(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tag := &Tag{Name: "Golang"}
	require.NoError(t, f.tax.CreateTag(ctx, tag))
	byTitle := f.publish(t, "Learning GO", base, nil)
	byTag := f.publish(t, "Concurrency", base.Add(time.Hour), nil, tag.ID)
	f.publish(t, "Unrelated", base.Add(2*time.Hour), nil)

	posts, err := f.posts.ListPublished(ctx, PostFilter{Query: "go"}, 0, 0)
	require.NoError(t, err)
	ids := map[int64]bool{}
	for _, p := range posts {
		ids[p.ID] = true
	}
	assert.Len(t, posts, 2)
	assert.True(t, ids[byTitle.ID])
	assert.True(t, ids[byTag.ID])

	posts, err = f.posts.ListPublished(ctx, PostFilter{Query: "   "}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	posts, err = f.posts.ListPublished(ctx, PostFilter{Query: "go", TitleOnly: true}, 5, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, byTitle.ID, posts[0].ID)

	posts, err = f.posts.ListPublished(ctx, PostFilter{Query: "100%"}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRelatedAndAdjacent(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	cat := &Category{Name: "Web", IsActive: true}
	require.NoError(t, f.tax.CreateCategory(ctx, cat))
	tag := &Tag{Name: "htmx", IsActive: true}
	require.NoError(t, f.tax.CreateTag(ctx, tag))

	inCategory := func(p *Post) { p.CategoryID = &cat.ID }
	self := f.publish(t, "Self", base, inCategory, tag.ID)
	sameCat := f.publish(t, "Same category", base.Add(time.Hour), inCategory)
	sameTag := f.publish(t, "Same tag", base.Add(-time.Hour), nil, tag.ID)
	both := f.publish(t, "Both", base.Add(2*time.Hour), inCategory, tag.ID)
	f.publish(t, "Neither", base.Add(3*time.Hour), nil)
	f.publish(t, "Fourth match", base.Add(-2*time.Hour), inCategory)

	related, err := f.posts.Related(ctx, self, 3)
	require.NoError(t, err)
	require.Len(t, related, 3)
	assert.Equal(t, []int64{both.ID, sameCat.ID, sameTag.ID}, []int64{related[0].ID, related[1].ID, related[2].ID})

	next, err := f.posts.Next(ctx, self)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, sameCat.ID, next.ID)

	prev, err := f.posts.Previous(ctx, self)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, sameTag.ID, prev.ID)

	last, err := f.posts.ListPublished(ctx, PostFilter{Recent: true}, 1, 0)
	require.NoError(t, err)
	none, err := f.posts.Next(ctx, last[0])
	require.NoError(t, err)
	assert.Nil(t, none)

	tags, err := f.posts.TagsFor(ctx, []int64{self.ID, sameCat.ID})
	require.NoError(t, err)
	assert.Len(t, tags[self.ID], 1)
	assert.Empty(t, tags[sameCat.ID])
}

func TestPostInactiveTaxonomyDoesNotHidePost(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	cat := &Category{Name: "Archive", IsActive: false}
	require.NoError(t, f.tax.CreateCategory(ctx, cat))
	p := f.publish(t, "Filed away", time.Now().UTC(), func(p *Post) { p.CategoryID = &cat.ID })

	_, err := f.tax.ActiveCategoryBySlug(ctx, cat.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.posts.PublishedBySlug(ctx, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	cats, err := f.tax.ActiveCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestPostRecordViewAndStatus(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	p := &Post{Title: "Draft", Content: "x"}
	require.NoError(t, f.posts.Create(ctx, p, nil))
	n, err := f.posts.SetStatus(ctx, []int64{p.ID}, content.PostPublished)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := f.posts.PublishedBySlug(ctx, p.Slug)
	require.NoError(t, err)
	require.NotNil(t, got.PublishedAt)

	require.NoError(t, f.posts.RecordView(ctx, p.ID, "10.0.0.1", "test-agent"))
	require.NoError(t, f.posts.RecordView(ctx, p.ID, "10.0.0.2", "test-agent"))
	got, err = f.posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.ViewsCount)

	_, err = f.posts.SetFeatured(ctx, []int64{p.ID}, true)
	require.NoError(t, err)
	featured, err := f.posts.ListPublished(ctx, PostFilter{FeaturedOnly: true}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, featured, 1)
}
