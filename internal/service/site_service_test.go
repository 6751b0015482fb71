//go:build unit

package service

import (
	"context"
	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProfile serves fixed résumé data.
type fakeProfile struct {
	earliest     *time.Time
	testimonials []*data.Testimonial
	limits       map[string]int
}

func (f *fakeProfile) SkillCategories(context.Context) ([]*data.SkillCategory, error) {
	return []*data.SkillCategory{{ID: 1, Name: "Backend"}}, nil
}

func (f *fakeProfile) Experiences(_ context.Context, limit int) ([]*data.Experience, error) {
	f.limits["experiences"] = limit
	return nil, nil
}

func (f *fakeProfile) EarliestExperienceStart(context.Context) (*time.Time, error) {
	return f.earliest, nil
}

func (f *fakeProfile) Educations(_ context.Context, limit int) ([]*data.Education, error) {
	f.limits["educations"] = limit
	return nil, nil
}

func (f *fakeProfile) Certifications(context.Context) ([]*data.Certification, error) {
	return nil, nil
}

func (f *fakeProfile) Testimonials(_ context.Context, limit, offset int) ([]*data.Testimonial, error) {
	f.limits["testimonials"] = limit
	f.limits["testimonials_offset"] = offset
	end := offset + limit
	if limit == 0 || end > len(f.testimonials) {
		end = len(f.testimonials)
	}
	if offset > len(f.testimonials) {
		return nil, nil
	}
	return f.testimonials[offset:end], nil
}

func (f *fakeProfile) CountTestimonials(context.Context) (int, error) {
	return len(f.testimonials), nil
}

func (f *fakeProfile) Services(context.Context) ([]*data.Service, error) {
	return []*data.Service{{ID: 1, Title: "Consulting"}}, nil
}

type fakeSocial struct{}

func (fakeSocial) ActiveSocialLinks(context.Context) ([]*data.SocialLink, error) {
	return []*data.SocialLink{{Platform: "github", URL: "https://github.com/example"}}, nil
}

type fakeShowcase struct {
	published, technologies int
	techLimit               int
}

func (f *fakeShowcase) CountPublished(context.Context, data.ProjectFilter) (int, error) {
	return f.published, nil
}

func (f *fakeShowcase) ActiveTechnologies(_ context.Context, limit int) ([]*data.Technology, error) {
	f.techLimit = limit
	return []*data.Technology{{Name: "Go"}}, nil
}

func (f *fakeShowcase) CountActiveTechnologies(context.Context) (int, error) {
	return f.technologies, nil
}

type fakeFeatured struct{ limit int }

func (f *fakeFeatured) Featured(_ context.Context, limit int) ([]*data.Project, error) {
	f.limit = limit
	return []*data.Project{{ID: 1}}, nil
}

type fakeRecent struct{ filter data.PostFilter }

func (f *fakeRecent) ListPublished(_ context.Context, filter data.PostFilter, limit, _ int) ([]*data.Post, error) {
	f.filter = filter
	return []*data.Post{{ID: 1, FeaturedImage: "posts/a.png"}}, nil
}

type siteFixture struct {
	settings *fakeSingleton[data.SiteConfiguration]
	personal *fakeSingleton[data.PersonalInfo]
	profile  *fakeProfile
	showcase *fakeShowcase
	featured *fakeFeatured
	recent   *fakeRecent
	svc      *SiteService
}

func newSiteFixture() *siteFixture {
	f := &siteFixture{
		settings: &fakeSingleton[data.SiteConfiguration]{},
		personal: &fakeSingleton[data.PersonalInfo]{},
		profile:  &fakeProfile{limits: map[string]int{}},
		showcase: &fakeShowcase{published: 7, technologies: 12},
		featured: &fakeFeatured{},
		recent:   &fakeRecent{},
	}
	f.svc = NewSiteService(SiteDeps{
		Settings: f.settings,
		Contact:  &fakeSingleton[data.ContactInfo]{},
		Personal: f.personal,
		Social:   fakeSocial{},
		Profile:  f.profile,
		Showcase: f.showcase,
		Featured: f.featured,
		Posts:    f.recent,
		Media:    &stubMedia{},
	}, config.SiteConfig{Name: "Fallback", Tagline: "Builds things", Author: ""}, logger.Nop())
	f.svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

func TestSiteService_Context_FallsBackToConfig(t *testing.T) {
	f := newSiteFixture()
	f.settings.value = &data.SiteConfiguration{SiteName: "", SiteTagline: "Custom tagline"}
	f.personal.value = &data.PersonalInfo{FirstName: "Ada", LastName: "Lovelace"}

	sc, err := f.svc.Context(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Fallback", sc.Name)
	assert.Equal(t, "Custom tagline", sc.Tagline)
	assert.Equal(t, "Ada Lovelace", sc.Author)
	assert.Equal(t, 2024, sc.Year)
	assert.Len(t, sc.SocialLinks, 1)
	assert.NotNil(t, sc.Contact)
}

func TestSiteService_Home_SectionSizes(t *testing.T) {
	f := newSiteFixture()
	home, err := f.svc.Home(context.Background())
	require.NoError(t, err)

	assert.Equal(t, homeFeaturedProjects, f.featured.limit)
	assert.Equal(t, homeExperiences, f.profile.limits["experiences"])
	assert.Equal(t, homeEducations, f.profile.limits["educations"])
	assert.Equal(t, homeTestimonials, f.profile.limits["testimonials"])
	assert.Equal(t, homeTechnologies, f.showcase.techLimit)
	assert.True(t, f.recent.filter.Recent)
	require.Len(t, home.RecentPosts, 1)
	assert.Equal(t, "/media/posts/a.png", home.RecentPosts[0].ImageURL)
}

func TestSiteService_About_Stats(t *testing.T) {
	t.Run("years from personal info", func(t *testing.T) {
		f := newSiteFixture()
		f.personal.value = &data.PersonalInfo{YearsOfExperience: 9, HappyClients: 40}
		about, err := f.svc.About(context.Background())
		require.NoError(t, err)
		assert.Equal(t, AboutStats{YearsExperience: 9, ProjectsCompleted: 7, Technologies: 12, HappyClients: 40}, about.Stats)
	})

	t.Run("years from earliest experience", func(t *testing.T) {
		f := newSiteFixture()
		start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
		f.profile.earliest = &start
		about, err := f.svc.About(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 5, about.Stats.YearsExperience)
	})

	t.Run("no experience at all", func(t *testing.T) {
		f := newSiteFixture()
		about, err := f.svc.About(context.Background())
		require.NoError(t, err)
		assert.Zero(t, about.Stats.YearsExperience)
	})
}

func TestSiteService_Testimonials_Paginates(t *testing.T) {
	f := newSiteFixture()
	for i := 0; i < 10; i++ {
		f.profile.testimonials = append(f.profile.testimonials, &data.Testimonial{ID: int64(i + 1)})
	}
	page, err := f.svc.Testimonials(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, TestimonialsPerPage, f.profile.limits["testimonials_offset"])
	require.Len(t, page.Testimonials, 1)
	assert.Equal(t, int64(10), page.Testimonials[0].ID)
}

func TestSiteService_SingletonCreate(t *testing.T) {
	f := newSiteFixture()
	require.NoError(t, f.svc.CreateSiteConfiguration(context.Background(), &data.SiteConfiguration{SiteName: "Mine"}))
	err := f.svc.CreateSiteConfiguration(context.Background(), &data.SiteConfiguration{SiteName: "Again"})
	assert.ErrorIs(t, err, data.ErrSingletonExists)

	got, err := f.svc.SiteConfiguration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.SiteName)
	assert.Equal(t, data.SingletonID, got.ID)
}
