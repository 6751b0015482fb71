package service

import (
	"context"
	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/storage"
	"time"
)

// Home page section sizes.
const (
	homeFeaturedProjects = 6
	homeExperiences      = 5
	homeEducations       = 3
	homeTestimonials     = 6
	homeRecentPosts      = 3
	homeTechnologies     = 12
)

// Singleton is a one-row settings record.
type Singleton[T any] interface {
	Get(ctx context.Context) (*T, error)
	Create(ctx context.Context, v *T) error
	Update(ctx context.Context, v *T) error
}

// ProfileRepository is the résumé storage used by SiteService.
type ProfileRepository interface {
	SkillCategories(ctx context.Context) ([]*data.SkillCategory, error)
	Experiences(ctx context.Context, limit int) ([]*data.Experience, error)
	EarliestExperienceStart(ctx context.Context) (*time.Time, error)
	Educations(ctx context.Context, limit int) ([]*data.Education, error)
	Certifications(ctx context.Context) ([]*data.Certification, error)
	Testimonials(ctx context.Context, limit, offset int) ([]*data.Testimonial, error)
	CountTestimonials(ctx context.Context) (int, error)
	Services(ctx context.Context) ([]*data.Service, error)
}

// SocialLinkRepository lists the owner's social profiles.
type SocialLinkRepository interface {
	ActiveSocialLinks(ctx context.Context) ([]*data.SocialLink, error)
}

// ShowcaseRepository is the subset of project storage the marketing pages
// need.
type ShowcaseRepository interface {
	CountPublished(ctx context.Context, f data.ProjectFilter) (int, error)
	ActiveTechnologies(ctx context.Context, limit int) ([]*data.Technology, error)
	CountActiveTechnologies(ctx context.Context) (int, error)
}

// FeaturedProjects returns decorated featured projects.
type FeaturedProjects interface {
	Featured(ctx context.Context, limit int) ([]*data.Project, error)
}

// RecentPosts lists published posts.
type RecentPosts interface {
	ListPublished(ctx context.Context, f data.PostFilter, limit, offset int) ([]*data.Post, error)
}

// SiteContext is available to every rendered page.
type SiteContext struct {
	Name        string
	Tagline     string
	Description string
	Keywords    string
	Author      string
	AnalyticsID string
	Settings    *data.SiteConfiguration
	Personal    *data.PersonalInfo
	Contact     *data.ContactInfo
	SocialLinks []*data.SocialLink
	Year        int
}

// HomePage is the content of the landing page.
type HomePage struct {
	Personal         *data.PersonalInfo
	FeaturedProjects []*data.Project
	SkillCategories  []*data.SkillCategory
	Experiences      []*data.Experience
	Educations       []*data.Education
	Testimonials     []*data.Testimonial
	Services         []*data.Service
	RecentPosts      []*data.Post
	Technologies     []*data.Technology
}

// AboutStats are the counters on the about page.
type AboutStats struct {
	YearsExperience   int
	ProjectsCompleted int
	Technologies      int
	HappyClients      int
}

// AboutPage is the content of the about page.
type AboutPage struct {
	Personal        *data.PersonalInfo
	SkillCategories []*data.SkillCategory
	Experiences     []*data.Experience
	Educations      []*data.Education
	Certifications  []*data.Certification
	Testimonials    []*data.Testimonial
	Stats           AboutStats
}

// ResumePage is the content of the résumé page.
type ResumePage struct {
	Personal        *data.PersonalInfo
	ResumeURL       string
	Experiences     []*data.Experience
	Educations      []*data.Education
	Certifications  []*data.Certification
	SkillCategories []*data.SkillCategory
}

// SkillsPage is the content of the skills page.
type SkillsPage struct {
	SkillCategories []*data.SkillCategory
	Technologies    []*data.Technology
}

// TestimonialsPage is one page of testimonials.
type TestimonialsPage struct {
	Testimonials []*data.Testimonial
	Pagination   Pagination
}

// SiteService serves the marketing pages and the settings records.
type SiteService struct {
	settings Singleton[data.SiteConfiguration]
	contact  Singleton[data.ContactInfo]
	personal Singleton[data.PersonalInfo]
	social   SocialLinkRepository
	profile  ProfileRepository
	showcase ShowcaseRepository
	featured FeaturedProjects
	posts    RecentPosts
	fallback config.SiteConfig
	media    media
	now      func() time.Time
}

// SiteDeps bundles the SiteService collaborators.
type SiteDeps struct {
	Settings Singleton[data.SiteConfiguration]
	Contact  Singleton[data.ContactInfo]
	Personal Singleton[data.PersonalInfo]
	Social   SocialLinkRepository
	Profile  ProfileRepository
	Showcase ShowcaseRepository
	Featured FeaturedProjects
	Posts    RecentPosts
	Media    storage.MediaStore
}

// NewSiteService creates a new SiteService. fallback supplies the site
// identity while the settings record still has empty fields.
func NewSiteService(deps SiteDeps, fallback config.SiteConfig, log logger.Logger) *SiteService {
	return &SiteService{
		settings: deps.Settings,
		contact:  deps.Contact,
		personal: deps.Personal,
		social:   deps.Social,
		profile:  deps.Profile,
		showcase: deps.Showcase,
		featured: deps.Featured,
		posts:    deps.Posts,
		fallback: fallback,
		media:    media{store: deps.Media, log: log},
		now:      time.Now,
	}
}

// Context loads the data shared by every page.
func (s *SiteService) Context(ctx context.Context) (*SiteContext, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := &SiteContext{
		Name:        firstNonEmpty(settings.SiteName, s.fallback.Name),
		Tagline:     firstNonEmpty(settings.SiteTagline, s.fallback.Tagline),
		Description: firstNonEmpty(settings.SiteDescription, s.fallback.Description),
		Keywords:    firstNonEmpty(settings.SiteKeywords, s.fallback.Keywords),
		Author:      s.fallback.Author,
		AnalyticsID: firstNonEmpty(settings.GoogleAnalyticsID, s.fallback.GoogleAnalyticsID),
		Settings:    settings,
		Year:        s.now().Year(),
	}
	if out.Personal, err = s.personal.Get(ctx); err != nil {
		return nil, err
	}
	if name := out.Personal.FullName(); name != "" && out.Author == "" {
		out.Author = name
	}
	if out.Contact, err = s.contact.Get(ctx); err != nil {
		return nil, err
	}
	if out.SocialLinks, err = s.social.ActiveSocialLinks(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// Home loads the landing page sections.
func (s *SiteService) Home(ctx context.Context) (*HomePage, error) {
	var err error
	out := &HomePage{}
	if out.Personal, err = s.personal.Get(ctx); err != nil {
		return nil, err
	}
	if out.FeaturedProjects, err = s.featured.Featured(ctx, homeFeaturedProjects); err != nil {
		return nil, err
	}
	if out.SkillCategories, err = s.profile.SkillCategories(ctx); err != nil {
		return nil, err
	}
	if out.Experiences, err = s.profile.Experiences(ctx, homeExperiences); err != nil {
		return nil, err
	}
	if out.Educations, err = s.profile.Educations(ctx, homeEducations); err != nil {
		return nil, err
	}
	if out.Testimonials, err = s.profile.Testimonials(ctx, homeTestimonials, 0); err != nil {
		return nil, err
	}
	if out.Services, err = s.profile.Services(ctx); err != nil {
		return nil, err
	}
	if out.RecentPosts, err = s.posts.ListPublished(ctx, data.PostFilter{Recent: true}, homeRecentPosts, 0); err != nil {
		return nil, err
	}
	for _, p := range out.RecentPosts {
		p.ImageURL = s.media.url(ctx, p.FeaturedImage)
	}
	if out.Technologies, err = s.showcase.ActiveTechnologies(ctx, homeTechnologies); err != nil {
		return nil, err
	}
	return out, nil
}

// About loads the about page with its counters.
func (s *SiteService) About(ctx context.Context) (*AboutPage, error) {
	var err error
	out := &AboutPage{}
	if out.Personal, err = s.personal.Get(ctx); err != nil {
		return nil, err
	}
	if out.SkillCategories, err = s.profile.SkillCategories(ctx); err != nil {
		return nil, err
	}
	if out.Experiences, err = s.profile.Experiences(ctx, 0); err != nil {
		return nil, err
	}
	if out.Educations, err = s.profile.Educations(ctx, 0); err != nil {
		return nil, err
	}
	if out.Certifications, err = s.profile.Certifications(ctx); err != nil {
		return nil, err
	}
	if out.Testimonials, err = s.profile.Testimonials(ctx, 0, 0); err != nil {
		return nil, err
	}
	if out.Stats, err = s.stats(ctx, out.Personal); err != nil {
		return nil, err
	}
	return out, nil
}

// stats prefers the years of experience entered on the personal record and
// otherwise derives them from the earliest active position.
func (s *SiteService) stats(ctx context.Context, personal *data.PersonalInfo) (AboutStats, error) {
	st := AboutStats{
		YearsExperience: personal.YearsOfExperience,
		HappyClients:    personal.HappyClients,
	}
	if st.YearsExperience == 0 {
		start, err := s.profile.EarliestExperienceStart(ctx)
		if err != nil {
			return st, err
		}
		if start != nil {
			st.YearsExperience = content.YearsSince(*start, s.now())
		}
	}
	var err error
	if st.ProjectsCompleted, err = s.showcase.CountPublished(ctx, data.ProjectFilter{}); err != nil {
		return st, err
	}
	if st.Technologies, err = s.showcase.CountActiveTechnologies(ctx); err != nil {
		return st, err
	}
	return st, nil
}

// Services lists the active services.
func (s *SiteService) Services(ctx context.Context) ([]*data.Service, error) {
	return s.profile.Services(ctx)
}

// Resume loads the résumé page.
func (s *SiteService) Resume(ctx context.Context) (*ResumePage, error) {
	var err error
	out := &ResumePage{}
	if out.Personal, err = s.personal.Get(ctx); err != nil {
		return nil, err
	}
	out.ResumeURL = s.media.url(ctx, out.Personal.Resume)
	if out.Experiences, err = s.profile.Experiences(ctx, 0); err != nil {
		return nil, err
	}
	if out.Educations, err = s.profile.Educations(ctx, 0); err != nil {
		return nil, err
	}
	if out.Certifications, err = s.profile.Certifications(ctx); err != nil {
		return nil, err
	}
	if out.SkillCategories, err = s.profile.SkillCategories(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// Testimonials returns a page of testimonials.
func (s *SiteService) Testimonials(ctx context.Context, rawPage string) (*TestimonialsPage, error) {
	total, err := s.profile.CountTestimonials(ctx)
	if err != nil {
		return nil, err
	}
	out := &TestimonialsPage{Pagination: NewPagination(rawPage, total, TestimonialsPerPage)}
	out.Testimonials, err = s.profile.Testimonials(ctx, TestimonialsPerPage, out.Pagination.Offset())
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Skills loads the skills page.
func (s *SiteService) Skills(ctx context.Context) (*SkillsPage, error) {
	var err error
	out := &SkillsPage{}
	if out.SkillCategories, err = s.profile.SkillCategories(ctx); err != nil {
		return nil, err
	}
	if out.Technologies, err = s.showcase.ActiveTechnologies(ctx, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// SiteConfiguration returns the site settings record.
func (s *SiteService) SiteConfiguration(ctx context.Context) (*data.SiteConfiguration, error) {
	return s.settings.Get(ctx)
}

// UpdateSiteConfiguration overwrites the site settings record.
func (s *SiteService) UpdateSiteConfiguration(ctx context.Context, v *data.SiteConfiguration) error {
	v.ID = data.SingletonID
	return s.settings.Update(ctx, v)
}

// CreateSiteConfiguration inserts the site settings record. It fails with
// data.ErrSingletonExists once the record exists.
func (s *SiteService) CreateSiteConfiguration(ctx context.Context, v *data.SiteConfiguration) error {
	v.ID = data.SingletonID
	return s.settings.Create(ctx, v)
}

// ContactInfo returns the public contact details record.
func (s *SiteService) ContactInfo(ctx context.Context) (*data.ContactInfo, error) {
	return s.contact.Get(ctx)
}

// UpdateContactInfo overwrites the contact details record.
func (s *SiteService) UpdateContactInfo(ctx context.Context, v *data.ContactInfo) error {
	v.ID = data.SingletonID
	return s.contact.Update(ctx, v)
}

// CreateContactInfo inserts the contact details record.
func (s *SiteService) CreateContactInfo(ctx context.Context, v *data.ContactInfo) error {
	v.ID = data.SingletonID
	return s.contact.Create(ctx, v)
}

// PersonalInfo returns the owner's personal information record.
func (s *SiteService) PersonalInfo(ctx context.Context) (*data.PersonalInfo, error) {
	return s.personal.Get(ctx)
}

// UpdatePersonalInfo overwrites the personal information record.
func (s *SiteService) UpdatePersonalInfo(ctx context.Context, v *data.PersonalInfo) error {
	v.ID = data.SingletonID
	return s.personal.Update(ctx, v)
}

// CreatePersonalInfo inserts the personal information record.
func (s *SiteService) CreatePersonalInfo(ctx context.Context, v *data.PersonalInfo) error {
	v.ID = data.SingletonID
	return s.personal.Create(ctx, v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
