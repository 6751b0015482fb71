package data

import (
	"go-portfolio-app/internal/content"
	"html/template"
	"time"
)

// Category groups blog posts. Inactive categories are hidden from filter
// menus but do not hide the posts filed under them.
type Category struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	Color       string    `db:"color"`
	SortOrder   int       `db:"sort_order"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

// Tag is a free-form label shared by many posts.
type Tag struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// Post is a single blog article.
type Post struct {
	ID              int64              `db:"id"`
	Title           string             `db:"title"`
	Slug            string             `db:"slug"`
	Subtitle        string             `db:"subtitle"`
	Excerpt         string             `db:"excerpt"`
	Content         string             `db:"content"`
	AuthorID        *string            `db:"author_id"`
	CategoryID      *int64             `db:"category_id"`
	Status          content.PostStatus `db:"status"`
	IsFeatured      bool               `db:"is_featured"`
	FeaturedImage   string             `db:"featured_image"`
	CreatedAt       time.Time          `db:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at"`
	PublishedAt     *time.Time         `db:"published_at"`
	ViewsCount      int64              `db:"views_count"`
	LikesCount      int64              `db:"likes_count"`
	MetaTitle       string             `db:"meta_title"`
	MetaDescription string             `db:"meta_description"`
	CanonicalURL    string             `db:"canonical_url"`
	ReadingTime     int                `db:"reading_time"`

	Category    *Category     `db:"-"`
	Tags        []*Tag        `db:"-"`
	HTMLContent template.HTML `db:"-"`
	ImageURL    string        `db:"-"`
}

// DisplayTitle prefers the SEO title when one is set.
func (p *Post) DisplayTitle() string {
	if p.MetaTitle != "" {
		return p.MetaTitle
	}
	return p.Title
}

// IsPublished reports whether the post is visible on the public site.
func (p *Post) IsPublished() bool {
	return p.Status == content.PostPublished
}

// Comment is a reader comment on a post. Only approved, non-spam comments
// are shown publicly.
type Comment struct {
	ID         int64     `db:"id"`
	PostID     int64     `db:"post_id"`
	ParentID   *int64    `db:"parent_id"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	Website    string    `db:"website"`
	Content    string    `db:"content"`
	IsApproved bool      `db:"is_approved"`
	IsSpam     bool      `db:"is_spam"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`

	Replies []*Comment `db:"-"`
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// PostView records a single read of a post.
type PostView struct {
	ID        int64     `db:"id"`
	PostID    int64     `db:"post_id"`
	IPAddress string    `db:"ip_address"`
	UserAgent string    `db:"user_agent"`
	ViewedAt  time.Time `db:"viewed_at"`
}

// NewsletterSubscriber is a newsletter signup. Unsubscribing flips IsActive
// rather than deleting the row.
type NewsletterSubscriber struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	IsActive     bool      `db:"is_active"`
	SubscribedAt time.Time `db:"subscribed_at"`
}

// Technology is a tool or language a project was built with.
type Technology struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	IconClass   string    `db:"icon_class"`
	Color       string    `db:"color"`
	Description string    `db:"description"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

// ProjectCategory groups projects.
type ProjectCategory struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	SortOrder   int       `db:"sort_order"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

// Project is a portfolio showcase entry.
type Project struct {
	ID               int64                 `db:"id"`
	Title            string                `db:"title"`
	Slug             string                `db:"slug"`
	Subtitle         string                `db:"subtitle"`
	Description      string                `db:"description"`
	Content          string                `db:"content"`
	Status           content.ProjectStatus `db:"status"`
	IsPublished      bool                  `db:"is_published"`
	Featured         content.Featured      `db:"featured"`
	CategoryID       *int64                `db:"category_id"`
	LiveURL          string                `db:"live_url"`
	GithubURL        string                `db:"github_url"`
	DocumentationURL string                `db:"documentation_url"`
	Thumbnail        string                `db:"thumbnail"`
	ClientName       string                `db:"client_name"`
	ProjectDate      *time.Time            `db:"project_date"`
	CompletionDate   *time.Time            `db:"completion_date"`
	Duration         string                `db:"duration"`
	Challenges       string                `db:"challenges"`
	Solutions        string                `db:"solutions"`
	Architecture     string                `db:"architecture"`
	KeyFeatures      string                `db:"key_features"`
	MetaTitle        string                `db:"meta_title"`
	MetaDescription  string                `db:"meta_description"`
	CreatedAt        time.Time             `db:"created_at"`
	UpdatedAt        time.Time             `db:"updated_at"`

	Category     *ProjectCategory `db:"-"`
	Technologies []*Technology    `db:"-"`
	Images       []*ProjectImage  `db:"-"`
	Stats        []*ProjectStat   `db:"-"`
	HTMLContent  template.HTML    `db:"-"`
	ThumbnailURL string           `db:"-"`
}

// KeyFeaturesList splits the key features field into one entry per line.
func (p *Project) KeyFeaturesList() []string {
	return content.SplitLines(p.KeyFeatures)
}

// DisplayTitle prefers the SEO title when one is set.
func (p *Project) DisplayTitle() string {
	if p.MetaTitle != "" {
		return p.MetaTitle
	}
	return p.Title
}

// ProjectImage is a gallery image owned by a project.
type ProjectImage struct {
	ID         int64  `db:"id" json:"id"`
	ProjectID  int64  `db:"project_id" json:"project_id"`
	Image      string `db:"image" json:"image"`
	Caption    string `db:"caption" json:"caption"`
	SortOrder  int    `db:"sort_order" json:"sort_order"`
	IsFeatured bool   `db:"is_featured" json:"is_featured"`

	URL string `db:"-" json:"url"`
}

// ProjectStat is a labelled metric shown on a project page.
type ProjectStat struct {
	ID        int64  `db:"id"`
	ProjectID int64  `db:"project_id"`
	Label     string `db:"label"`
	Value     string `db:"value"`
	IconClass string `db:"icon_class"`
	SortOrder int    `db:"sort_order"`
}

// ContactMessage is a submission of the contact form.
type ContactMessage struct {
	ID          int64                 `db:"id" json:"id"`
	Name        string                `db:"name" json:"name"`
	Email       string                `db:"email" json:"email"`
	Phone       string                `db:"phone" json:"phone"`
	Company     string                `db:"company" json:"company"`
	Subject     string                `db:"subject" json:"subject"`
	Message     string                `db:"message" json:"message"`
	Reason      content.MessageReason `db:"reason" json:"reason"`
	Status      content.MessageStatus `db:"status" json:"status"`
	IsImportant bool                  `db:"is_important" json:"is_important"`
	SpamScore   *float64              `db:"spam_score" json:"spam_score"`
	IPAddress   *string               `db:"ip_address" json:"ip_address"`
	UserAgent   string                `db:"user_agent" json:"user_agent"`
	Referrer    string                `db:"referrer" json:"referrer"`
	CreatedAt   time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time             `db:"updated_at" json:"updated_at"`
	RepliedAt   *time.Time            `db:"replied_at" json:"replied_at"`
}

// Preview returns the first 100 characters of the message.
func (m *ContactMessage) Preview() string {
	return content.Truncate(m.Message, content.PreviewLength)
}

// FAQ is a frequently asked question shown on the contact pages.
type FAQ struct {
	ID        int64  `db:"id"`
	Question  string `db:"question"`
	Answer    string `db:"answer"`
	Category  string `db:"category"`
	SortOrder int    `db:"sort_order"`
	IsActive  bool   `db:"is_active"`
}

// SocialLink is a link to one of the owner's social profiles.
type SocialLink struct {
	ID        int64  `db:"id"`
	Platform  string `db:"platform"`
	Name      string `db:"name"`
	URL       string `db:"url"`
	IconClass string `db:"icon_class"`
	SortOrder int    `db:"sort_order"`
	IsActive  bool   `db:"is_active"`
}

// DisplayIcon returns the custom icon or the platform default.
func (s *SocialLink) DisplayIcon() string {
	if s.IconClass != "" {
		return s.IconClass
	}
	return content.PlatformIcon(s.Platform)
}

// SkillCategory groups skills (frontend, backend, ...).
type SkillCategory struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	SortOrder int    `db:"sort_order"`
	IsActive  bool   `db:"is_active"`

	Skills []*Skill `db:"-"`
}

// Skill is a technical skill with a 0-100 proficiency.
type Skill struct {
	ID          int64  `db:"id"`
	CategoryID  int64  `db:"category_id"`
	Name        string `db:"name"`
	Proficiency int    `db:"proficiency"`
	IconClass   string `db:"icon_class"`
	IsActive    bool   `db:"is_active"`
}

// Experience is a work history entry.
type Experience struct {
	ID             int64      `db:"id"`
	Title          string     `db:"title"`
	Company        string     `db:"company"`
	Location       string     `db:"location"`
	EmploymentType string     `db:"employment_type"`
	StartDate      time.Time  `db:"start_date"`
	EndDate        *time.Time `db:"end_date"`
	IsCurrent      bool       `db:"is_current"`
	Description    string     `db:"description"`
	Achievements   string     `db:"achievements"`
	Technologies   string     `db:"technologies"`
	SortOrder      int        `db:"sort_order"`
	IsActive       bool       `db:"is_active"`
}

// Duration formats how long the position lasted, up to today when current.
func (e *Experience) Duration() string {
	return content.Tenure(e.StartDate, e.EndDate, time.Now())
}

// AchievementsList splits achievements into one entry per line.
func (e *Experience) AchievementsList() []string {
	return content.SplitLines(e.Achievements)
}

// TechnologiesList splits the comma separated technologies.
func (e *Experience) TechnologiesList() []string {
	return content.SplitComma(e.Technologies)
}

// Education is an education history entry.
type Education struct {
	ID           int64      `db:"id"`
	Institution  string     `db:"institution"`
	Degree       string     `db:"degree"`
	DegreeType   string     `db:"degree_type"`
	FieldOfStudy string     `db:"field_of_study"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      *time.Time `db:"end_date"`
	IsCurrent    bool       `db:"is_current"`
	Description  string     `db:"description"`
	GPA          string     `db:"gpa"`
	Logo         string     `db:"logo"`
	SortOrder    int        `db:"sort_order"`
	IsActive     bool       `db:"is_active"`
}

// Certification is a professional certification.
type Certification struct {
	ID                  int64      `db:"id"`
	Name                string     `db:"name"`
	IssuingOrganization string     `db:"issuing_organization"`
	IssueDate           time.Time  `db:"issue_date"`
	ExpirationDate      *time.Time `db:"expiration_date"`
	CredentialID        string     `db:"credential_id"`
	CredentialURL       string     `db:"credential_url"`
	Logo                string     `db:"logo"`
	SortOrder           int        `db:"sort_order"`
	IsActive            bool       `db:"is_active"`
}

// Testimonial is a quote from a client or employer.
type Testimonial struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Position  string    `db:"position"`
	Company   string    `db:"company"`
	Content   string    `db:"content"`
	Photo     string    `db:"photo"`
	Rating    int       `db:"rating"`
	SortOrder int       `db:"sort_order"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// Service is an offered service.
type Service struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	IconClass   string `db:"icon_class"`
	Features    string `db:"features"`
	SortOrder   int    `db:"sort_order"`
	IsActive    bool   `db:"is_active"`
}

// FeaturesList splits features into one entry per line.
func (s *Service) FeaturesList() []string {
	return content.SplitLines(s.Features)
}

// SingletonID is the fixed primary key of every singleton record.
const SingletonID int64 = 1

// SiteConfiguration is the global site settings record. Exactly one row
// exists, with id SingletonID.
type SiteConfiguration struct {
	ID                 int64  `db:"id" json:"id"`
	SiteName           string `db:"site_name" json:"site_name"`
	SiteTagline        string `db:"site_tagline" json:"site_tagline"`
	SiteDescription    string `db:"site_description" json:"site_description"`
	SiteKeywords       string `db:"site_keywords" json:"site_keywords"`
	Favicon            string `db:"favicon" json:"favicon"`
	Logo               string `db:"logo" json:"logo"`
	FooterText         string `db:"footer_text" json:"footer_text"`
	EnableDarkMode     bool   `db:"enable_dark_mode" json:"enable_dark_mode"`
	EnableBlog         bool   `db:"enable_blog" json:"enable_blog"`
	EnableContactForm  bool   `db:"enable_contact_form" json:"enable_contact_form"`
	EnableTestimonials bool   `db:"enable_testimonials" json:"enable_testimonials"`
	GoogleAnalyticsID  string `db:"google_analytics_id" json:"google_analytics_id"`
}

// ContactInfo is the singleton contact details record.
type ContactInfo struct {
	ID               int64  `db:"id" json:"id"`
	Email            string `db:"email" json:"email"`
	Phone            string `db:"phone" json:"phone"`
	PhoneSecondary   string `db:"phone_secondary" json:"phone_secondary"`
	Address          string `db:"address" json:"address"`
	City             string `db:"city" json:"city"`
	State            string `db:"state" json:"state"`
	ZipCode          string `db:"zip_code" json:"zip_code"`
	Country          string `db:"country" json:"country"`
	WorkingHours     string `db:"working_hours" json:"working_hours"`
	GithubURL        string `db:"github_url" json:"github_url"`
	LinkedinURL      string `db:"linkedin_url" json:"linkedin_url"`
	TwitterURL       string `db:"twitter_url" json:"twitter_url"`
	FacebookURL      string `db:"facebook_url" json:"facebook_url"`
	InstagramURL     string `db:"instagram_url" json:"instagram_url"`
	YoutubeURL       string `db:"youtube_url" json:"youtube_url"`
	StackoverflowURL string `db:"stackoverflow_url" json:"stackoverflow_url"`
	MapEmbedURL      string `db:"map_embed_url" json:"map_embed_url"`
}

// PersonalInfo is the singleton record describing the site owner.
type PersonalInfo struct {
	ID                int64  `db:"id" json:"id"`
	FirstName         string `db:"first_name" json:"first_name"`
	LastName          string `db:"last_name" json:"last_name"`
	Title             string `db:"title" json:"title"`
	Tagline           string `db:"tagline" json:"tagline"`
	Bio               string `db:"bio" json:"bio"`
	AboutMe           string `db:"about_me" json:"about_me"`
	ProfilePhoto      string `db:"profile_photo" json:"profile_photo"`
	Resume            string `db:"resume" json:"resume"`
	Email             string `db:"email" json:"email"`
	Phone             string `db:"phone" json:"phone"`
	Location          string `db:"location" json:"location"`
	Website           string `db:"website" json:"website"`
	Github            string `db:"github" json:"github"`
	Linkedin          string `db:"linkedin" json:"linkedin"`
	Twitter           string `db:"twitter" json:"twitter"`
	Stackoverflow     string `db:"stackoverflow" json:"stackoverflow"`
	YearsOfExperience int    `db:"years_of_experience" json:"years_of_experience"`
	ProjectsCompleted int    `db:"projects_completed" json:"projects_completed"`
	HappyClients      int    `db:"happy_clients" json:"happy_clients"`
}

// FullName joins first and last name.
func (p *PersonalInfo) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
