package data

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// ProfileRepository serves the resume-style lists: skills, experience,
// education, certifications, testimonials and services. Every list only
// contains active rows.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func active(table string) sq.SelectBuilder {
	return builder.Select("*").From(table).Where(sq.Eq{"is_active": true})
}

// Create stores any of the profile records (SkillCategory, Skill,
// Experience, Education, Certification, Testimonial or Service) and sets
// its id.
func (r *ProfileRepository) Create(ctx context.Context, record any) error {
	var table string
	var setID func(int64)
	switch v := record.(type) {
	case *SkillCategory:
		table, setID = "skill_categories", func(id int64) { v.ID = id }
	case *Skill:
		table, setID = "skills", func(id int64) { v.ID = id }
	case *Experience:
		table, setID = "experiences", func(id int64) { v.ID = id }
	case *Education:
		table, setID = "educations", func(id int64) { v.ID = id }
	case *Certification:
		table, setID = "certifications", func(id int64) { v.ID = id }
	case *Testimonial:
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now()
		}
		if v.Rating == 0 {
			v.Rating = 5
		}
		table, setID = "testimonials", func(id int64) { v.ID = id }
	case *Service:
		table, setID = "services", func(id int64) { v.ID = id }
	default:
		return fmt.Errorf("unsupported profile record %T", record)
	}
	id, err := insertRecord(ctx, r.db, table, record)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}
	setID(id)
	return nil
}

// SkillCategories returns active skill categories with their active skills
// attached, both by sort order; skills by descending proficiency.
func (r *ProfileRepository) SkillCategories(ctx context.Context) ([]*SkillCategory, error) {
	var cats []*SkillCategory
	if err := selectAll(ctx, r.db, &cats, active("skill_categories").OrderBy("sort_order", "name")); err != nil {
		return nil, fmt.Errorf("failed to list skill categories: %w", err)
	}
	if len(cats) == 0 {
		return cats, nil
	}
	byID := make(map[int64]*SkillCategory, len(cats))
	ids := make([]int64, len(cats))
	for i, c := range cats {
		byID[c.ID] = c
		ids[i] = c.ID
	}
	var skills []*Skill
	b := active("skills").Where(sq.Eq{"category_id": ids}).OrderBy("proficiency DESC", "name")
	if err := selectAll(ctx, r.db, &skills, b); err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	for _, s := range skills {
		byID[s.CategoryID].Skills = append(byID[s.CategoryID].Skills, s)
	}
	return cats, nil
}

// Experiences returns active positions, current first and then newest
// first. A limit of zero means all.
func (r *ProfileRepository) Experiences(ctx context.Context, limit int) ([]*Experience, error) {
	var out []*Experience
	b := page(active("experiences").OrderBy("sort_order", "is_current DESC", "start_date DESC"), limit, 0)
	if err := selectAll(ctx, r.db, &out, b); err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	return out, nil
}

// EarliestExperienceStart returns the start date of the first active
// position, or nil when there is none.
func (r *ProfileRepository) EarliestExperienceStart(ctx context.Context) (*time.Time, error) {
	var out []*Experience
	if err := selectAll(ctx, r.db, &out, active("experiences").OrderBy("start_date").Limit(1)); err != nil {
		return nil, fmt.Errorf("failed to load earliest experience: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0].StartDate, nil
}

// Educations returns active education entries, newest first.
func (r *ProfileRepository) Educations(ctx context.Context, limit int) ([]*Education, error) {
	var out []*Education
	b := page(active("educations").OrderBy("sort_order", "start_date DESC"), limit, 0)
	if err := selectAll(ctx, r.db, &out, b); err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	return out, nil
}

// Certifications returns active certifications, newest first.
func (r *ProfileRepository) Certifications(ctx context.Context) ([]*Certification, error) {
	var out []*Certification
	if err := selectAll(ctx, r.db, &out, active("certifications").OrderBy("sort_order", "issue_date DESC")); err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	return out, nil
}

// Testimonials returns a page of active testimonials.
func (r *ProfileRepository) Testimonials(ctx context.Context, limit, offset int) ([]*Testimonial, error) {
	var out []*Testimonial
	b := page(active("testimonials").OrderBy("sort_order", "created_at DESC", "id DESC"), limit, offset)
	if err := selectAll(ctx, r.db, &out, b); err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return out, nil
}

// CountTestimonials counts active testimonials.
func (r *ProfileRepository) CountTestimonials(ctx context.Context) (int, error) {
	return count(ctx, r.db, builder.Select("COUNT(*)").From("testimonials").Where(sq.Eq{"is_active": true}))
}

// Services returns active services by sort order.
func (r *ProfileRepository) Services(ctx context.Context) ([]*Service, error) {
	var out []*Service
	if err := selectAll(ctx, r.db, &out, active("services").OrderBy("sort_order", "title")); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return out, nil
}
