package service

import (
	"errors"
	"fmt"
	"go-portfolio-app/internal/content"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Page sizes of the paginated listings.
const (
	PostsPerPage        = 6
	ProjectsPerPage     = 9
	TestimonialsPerPage = 9
)

// QuickContactSubject is the subject stored for quick contact messages.
const QuickContactSubject = "Quick Contact"

// ContactForm is the full contact form.
type ContactForm struct {
	Name    string                `form:"name" validate:"required,min=2,max=100"`
	Email   string                `form:"email" validate:"required,email,max=254"`
	Phone   string                `form:"phone" validate:"max=20"`
	Company string                `form:"company" validate:"max=100"`
	Subject string                `form:"subject" validate:"required,max=200"`
	Message string                `form:"message" validate:"required,min=20,max=5000"`
	Reason  content.MessageReason `form:"reason" validate:"message_reason"`
}

// QuickContactForm is the short form shown in page footers.
type QuickContactForm struct {
	Name    string `form:"name" validate:"required,min=2,max=100"`
	Email   string `form:"email" validate:"required,email,max=254"`
	Message string `form:"message" validate:"required,min=10,max=5000"`
}

// NewsletterForm is the newsletter signup form.
type NewsletterForm struct {
	Email string `form:"email" validate:"required,email,max=254"`
	Name  string `form:"name" validate:"max=100"`
}

func (f *ContactForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.Company = strings.TrimSpace(f.Company)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)
	if f.Reason == "" {
		f.Reason = content.ReasonGeneral
	}
}

func (f *QuickContactForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Message = strings.TrimSpace(f.Message)
}

func (f *NewsletterForm) normalize() {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Name = strings.TrimSpace(f.Name)
}

// ValidationErrors maps form field names to a human readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// AsValidationErrors extracts ValidationErrors from err.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// Validator wraps go-playground/validator with the form tag names and the
// custom rules used by the public forms.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("message_reason", func(fl validator.FieldLevel) bool {
		return content.MessageReason(fl.Field().String()).Valid()
	})
	return &Validator{v: v}
}

// Struct validates s and returns ValidationErrors describing every
// failing field, or nil.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(ValidationErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long.", fe.Param())
	case "message_reason":
		return "Select a valid choice."
	}
	return "Invalid value."
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPagination parses the raw page parameter and clamps it: anything
// that is not a number yields page 1, a number past the end yields the
// last page and a number below 1 yields page 1.
func NewPagination(raw string, total, perPage int) Pagination {
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil, n < 1:
		n = 1
	case n > pages:
		n = pages
	}
	return Pagination{Page: n, PerPage: perPage, Total: total, TotalPages: pages}
}

// Offset is the number of rows before the current page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.PerPage }

// HasPrevious reports whether a previous page exists.
func (p Pagination) HasPrevious() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// PreviousPage is the number of the previous page.
func (p Pagination) PreviousPage() int { return p.Page - 1 }

// NextPage is the number of the next page.
func (p Pagination) NextPage() int { return p.Page + 1 }

// Pages lists every page number, for rendering page links.
func (p Pagination) Pages() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
