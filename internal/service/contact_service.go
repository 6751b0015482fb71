package service

import (
	"context"
	"errors"
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/metrics"
	"go-portfolio-app/internal/notify"
)

// MessageRepository is the contact message storage used by ContactService.
type MessageRepository interface {
	CreateMessage(ctx context.Context, m *data.ContactMessage) error
	ActiveFAQs(ctx context.Context) ([]*data.FAQ, error)
}

// SubscriberRepository is the newsletter storage used by ContactService.
type SubscriberRepository interface {
	Subscribe(ctx context.Context, email, name string) (*data.NewsletterSubscriber, error)
}

// Dispatcher hands notifications to a background sender.
type Dispatcher interface {
	Dispatch(n notify.Notification)
}

// RequestMeta is the request information stored with a submission.
type RequestMeta struct {
	IP        string
	UserAgent string
	Referrer  string
}

// ContactService accepts contact form and newsletter submissions.
type ContactService struct {
	messages    MessageRepository
	subscribers SubscriberRepository
	validator   *Validator
	dispatcher  Dispatcher
	log         logger.Logger
	metrics     metrics.Recorder
}

// NewContactService creates a new ContactService.
func NewContactService(messages MessageRepository, subscribers SubscriberRepository, dispatcher Dispatcher,
	log logger.Logger, rec metrics.Recorder) *ContactService {
	return &ContactService{
		messages:    messages,
		subscribers: subscribers,
		validator:   NewValidator(),
		dispatcher:  dispatcher,
		log:         log,
		metrics:     rec,
	}
}

// Submit validates and stores a contact form, then notifies the owner in
// the background. Invalid input returns ValidationErrors.
func (s *ContactService) Submit(ctx context.Context, form ContactForm, meta RequestMeta) (*data.ContactMessage, error) {
	form.normalize()
	if err := s.validator.Struct(&form); err != nil {
		s.metrics.RecordSubmission("contact", "invalid")
		return nil, err
	}
	return s.store(ctx, "contact", &data.ContactMessage{
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Company: form.Company,
		Subject: form.Subject,
		Message: form.Message,
		Reason:  form.Reason,
	}, meta)
}

// QuickContact is Submit for the short footer form.
func (s *ContactService) QuickContact(ctx context.Context, form QuickContactForm, meta RequestMeta) (*data.ContactMessage, error) {
	form.normalize()
	if err := s.validator.Struct(&form); err != nil {
		s.metrics.RecordSubmission("quick_contact", "invalid")
		return nil, err
	}
	return s.store(ctx, "quick_contact", &data.ContactMessage{
		Name:    form.Name,
		Email:   form.Email,
		Subject: QuickContactSubject,
		Message: form.Message,
		Reason:  content.ReasonGeneral,
	}, meta)
}

func (s *ContactService) store(ctx context.Context, kind string, m *data.ContactMessage, meta RequestMeta) (*data.ContactMessage, error) {
	m.Status = content.MessageNew
	if meta.IP != "" {
		ip := meta.IP
		m.IPAddress = &ip
	}
	m.UserAgent = meta.UserAgent
	m.Referrer = meta.Referrer
	if err := s.messages.CreateMessage(ctx, m); err != nil {
		s.metrics.RecordSubmission(kind, "error")
		return nil, err
	}
	s.metrics.RecordSubmission(kind, "accepted")
	s.dispatcher.Dispatch(notify.ContactMessage(m))
	return m, nil
}

// FAQs returns the active FAQ entries.
func (s *ContactService) FAQs(ctx context.Context) ([]*data.FAQ, error) {
	return s.messages.ActiveFAQs(ctx)
}

// SubscribeResult is the outcome shown after a newsletter signup.
type SubscribeResult struct {
	Message string
	// Type is one of "success", "info" or "error".
	Type string
}

// Subscribe signs a visitor up for the newsletter. Validation problems and
// repeat signups are reported in the result rather than as errors.
func (s *ContactService) Subscribe(ctx context.Context, form NewsletterForm) (SubscribeResult, error) {
	form.normalize()
	if err := s.validator.Struct(&form); err != nil {
		s.metrics.RecordSubmission("newsletter", "invalid")
		return SubscribeResult{Message: "Please enter a valid email address.", Type: "error"}, nil
	}
	_, err := s.subscribers.Subscribe(ctx, form.Email, form.Name)
	switch {
	case errors.Is(err, data.ErrAlreadySubscribed):
		s.metrics.RecordSubmission("newsletter", "duplicate")
		return SubscribeResult{Message: "You are already subscribed to our newsletter.", Type: "info"}, nil
	case err != nil:
		s.metrics.RecordSubmission("newsletter", "error")
		return SubscribeResult{}, err
	}
	s.metrics.RecordSubmission("newsletter", "accepted")
	return SubscribeResult{Message: "Thank you for subscribing to our newsletter!", Type: "success"}, nil
}
