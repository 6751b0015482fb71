// Package notify delivers owner notifications (new contact messages) by
// e-mail. Delivery is best effort: callers hand a Notification to a
// Dispatcher and never see the outcome.
package notify

import (
	"context"
	"fmt"
	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/metrics"
	"strings"
	"sync"
	"time"

	"github.com/wneessen/go-mail"
)

// Notification is a message for the site owner.
type Notification struct {
	Kind    string
	Subject string
	Body    string
	// ReplyTo lets the owner answer the visitor directly.
	ReplyTo string
}

// Notifier delivers a notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ContactMessage builds the notification for a new contact message.
func ContactMessage(m *data.ContactMessage) Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "New contact message from %s <%s>\n\n", m.Name, m.Email)
	fmt.Fprintf(&b, "Reason: %s\n", m.Reason.Label())
	if m.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", m.Phone)
	}
	if m.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", m.Company)
	}
	fmt.Fprintf(&b, "Subject: %s\n\n%s\n", m.Subject, m.Message)
	return Notification{
		Kind:    "contact",
		Subject: "New Contact Message: " + m.Subject,
		Body:    b.String(),
		ReplyTo: m.Email,
	}
}

// SMTP sends notifications through an SMTP relay.
type SMTP struct {
	cfg config.MailConfig
}

// NewSMTP creates an SMTP notifier from cfg.
func NewSMTP(cfg config.MailConfig) *SMTP {
	return &SMTP{cfg: cfg}
}

// Notify sends n to the configured recipient.
func (s *SMTP) Notify(ctx context.Context, n Notification) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("invalid sender %q: %w", s.cfg.From, err)
	}
	if err := msg.To(s.cfg.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", s.cfg.To, err)
	}
	if n.ReplyTo != "" {
		if err := msg.ReplyTo(n.ReplyTo); err != nil {
			return fmt.Errorf("invalid reply-to %q: %w", n.ReplyTo, err)
		}
	}
	msg.Subject(n.Subject)
	msg.SetBodyString(mail.TypeTextPlain, n.Body)

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(s.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s notification: %w", n.Kind, err)
	}
	return nil
}

// Log writes notifications to the application log instead of sending them.
// It is used when mail is disabled.
type Log struct {
	log logger.Logger
}

// NewLog creates a Log notifier.
func NewLog(log logger.Logger) *Log {
	return &Log{log: log}
}

// Notify logs the subject of n.
func (l *Log) Notify(_ context.Context, n Notification) error {
	l.log.With(map[string]interface{}{"kind": n.Kind, "reply_to": n.ReplyTo}).Info("notification: " + n.Subject)
	return nil
}

// Dispatcher runs notifications on background goroutines, each bounded by
// its own timeout. Failures are logged and counted, never returned.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	log      logger.Logger
	metrics  metrics.Recorder
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher around notifier.
func NewDispatcher(notifier Notifier, timeout time.Duration, log logger.Logger, rec metrics.Recorder) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{notifier: notifier, timeout: timeout, log: log, metrics: rec}
}

// Dispatch sends n in the background and returns immediately.
func (d *Dispatcher) Dispatch(n Notification) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.notifier.Notify(ctx, n); err != nil {
			d.log.Error(err, "notification delivery failed")
			d.metrics.RecordNotificationFailure(n.Kind)
		}
	}()
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// New returns the notifier selected by cfg.
func New(cfg config.MailConfig, log logger.Logger) Notifier {
	if !cfg.Enabled {
		return NewLog(log)
	}
	return NewSMTP(cfg)
}
