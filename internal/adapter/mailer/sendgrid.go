package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"taskapp/internal/core/port"
	"taskapp/pkg/tracing"
)

// SendGridMailer delivers the account lifecycle emails. Failures are
// logged and counted; callers fire these off without waiting.
type SendGridMailer struct {
	client  *sendgrid.Client
	from    string
	metrics *tracing.AppMetrics
}

func NewSendGridMailer(apiKey, from string, metrics *tracing.AppMetrics) *SendGridMailer {
	return &SendGridMailer{
		client:  sendgrid.NewSendClient(apiKey),
		from:    from,
		metrics: metrics,
	}
}

func (m *SendGridMailer) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Welcome to the app, %s. let me know how you get a long with the app", name)

	return m.send(ctx, "welcome", email, "Thanks for join us", body)
}

func (m *SendGridMailer) SendGoodbye(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("We are sorry for seeing you go, %s.", name)

	return m.send(ctx, "goodbye", email, "Goodbye", body)
}

func (m *SendGridMailer) send(ctx context.Context, kind, email, subject, body string) error {
	from := mail.NewEmail("", m.from)
	to := mail.NewEmail("", email)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	response, err := m.client.SendWithContext(ctx, message)

	if err != nil {
		m.record(ctx, kind, "error")
		slog.Error("Failed to send email", "kind", kind, "error", err)
		return err
	}

	if response.StatusCode >= 400 {
		m.record(ctx, kind, "rejected")
		slog.Error("Email rejected", "kind", kind, "status", response.StatusCode)
		return fmt.Errorf("sendgrid responded with status %d", response.StatusCode)
	}

	m.record(ctx, kind, "sent")

	return nil
}

func (m *SendGridMailer) record(ctx context.Context, kind, result string) {
	if m.metrics != nil {
		m.metrics.RecordMailOperation(ctx, kind, result)
	}
}

// LogMailer stands in when no SendGrid key is configured. It only
// writes the would-be delivery to the log.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) SendWelcome(ctx context.Context, email, name string) error {
	slog.Info("Skipping welcome email delivery", "email", email, "name", name)
	return nil
}

func (m *LogMailer) SendGoodbye(ctx context.Context, email, name string) error {
	slog.Info("Skipping goodbye email delivery", "email", email, "name", name)
	return nil
}

// NewMailer picks the SendGrid client when a key is set.
func NewMailer(apiKey, from string, metrics *tracing.AppMetrics) port.Mailer {
	if apiKey == "" {
		return NewLogMailer()
	}

	return NewSendGridMailer(apiKey, from, metrics)
}
