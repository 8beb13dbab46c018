package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Welcome renders the message sent after an account is created.
func Welcome(name string) (subject, body string) {
	subject = "Welcome aboard"
	body = fmt.Sprintf(
		`<p>Hi %s,</p><p>Your account is ready. Sign in with the email address this message was sent to.</p>`,
		html.EscapeString(name),
	)
	return subject, body
}

// LogSender logs emails instead of sending them, used in ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, _ string) error {
	s.logger.Info("email (local dev)", "to", to, "subject", subject)
	return nil
}

// ResendSender sends emails via the Resend API, used in staging/production.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NewSender returns a LogSender for ENV=local, ResendSender otherwise.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger.With("component", "email")}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}
