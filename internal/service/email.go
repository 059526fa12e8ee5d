package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// EmailService copies escalations to an operator inbox. With no inbox
// configured every call is a no-op.
type EmailService struct {
	client    *resend.Client
	fromEmail string
	toEmail   string
	isDev     bool
	appName   string
}

func NewEmailService(apiKey, fromEmail, toEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		isDev:     isDev,
		appName:   appName,
	}
}

func (s *EmailService) Enabled() bool {
	return s.toEmail != ""
}

func (s *EmailService) SendEscalationCopy(ctx context.Context, phoneNumber, emergencyContact string, misses int) error {
	if !s.Enabled() {
		return nil
	}

	subject, body := escalationEmailTemplate(phoneNumber, emergencyContact, misses, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "escalation", "to", s.toEmail, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.toEmail},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", "escalation", "to", s.toEmail, "phone", phoneNumber)
	}
	return err
}
