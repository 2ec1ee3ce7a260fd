package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

var ErrEmailNotConfigured = errors.New("email service not configured (missing RESEND_API_KEY)")

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

// NewEmailService sends through Resend. In development mails are only
// logged, including the link they carry.
func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

// VerificationURL is the link the verification mail points to.
func (s *EmailService) VerificationURL(token string) string {
	return fmt.Sprintf("%s/auth/verify/%s", s.appURL, token)
}

func (s *EmailService) SendVerificationEmail(ctx context.Context, email, token, name string) error {
	verifyURL := s.VerificationURL(token)
	subject, body := verificationEmailTemplate(name, verifyURL, s.appName)
	return s.send(ctx, "email_verify", email, subject, body, verifyURL)
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	subject, body := welcomeEmailTemplate(name, s.appURL, s.appName)
	return s.send(ctx, "welcome", email, subject, body, s.appURL)
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body, link string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject, "url", link)
		return nil
	}

	if s.client == nil {
		return ErrEmailNotConfigured
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send %s email: %w", kind, err)
	}
	slog.Info("email sent", "type", kind, "to", to)
	return nil
}
