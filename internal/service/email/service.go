package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/resend/resend-go/v3"

	"locallink/internal/config"
	"locallink/internal/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

type Service interface {
	SendWelcomeEmail(ctx context.Context, toEmail, businessName string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, businessName, resetToken string) error
}

// Sender is the subset of the Resend client the service needs.
type Sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type service struct {
	sender    Sender
	config    *config.Config
	templates *template.Template
	logger    *slog.Logger
}

func NewService(cfg *config.Config, logger *slog.Logger) Service {
	var sender Sender
	if cfg.ResendAPIKey != "" {
		sender = resend.NewClient(cfg.ResendAPIKey).Emails
	}
	return newService(sender, cfg, logger)
}

func newService(sender Sender, cfg *config.Config, logger *slog.Logger) *service {
	return &service{
		sender:    sender,
		config:    cfg,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
		logger:    logger,
	}
}

func (s *service) sendEmail(toEmail, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return errors.Wrapf(err, "render email template %s", templateName)
	}

	if s.sender == nil {
		s.logger.Warn("email delivery disabled, RESEND_API_KEY not set",
			slog.String("to", toEmail), slog.String("subject", subject))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("LocalLink <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	if _, err := s.sender.Send(params); err != nil {
		return errors.Wrap(err, "send email")
	}
	return nil
}

func (s *service) SendWelcomeEmail(ctx context.Context, toEmail, businessName string) error {
	data := struct {
		Title string
		Name  string
		Link  string
	}{
		Title: "Welcome to LocalLink",
		Name:  businessName,
		Link:  fmt.Sprintf("https://%s/login", s.config.Domain),
	}
	return s.sendEmail(toEmail, "Welcome to LocalLink!", "welcome.html", data)
}

func (s *service) SendPasswordResetEmail(ctx context.Context, toEmail, businessName, resetToken string) error {
	data := struct {
		Title string
		Name  string
		Link  string
		Token string
	}{
		Title: "Reset your password",
		Name:  businessName,
		Link:  fmt.Sprintf("https://%s/reset-password?token=%s", s.config.Domain, resetToken),
		Token: resetToken,
	}
	return s.sendEmail(toEmail, "LocalLink password reset", "reset_password.html", data)
}
