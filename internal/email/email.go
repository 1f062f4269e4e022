package email

import (
	"context"
	"fmt"
	"time"

	"pantrylog/internal/config"
	"pantrylog/internal/logger"
	"pantrylog/internal/models"

	"github.com/mailgun/mailgun-go/v5"
)

type Service struct {
	client      mailgun.Mailgun
	domain      string
	senderEmail string
	senderName  string
	enabled     bool
}

func NewService(cfg *config.Config) *Service {
	enabled := cfg.Mailgun.Domain != "" && cfg.Mailgun.APIKey != ""

	var client mailgun.Mailgun
	if enabled {
		client = mailgun.NewMailgun(cfg.Mailgun.APIKey)
	}

	return &Service{
		client:      client,
		domain:      cfg.Mailgun.Domain,
		senderEmail: cfg.Mailgun.SenderEmail,
		senderName:  cfg.Mailgun.SenderName,
		enabled:     enabled,
	}
}

func (s *Service) IsEnabled() bool {
	return s.enabled
}

func (s *Service) SendWelcomeEmail(user *models.User) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	subject := fmt.Sprintf("Welcome to Pantrylog, %s!", user.Name)
	htmlBody := s.generateWelcomeHTML(user)
	textBody := s.generateWelcomeText(user)

	message := mailgun.NewMessage(
		s.domain,
		fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail),
		subject,
		textBody,
		user.Email,
	)
	message.SetHTML(htmlBody)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send welcome email to %s: %w", user.Email, err)
	}

	logger.Info("Welcome email sent",
		"email", user.Email,
		"message_id", resp)
	return nil
}
