package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/config"
)

// EmailSender delivers transactional mail. Failures are logged by
// callers and never fail the triggering request.
type EmailSender interface {
	SendWelcome(toEmail, schoolName string) error
	SendInvite(toEmail, schoolName, tempPassword string) error
}

type sendgridSender struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *zap.Logger
}

type noopSender struct {
	logger *zap.Logger
}

// NewEmailSender returns a SendGrid-backed sender, or a log-only one
// when no API key is configured.
func NewEmailSender(cfg config.SendGridConfig, logger *zap.Logger) EmailSender {
	if cfg.APIKey == "" {
		return &noopSender{logger: logger}
	}
	return &sendgridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: logger,
	}
}

func (s *sendgridSender) SendWelcome(toEmail, schoolName string) error {
	subject := "Welcome to PassPilot"
	plain := fmt.Sprintf("Your school %s is set up on PassPilot. Log in to start issuing passes.", schoolName)
	html := fmt.Sprintf("<p>Your school <strong>%s</strong> is set up on PassPilot.</p><p>Log in to start issuing passes.</p>", schoolName)
	return s.send(toEmail, subject, plain, html)
}

func (s *sendgridSender) SendInvite(toEmail, schoolName, tempPassword string) error {
	subject := fmt.Sprintf("You've been invited to %s on PassPilot", schoolName)
	plain := fmt.Sprintf("You've been added to %s. Sign in with this email and the temporary password %s; you'll set your own password on first login.", schoolName, tempPassword)
	html := fmt.Sprintf("<p>You've been added to <strong>%s</strong>.</p><p>Sign in with this email and the temporary password <code>%s</code>; you'll set your own password on first login.</p>", schoolName, tempPassword)
	return s.send(toEmail, subject, plain, html)
}

func (s *sendgridSender) send(toEmail, subject, plain, html string) error {
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", toEmail), plain, html)
	resp, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	s.logger.Info("email sent", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}

func (n *noopSender) SendWelcome(toEmail, schoolName string) error {
	n.logger.Info("email disabled, skipping welcome mail", zap.String("to", toEmail))
	return nil
}

func (n *noopSender) SendInvite(toEmail, schoolName, tempPassword string) error {
	n.logger.Info("email disabled, skipping invite mail", zap.String("to", toEmail))
	return nil
}
