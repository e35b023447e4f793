package mailer

import (
	"fmt"
	"html"

	"airdrop-tracker-be/internal/config"
	"airdrop-tracker-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendVerificationEmail(toEmail, username, verificationLink string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
	logger logger.ILogger
}

// NewEmailService returns a gomail backed sender. Without an SMTP host the
// returned service only logs the verification link, which is enough for
// local development.
func NewEmailService(cfg config.SMTPConfig, log logger.ILogger) IEmailService {
	if cfg.Host == "" {
		return &logOnlyEmailService{logger: log}
	}
	return &emailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Email, cfg.Password),
		from:   fmt.Sprintf("%s <%s>", cfg.SenderName, cfg.Email),
		logger: log,
	}
}

func (s *emailService) SendVerificationEmail(toEmail, username, verificationLink string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Verify your email for Airdrop Tracker")
	m.SetBody("text/plain", verificationText(username, verificationLink))
	m.AddAlternative("text/html", verificationHTML(username, verificationLink))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("Mailer", "Failed to send verification email", map[string]interface{}{"to": toEmail, "error": err})
		return err
	}

	s.logger.Info("Mailer", "Verification email sent", map[string]interface{}{"to": toEmail})
	return nil
}

type logOnlyEmailService struct {
	logger logger.ILogger
}

func (s *logOnlyEmailService) SendVerificationEmail(toEmail, _ string, verificationLink string) error {
	s.logger.Warn("Mailer", "SMTP not configured, verification link logged instead", map[string]interface{}{"to": toEmail, "link": verificationLink})
	return nil
}

func verificationText(username, link string) string {
	return fmt.Sprintf(`Hi %s,

Thanks for signing up to Airdrop Tracker.
Open the link below to verify your email address:

%s

If you did not sign up, you can ignore this email.

The Airdrop Tracker team
`, username, link)
}

func verificationHTML(username, link string) string {
	name := html.EscapeString(username)
	href := html.EscapeString(link)
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<p>Hi <strong>%s</strong>,</p>
			<p>Thanks for signing up to Airdrop Tracker. Click the button below to verify your email address:</p>
			<p style="text-align: center; margin: 20px 0;">
				<a href="%s" style="display: inline-block; padding: 12px 25px; background-color: #007bff; color: white; text-decoration: none; border-radius: 5px; font-weight: bold;">Verify my email</a>
			</p>
			<p>Or paste this link into your browser:</p>
			<p><code>%s</code></p>
			<p>If you did not sign up, you can ignore this email.</p>
		</div>
	`, name, href, href)
}
