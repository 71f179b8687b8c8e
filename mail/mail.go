package mail

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"
)

// Mailer delivers credential-recovery tokens out of band. The auth
// service invokes it exactly once per reset request and does not care how
// delivery happens.
type Mailer interface {
	SendPasswordReset(to, token string) error
}

// SMTPMailer sends real mail through an SMTP relay.
type SMTPMailer struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
}

func NewSMTPMailer(host string, port int, user, pass, frontendURL string) *SMTPMailer {
	return &SMTPMailer{
		dialer:      gomail.NewDialer(host, port, user, pass),
		from:        user,
		frontendURL: frontendURL,
	}
}

func (m *SMTPMailer) SendPasswordReset(to, token string) error {
	link := resetLink(m.frontendURL, token)

	body := fmt.Sprintf(`
		<p>You requested a password reset.</p>
		<p>Click the link below to choose a new password:</p>
		<p><a href="%s">Reset password</a></p>
		<p>Or copy and paste this URL into your browser:</p>
		<p>%s</p>
		<p>If you did not request this change you can safely ignore this
		email. The link expires in 1 hour.</p>
	`, link, link)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password Recovery")
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

// LogMailer is the development stand-in: it logs the reset link instead
// of sending anything.
type LogMailer struct {
	logger      *slog.Logger
	frontendURL string
}

func NewLogMailer(logger *slog.Logger, frontendURL string) *LogMailer {
	return &LogMailer{logger: logger, frontendURL: frontendURL}
}

func (m *LogMailer) SendPasswordReset(to, token string) error {
	m.logger.Info("password reset email (development mode)",
		"to", to,
		"link", resetLink(m.frontendURL, token),
	)
	return nil
}

func resetLink(frontendURL, token string) string {
	return fmt.Sprintf("%s/auth/reset-password?token=%s",
		strings.TrimRight(frontendURL, "/"), token)
}
