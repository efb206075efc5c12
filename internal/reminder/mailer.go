package reminder

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"bytecart/internal/model"
)

// Mailer delivers an expiry reminder to a single owner. Implementations own
// the transport; the sweep only decides who gets which items.
type Mailer interface {
	SendReminder(ctx context.Context, toEmail, toName string, items []model.Item) error
}

// SMTPMailer sends reminder emails through a plain SMTP relay.
type SMTPMailer struct {
	Host      string
	Port      string
	Username  string
	Password  string
	From      string
	ClientURL string
}

// SendReminder formats and sends one reminder email listing the owner's
// expiring items. It honors context cancellation by abandoning the send.
func (m *SMTPMailer) SendReminder(ctx context.Context, toEmail, toName string, items []model.Item) error {
	msg := m.buildMessage(toEmail, toName, items)

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	addr := m.Host + ":" + m.Port

	// net/smtp has no context support, so run the send in a goroutine and
	// abandon it when the deadline passes.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.From, []string{toEmail}, msg)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("sending reminder email: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("sending reminder email: %w", err)
		}
		return nil
	}
}

func (m *SMTPMailer) buildMessage(toEmail, toName string, items []model.Item) []byte {
	var body strings.Builder
	body.WriteString(fmt.Sprintf("<h2>Hello %s!</h2>\n", toName))
	body.WriteString("<p>You have items that are expiring soon:</p>\n<ul>\n")
	for _, item := range items {
		body.WriteString(fmt.Sprintf("<li><strong>%s</strong> (%s) - Expires: %s</li>\n",
			item.Name, item.Type, item.ExpiryDate.Format("Jan 2, 2006")))
	}
	body.WriteString("</ul>\n")
	if m.ClientURL != "" {
		body.WriteString(fmt.Sprintf("<p>Visit your dashboard to manage these items: <a href=%q>%s</a></p>\n",
			m.ClientURL, m.ClientURL))
	}
	body.WriteString("<p>Best regards,<br>ByteCart Team</p>\n")

	headers := []string{
		"From: " + m.From,
		"To: " + toEmail,
		"Subject: ByteCart - Items Expiring Soon!",
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	}

	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body.String())
}
