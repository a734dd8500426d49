// Package email implements an SMTP-based email notifier
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/newthinker/pairlens/internal/notifier"
)

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Email implements the Notifier interface for SMTP email
type Email struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
	send     sendFunc
}

// New creates a new Email notifier
func New(host string, port int, username, password, from string, to []string) *Email {
	return &Email{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
		send:     smtp.SendMail,
	}
}

func (e *Email) Name() string { return "email" }

// Notify mails the plain-text notice. smtp.SendMail takes no context, so
// cancellation is only checked before sending.
func (e *Email) Notify(ctx context.Context, n notifier.Notice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject := "pairlens: " + n.Title
	return e.sendEmail(subject, notifier.Text(n))
}

func (e *Email) message(subject, body string) []byte {
	msg := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s",
		e.from,
		strings.Join(e.to, ","),
		subject,
		strings.ReplaceAll(body, "\n", "\r\n"),
	)
	return []byte(msg)
}

func (e *Email) sendEmail(subject, body string) error {
	addr := fmt.Sprintf("%s:%d", e.host, e.port)

	var auth smtp.Auth
	if e.username != "" {
		auth = smtp.PlainAuth("", e.username, e.password, e.host)
	}

	if err := e.send(addr, auth, e.from, e.to, e.message(subject, body)); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	return nil
}
