// Package mail delivers password reset emails over SMTP, directly or through a RabbitMQ queue.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/dtroode/blog-server/internal/model"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var _ model.MailSender = (*SMTPSender)(nil)

// SMTPSender sends mail synchronously through an SMTP relay.
type SMTPSender struct {
	dialer dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	if from == "" {
		from = username
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, mail model.PasswordResetMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	html, text, err := renderReset(mail)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", resetSubject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)

	// gomail has no context support. An abandoned send may still be delivered.
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}
}
