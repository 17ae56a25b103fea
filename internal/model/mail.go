package model

import "context"

// PasswordResetMail is an outbound message carrying a password reset link.
type PasswordResetMail struct {
	To   string `json:"to"`
	Link string `json:"link"`
	Name string `json:"name"`
}

// MailSender delivers transactional emails.
type MailSender interface {
	SendPasswordReset(ctx context.Context, mail PasswordResetMail) error
}
