package model

import "time"

// SessionClaims are the identity claims carried by a session token.
type SessionClaims struct {
	Name  string
	Email string
}

// ResetClaims are the claims carried by a password reset token.
type ResetClaims struct {
	Email     string
	JTI       string
	ExpiresAt time.Time
}

// TokenManager issues and validates session and password reset tokens.
// Session and reset tokens are signed with independent secrets.
type TokenManager interface {
	IssueSession(claims SessionClaims) (string, error)
	ParseSession(token string) (SessionClaims, error)
	IssueReset(email string) (string, error)
	ParseReset(token string) (ResetClaims, error)
}
