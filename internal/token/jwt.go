package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/model"
)

const (
	// DefaultSessionTTL is the lifetime of a session token.
	DefaultSessionTTL = 24 * time.Hour
	// DefaultResetTTL is the lifetime of a password reset token.
	DefaultResetTTL = 15 * time.Minute

	typeSession = "session"
	typeReset   = "password_reset"
)

// SessionClaims represents JWT claims of a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Name      string `json:"name"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
}

// ResetClaims represents JWT claims of a password reset token. Subject holds the email.
type ResetClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	sessionSecret []byte
	resetSecret   []byte
	sessionTTL    time.Duration
	resetTTL      time.Duration
	now           func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a token manager. Session and reset tokens use separate secrets
// so that one kind can never be accepted as the other.
func NewJWT(sessionSecret, resetSecret string, sessionTTL, resetTTL time.Duration) *JWT {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if resetTTL <= 0 {
		resetTTL = DefaultResetTTL
	}
	return &JWT{
		sessionSecret: []byte(sessionSecret),
		resetSecret:   []byte(resetSecret),
		sessionTTL:    sessionTTL,
		resetTTL:      resetTTL,
		now:           time.Now,
	}
}

// SessionTTL returns the lifetime of issued session tokens.
func (j *JWT) SessionTTL() time.Duration {
	return j.sessionTTL
}

// IssueSession signs the claims into a session token valid for the session TTL.
func (j *JWT) IssueSession(claims model.SessionClaims) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.sessionTTL)),
		},
		Name:      claims.Name,
		Email:     claims.Email,
		TokenType: typeSession,
	})

	tokenString, err := token.SignedString(j.sessionSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ParseSession validates a session token and returns its claims.
func (j *JWT) ParseSession(tokenString string) (model.SessionClaims, error) {
	claims := &SessionClaims{}
	if err := j.parse(tokenString, claims, j.sessionSecret); err != nil {
		return model.SessionClaims{}, err
	}
	if claims.TokenType != typeSession {
		return model.SessionClaims{}, fmt.Errorf("%w: token type mismatch: %s", model.ErrInvalidToken, claims.TokenType)
	}
	if claims.Email == "" {
		return model.SessionClaims{}, fmt.Errorf("%w: missing email claim", model.ErrInvalidToken)
	}

	return model.SessionClaims{Name: claims.Name, Email: claims.Email}, nil
}

// IssueReset creates a password reset token for email with a unique ID.
func (j *JWT) IssueReset(email string) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.resetTTL)),
		},
		TokenType: typeReset,
	})

	tokenString, err := token.SignedString(j.resetSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}

	return tokenString, nil
}

// ParseReset validates a password reset token and returns the target email and token ID.
func (j *JWT) ParseReset(tokenString string) (model.ResetClaims, error) {
	claims := &ResetClaims{}
	if err := j.parse(tokenString, claims, j.resetSecret); err != nil {
		return model.ResetClaims{}, err
	}
	if claims.TokenType != typeReset {
		return model.ResetClaims{}, fmt.Errorf("%w: token type mismatch: %s", model.ErrInvalidToken, claims.TokenType)
	}
	if claims.Subject == "" || claims.ID == "" {
		return model.ResetClaims{}, fmt.Errorf("%w: missing subject or id claim", model.ErrInvalidToken)
	}

	return model.ResetClaims{
		Email:     claims.Subject,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (j *JWT) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: token expired", model.ErrInvalidToken)
		}
		return fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}
	if !token.Valid {
		return fmt.Errorf("%w: token is invalid", model.ErrInvalidToken)
	}
	return nil
}
