package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dtroode/blog-server/internal/apierror"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// AuthPolicy holds the tunable parts of the auth flows.
type AuthPolicy struct {
	// ClientURL is the base of password reset links.
	ClientURL string
	// RevealUnknownEmail makes ForgotPassword answer 404 for unknown emails.
	RevealUnknownEmail bool
}

type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	ledger       model.ResetLedger
	mailer       model.MailSender
	policy       AuthPolicy
	logger       *logger.Logger
	now          func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	ledger model.ResetLedger,
	mailer model.MailSender,
	policy AuthPolicy,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		ledger:       ledger,
		mailer:       mailer,
		policy:       policy,
		logger:       logger,
		now:          time.Now,
	}
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < apierror.MinPasswordLength {
		return apierror.NewErrPasswordTooShort()
	}
	if len(password) > apierror.MaxPasswordLength {
		return apierror.NewErrPasswordTooLong()
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Signup registers a new user. The store's unique constraint is the final word on duplicates.
func (a *Auth) Signup(ctx context.Context, name, email, password string) (model.User, error) {
	a.logger.Debug("Auth service: starting signup",
		"email", email)

	if blank(name) || blank(email) || password == "" {
		return model.User{}, apierror.NewErrMissingFields()
	}
	if err := validatePassword(password); err != nil {
		return model.User{}, err
	}

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: email already in use",
			"email", email)
		return model.User{}, apierror.NewErrEmailIsTaken()
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := model.NewUser(name, email, hash)
	if err != nil {
		return model.User{}, apierror.NewErrMissingFields()
	}

	saved, err := a.userStore.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			a.logger.Info("Auth service: email taken by concurrent signup",
				"email", email)
			return model.User{}, apierror.NewErrEmailIsTaken()
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user signed up",
		"email", email,
		"user_id", saved.ID)

	return saved, nil
}

// Signin verifies credentials and issues a session token.
// Unknown email and wrong password produce the same error.
func (a *Auth) Signin(ctx context.Context, email, password string) (string, error) {
	a.logger.Debug("Auth service: starting signin",
		"email", email)

	if blank(email) || password == "" {
		return "", apierror.NewErrMissingFields()
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: signin for unknown email",
				"email", email)
			return "", apierror.NewErrInvalidCredentials()
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.logger.Info("Auth service: wrong password",
			"email", email)
		return "", apierror.NewErrInvalidCredentials()
	}

	token, err := a.tokenManager.IssueSession(model.SessionClaims{Name: user.Name, Email: user.Email})
	if err != nil {
		a.logger.Error("Auth service: failed to issue session token",
			"email", email,
			"error", err.Error())
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	a.logger.Info("Auth service: user signed in",
		"email", email)

	return token, nil
}

// ForgotPassword emails a reset link to the user. For unknown emails it either
// reports not found or silently succeeds, depending on the policy.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	a.logger.Debug("Auth service: password reset requested",
		"email", email)

	if blank(email) {
		return apierror.NewErrEmailRequired()
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: password reset for unknown email",
				"email", email)
			if a.policy.RevealUnknownEmail {
				return apierror.NewErrUserNotFound()
			}
			return nil
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	token, err := a.tokenManager.IssueReset(user.Email)
	if err != nil {
		a.logger.Error("Auth service: failed to issue reset token",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	mail := model.PasswordResetMail{
		To:   user.Email,
		Link: ResetLink(a.policy.ClientURL, token),
		Name: user.Name,
	}
	if err := a.mailer.SendPasswordReset(ctx, mail); err != nil {
		a.logger.Error("Auth service: failed to send reset email",
			"email", email,
			"error", err.Error())
		return apierror.NewErrMailDelivery(err)
	}

	a.logger.Info("Auth service: reset email sent",
		"email", email)

	return nil
}

// ResetLink builds the link a user follows to reset the password.
func ResetLink(clientURL, token string) string {
	return strings.TrimRight(clientURL, "/") + "/" + token
}

// ResetPassword replaces the password of the user named by a valid, unused reset token.
func (a *Auth) ResetPassword(ctx context.Context, token, password string) error {
	if blank(token) {
		return apierror.NewErrTokenRequired()
	}
	if password == "" {
		return apierror.NewErrNewPasswordRequired()
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	claims, err := a.tokenManager.ParseReset(token)
	if err != nil {
		a.logger.Info("Auth service: rejected reset token",
			"error", err.Error())
		return apierror.NewErrInvalidResetToken()
	}

	ttl := claims.ExpiresAt.Sub(a.now())
	first, err := a.ledger.Consume(ctx, claims.JTI, ttl)
	if err != nil {
		a.logger.Error("Auth service: failed to consume reset token",
			"email", claims.Email,
			"error", err.Error())
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if !first {
		a.logger.Info("Auth service: reset token reused",
			"email", claims.Email)
		return apierror.NewErrInvalidResetToken()
	}

	if err := a.applyReset(ctx, claims.Email, password); err != nil {
		var apiErr *apierror.APIError
		if !errors.As(err, &apiErr) {
			a.release(ctx, claims.JTI)
		}
		return err
	}

	a.logger.Info("Auth service: password reset",
		"email", claims.Email)

	return nil
}

func (a *Auth) applyReset(ctx context.Context, email, password string) error {
	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: reset token for unknown user",
				"email", email)
			return apierror.NewErrInvalidResetToken()
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.userStore.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierror.NewErrInvalidResetToken()
		}
		a.logger.Error("Auth service: failed to update password",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// release makes the token usable again after an infrastructure failure.
func (a *Auth) release(ctx context.Context, jti string) {
	if err := a.ledger.Release(context.WithoutCancel(ctx), jti); err != nil {
		a.logger.Warn("Auth service: failed to release reset token",
			"error", err.Error())
	}
}
