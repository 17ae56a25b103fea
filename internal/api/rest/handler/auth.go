package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/dtroode/blog-server/internal/apierror"
	"github.com/dtroode/blog-server/internal/api/rest/middleware"
	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// AuthService defines registration, login and password recovery operations.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (model.User, error)
	Signin(ctx context.Context, email, password string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signinRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// Auth handles HTTP endpoints under /api/auth.
type Auth struct {
	authService AuthService
	cookie      CookieOptions
	validate    *validator.Validate
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, cookie CookieOptions, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		cookie:      cookie,
		validate:    validator.New(),
		logger:      logger,
	}
}

// decode reads a JSON body into v. An empty body leaves v zeroed.
func decode(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil && !errors.Is(err, io.EOF) {
		return apierror.NewErrMalformedRequest()
	}
	return nil
}

// Signup registers a new account.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		writeFailure(w, r, err, authFailure)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeFailure(w, r, apierror.NewErrMissingFields(), authFailure)
		return
	}

	user, err := h.authService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: signup failed",
			"email", req.Email,
			"error", err.Error())
		writeFailure(w, r, err, authFailure)
		return
	}

	h.logger.Info("Auth handler: signup completed",
		"user_id", user.ID.String())
	response.WriteMessage(w, r, http.StatusCreated, "User created successfully")
}

// Signin verifies credentials and sets the session cookie.
func (h *Auth) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decode(r, &req); err != nil {
		writeFailure(w, r, err, authFailure)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeFailure(w, r, apierror.NewErrMissingFields(), authFailure)
		return
	}

	token, err := h.authService.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: signin failed",
			"email", req.Email,
			"error", err.Error())
		writeFailure(w, r, err, authFailure)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.cookie.MaxAge.Seconds())))
	response.WriteMessage(w, r, http.StatusOK, "User logged in successfully")
}

// Signout expires the session cookie.
func (h *Auth) Signout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	response.WriteMessage(w, r, http.StatusOK, "User logged out")
}

// ForgotPassword emails a password reset link.
func (h *Auth) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decode(r, &req); err != nil {
		writeFailure(w, r, err, forgotFailure)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeFailure(w, r, apierror.NewErrEmailRequired(), forgotFailure)
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		h.logger.Error("Auth handler: forgot password failed",
			"email", req.Email,
			"error", err.Error())
		writeFailure(w, r, err, forgotFailure)
		return
	}

	response.WriteMessage(w, r, http.StatusOK, "Email sent for password reset")
}

// ResetPassword sets a new password using a reset token from the path.
func (h *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req resetPasswordRequest
	if err := decode(r, &req); err != nil {
		writeFailure(w, r, err, defaultFailure)
		return
	}

	if err := h.authService.ResetPassword(r.Context(), token, req.Password); err != nil {
		h.logger.Error("Auth handler: reset password failed",
			"error", err.Error())
		writeFailure(w, r, err, defaultFailure)
		return
	}

	response.WriteMessage(w, r, http.StatusOK, "Password reset successfully.")
}

func (h *Auth) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
	}
}
