// Package apierror defines user-facing errors and their transport status.
package apierror

import (
	"fmt"
	"net/http"
)

// Kind classifies an APIError.
type Kind int

const (
	// KindValidation marks missing or malformed input.
	KindValidation Kind = iota + 1
	// KindNotFound marks a missing user, profile or object.
	KindNotFound
	// KindAuth marks bad credentials or an invalid token.
	KindAuth
	// KindDependency marks a failing store or mail provider.
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// APIError is an error whose message is safe to show to clients.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, status int, message string) *APIError {
	return &APIError{Kind: kind, Status: status, Message: message}
}

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// MaxPasswordLength is the longest password the hasher accepts, in bytes.
const MaxPasswordLength = 72

func NewErrMissingFields() *APIError {
	return newError(KindValidation, http.StatusBadRequest, "All fields are required")
}

func NewErrPasswordTooShort() *APIError {
	return newError(KindValidation, http.StatusBadRequest,
		fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
}

func NewErrPasswordTooLong() *APIError {
	return newError(KindValidation, http.StatusBadRequest,
		fmt.Sprintf("Password must be at most %d bytes long", MaxPasswordLength))
}

func NewErrEmailIsTaken() *APIError {
	return newError(KindValidation, http.StatusBadRequest, "Email already in use")
}

func NewErrMalformedRequest() *APIError {
	return newError(KindValidation, http.StatusBadRequest, "Failed to decode request")
}

func NewErrEmailRequired() *APIError {
	return newError(KindValidation, http.StatusBadRequest, "Email is required!")
}

func NewErrTokenRequired() *APIError {
	return newError(KindValidation, http.StatusBadRequest, "Token is required!")
}

func NewErrNewPasswordRequired() *APIError {
	return newError(KindValidation, http.StatusBadRequest, "New password is required!")
}

func NewErrUploadTooLarge(limit int64) *APIError {
	return newError(KindValidation, http.StatusBadRequest,
		fmt.Sprintf("Image must not exceed %d bytes", limit))
}

func NewErrUnsupportedImage() *APIError {
	return newError(KindValidation, http.StatusBadRequest, "Uploaded file is not an image")
}

// NewErrInvalidCredentials is shared by the unknown-email and wrong-password cases.
func NewErrInvalidCredentials() *APIError {
	return newError(KindAuth, http.StatusBadRequest, "Invalid email or password!")
}

func NewErrMissingAuthorizationToken() *APIError {
	return newError(KindAuth, http.StatusUnauthorized, "Authorization token is missing")
}

func NewErrInvalidAuthorizationToken() *APIError {
	return newError(KindAuth, http.StatusUnauthorized, "Authorization token is invalid or expired")
}

func NewErrUserNotFound() *APIError {
	return newError(KindNotFound, http.StatusNotFound, "User not found")
}

// NewErrInvalidResetToken is shared by the unknown-user and invalid-token cases.
func NewErrInvalidResetToken() *APIError {
	return newError(KindNotFound, http.StatusNotFound, "User not found or token is invalid/expired")
}

func NewErrProfileNotFound() *APIError {
	return newError(KindNotFound, http.StatusNotFound, "Profile not found")
}

func NewErrPhotoNotFound() *APIError {
	return newError(KindNotFound, http.StatusNotFound, "Profile photo not found")
}

func NewErrPostNotFound() *APIError {
	return newError(KindNotFound, http.StatusNotFound, "Post not found")
}

func NewErrMailDelivery(err error) *APIError {
	e := newError(KindDependency, http.StatusInternalServerError, "Failed to send email")
	e.Err = err
	return e
}
