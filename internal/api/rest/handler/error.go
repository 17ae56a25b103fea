package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/blog-server/internal/apierror"
	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/model"
)

// envelope selects the JSON key a route reports failures under.
type envelope int

const (
	messageEnvelope envelope = iota
	errorEnvelope
)

// failure describes how a route reports errors.
type failure struct {
	envelope envelope
	fallback string
}

var (
	authFailure    = failure{envelope: messageEnvelope, fallback: "Server error"}
	forgotFailure  = failure{envelope: errorEnvelope, fallback: "An error occurred while processing your request"}
	defaultFailure = failure{envelope: errorEnvelope, fallback: "Internal Server Error"}
)

// resolveError maps err to a status and a client-safe message.
func resolveError(err error, f failure) (int, string) {
	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Status, apiErr.Message
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, f.fallback
	}
}

func writeFailure(w http.ResponseWriter, r *http.Request, err error, f failure) {
	status, message := resolveError(err, f)
	if f.envelope == messageEnvelope {
		response.WriteMessage(w, r, status, message)
		return
	}
	response.WriteError(w, r, status, message)
}
