// Package response writes the JSON envelopes used by the HTTP API.
package response

import (
	"net/http"

	"github.com/go-chi/render"
)

// Message is the envelope for successful outcomes and for signup/signin failures.
type Message struct {
	Message string `json:"message"`
}

// Error is the envelope for failures of the remaining routes.
type Error struct {
	Error string `json:"error"`
}

// Status reports the health of the process or a dependency.
type Status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func WriteMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, Message{Message: message})
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, Error{Error: message})
}

func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}
