package middleware

import (
	"net/http"
	"strings"

	"github.com/dtroode/blog-server/internal/apierror"
	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

// SessionParser validates session tokens.
type SessionParser interface {
	ParseSession(token string) (model.SessionClaims, error)
}

// Authenticate validates the session token and injects its claims into the request context.
type Authenticate struct {
	tokens         SessionParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens SessionParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid session with 401.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			apiErr := apierror.NewErrMissingAuthorizationToken()
			response.WriteError(w, r, apiErr.Status, apiErr.Message)
			return
		}

		claims, err := m.tokens.ParseSession(token)
		if err != nil {
			m.logger.Debug("Authenticate middleware: rejected session token",
				"path", r.URL.Path,
				"error", err.Error())
			apiErr := apierror.NewErrInvalidAuthorizationToken()
			response.WriteError(w, r, apiErr.Status, apiErr.Message)
			return
		}

		ctx := m.contextManager.SetClaimsToContext(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokenFromRequest prefers the session cookie and falls back to a bearer header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
