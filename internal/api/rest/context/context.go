package context

import (
	"context"

	"github.com/dtroode/blog-server/internal/model"
)

type claimsKey struct{}

// Manager stores session claims in request contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

var _ model.ContextManager = (*Manager)(nil)

// SetClaimsToContext returns a copy of ctx carrying the session claims.
func (m *Manager) SetClaimsToContext(ctx context.Context, claims model.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaimsFromContext returns the session claims stored by SetClaimsToContext.
func (m *Manager) GetClaimsFromContext(ctx context.Context) (model.SessionClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(model.SessionClaims)
	if !ok || claims.Email == "" {
		return model.SessionClaims{}, false
	}
	return claims, true
}
