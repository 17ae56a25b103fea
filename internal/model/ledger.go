package model

import (
	"context"
	"time"
)

// ResetLedger records consumed password reset tokens so that each is usable once.
type ResetLedger interface {
	// Consume marks jti as used for ttl. It returns false if jti was already used.
	Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	// Release forgets jti, making it usable again.
	Release(ctx context.Context, jti string) error
}
