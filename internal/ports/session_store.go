package ports

import (
	"context"
	"time"
)

// Port: server-side login sessions used by the session-based authenticator.
type SessionStore interface {
	SaveSession(ctx context.Context, sessionID, username string, ttl time.Duration) error
	// Fails with domain.ErrNotFound for unknown or expired sessions.
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
