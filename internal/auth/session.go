package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"

	"github.com/google/uuid"
)

// SessionAuthenticator keeps login state server-side. The credential handed to
// the client is an opaque session id.
type SessionAuthenticator struct {
	store ports.SessionStore
	ttl   time.Duration
}

func NewSessionAuthenticator(store ports.SessionStore, ttl time.Duration) *SessionAuthenticator {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &SessionAuthenticator{store: store, ttl: ttl}
}

func (a *SessionAuthenticator) Issue(ctx context.Context, username string) (string, error) {
	id := uuid.NewString()
	if err := a.store.SaveSession(ctx, id, username, a.ttl); err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	return id, nil
}

func (a *SessionAuthenticator) Verify(ctx context.Context, sessionID string) (string, error) {
	username, err := a.store.GetSession(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("%w: unknown or expired session", domain.ErrUnauthorized)
	}
	if err != nil {
		return "", fmt.Errorf("verify session: %w", err)
	}
	return username, nil
}

func (a *SessionAuthenticator) Revoke(ctx context.Context, sessionID string) error {
	if err := a.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
