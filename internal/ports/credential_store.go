package ports

import (
	"context"
	"delivery-tracking-service/internal/domain"
)

// Port: credential records keyed by username.
type CredentialStore interface {
	// Fails with domain.ErrConflict when the username is taken.
	CreateCredential(ctx context.Context, c domain.Credential) error
	// Fails with domain.ErrNotFound when no record exists.
	GetCredential(ctx context.Context, username string) (domain.Credential, error)
}
