package ports

import "context"

// Authenticator issues and checks the credential a client presents on
// protected requests. Verify fails with domain.ErrUnauthorized for invalid
// or expired credentials.
type Authenticator interface {
	Issue(ctx context.Context, username string) (string, error)
	Verify(ctx context.Context, credential string) (string, error)
	// Revoke ends a credential early. Stateless schemes treat it as a no-op.
	Revoke(ctx context.Context, credential string) error
}
