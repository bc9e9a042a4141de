package auth

import (
	"context"
	"testing"
	"time"

	"delivery-tracking-service/internal/adapters/memory"
	"delivery-tracking-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAuthenticator(t *testing.T) {
	a := NewSessionAuthenticator(memory.NewSessionStore(), time.Hour)
	ctx := context.Background()

	id, err := a.Issue(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	user, err := a.Verify(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", user)

	require.NoError(t, a.Revoke(ctx, id))
	_, err = a.Verify(ctx, id)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSessionAuthenticatorUnknownSession(t *testing.T) {
	a := NewSessionAuthenticator(memory.NewSessionStore(), time.Hour)

	_, err := a.Verify(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
