package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"
)

// SQLCredentialStore keeps user credentials in Postgres.
type SQLCredentialStore struct {
	db *sql.DB
}

func NewSQLCredentialStore(db *sql.DB) *SQLCredentialStore {
	return &SQLCredentialStore{db: db}
}

func (s *SQLCredentialStore) CreateCredential(ctx context.Context, c domain.Credential) (err error) {
	defer obs.Time(ctx, "sql.credentials.Create")(&err)

	query := `
	INSERT INTO users (username, password_hash)
	VALUES ($1, $2)
	ON CONFLICT (username) DO NOTHING;
	`
	res, err := s.db.ExecContext(ctx, query, c.Username, c.PasswordHash)
	if err != nil {
		return fmt.Errorf("create credential: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create credential: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("create credential %q: %w", c.Username, domain.ErrConflict)
	}
	return nil
}

func (s *SQLCredentialStore) GetCredential(ctx context.Context, username string) (_ domain.Credential, err error) {
	defer obs.Time(ctx, "sql.credentials.Get")(&err)

	query := `
	SELECT username, password_hash
	FROM users
	WHERE username = $1;
	`

	var c domain.Credential
	err = s.db.QueryRowContext(ctx, query, username).Scan(&c.Username, &c.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Credential{}, fmt.Errorf("get credential %q: %w", username, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Credential{}, fmt.Errorf("get credential %q: %w", username, err)
	}
	return c, nil
}
