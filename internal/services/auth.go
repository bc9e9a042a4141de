package services

import (
	"context"
	"errors"
	"fmt"

	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	credentials ports.CredentialStore
	auth        ports.Authenticator
	cost        int
}

func NewAuthService(credentials ports.CredentialStore, auth ports.Authenticator) *AuthService {
	return &AuthService{credentials: credentials, auth: auth, cost: bcrypt.DefaultCost}
}

func (s *AuthService) Signup(ctx context.Context, in domain.SignupInput) error {
	if err := domain.Validate(in); err != nil {
		return err
	}
	if in.Password != in.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return fmt.Errorf("signup: hash password: %w", err)
	}

	if err := s.credentials.CreateCredential(ctx, domain.Credential{
		Username:     in.Username,
		PasswordHash: string(hash),
	}); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	return nil
}

// Login checks the password and issues a credential for username.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	c, err := s.credentials.GetCredential(ctx, username)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", fmt.Errorf("login: %w: invalid password", domain.ErrUnauthorized)
		}
		return "", fmt.Errorf("login: compare hash: %w", err)
	}

	token, err := s.auth.Issue(ctx, c.Username)
	if err != nil {
		return "", fmt.Errorf("login: issue credential: %w", err)
	}
	return token, nil
}

func (s *AuthService) Authenticate(ctx context.Context, credential string) (string, error) {
	return s.auth.Verify(ctx, credential)
}

func (s *AuthService) Logout(ctx context.Context, credential string) error {
	if credential == "" {
		return nil
	}
	if err := s.auth.Revoke(ctx, credential); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
