package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"delivery-tracking-service/internal/domain"
)

// CounterStore keeps the operation counters in process memory.
type CounterStore struct {
	mu          sync.Mutex
	initialized bool
	counters    domain.OperationCounters
}

func NewCounterStore() *CounterStore {
	return &CounterStore{}
}

func (s *CounterStore) InitCounters(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	return nil
}

func (s *CounterStore) Increment(ctx context.Context, kind domain.OperationKind) error {
	if err := kind.Valid(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return fmt.Errorf("increment %s count: counters record: %w", kind, domain.ErrNotFound)
	}
	switch kind {
	case domain.OpCreate:
		s.counters.CreateCount++
	case domain.OpRead:
		s.counters.ReadCount++
	case domain.OpUpdate:
		s.counters.UpdateCount++
	case domain.OpDelete:
		s.counters.DeleteCount++
	}
	return nil
}

func (s *CounterStore) ReadCounters(ctx context.Context) (domain.OperationCounters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return domain.OperationCounters{}, fmt.Errorf("read counters: %w", domain.ErrNotFound)
	}
	return s.counters, nil
}

// CredentialStore keeps credential records in process memory.
type CredentialStore struct {
	mu    sync.RWMutex
	users map[string]domain.Credential
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{users: make(map[string]domain.Credential)}
}

func (s *CredentialStore) CreateCredential(ctx context.Context, c domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[c.Username]; ok {
		return fmt.Errorf("create credential %q: %w", c.Username, domain.ErrConflict)
	}
	s.users[c.Username] = c
	return nil
}

func (s *CredentialStore) GetCredential(ctx context.Context, username string) (domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.users[username]
	if !ok {
		return domain.Credential{}, fmt.Errorf("get credential %q: %w", username, domain.ErrNotFound)
	}
	return c, nil
}

// SessionStore keeps login sessions in process memory with expiry.
type SessionStore struct {
	mu       sync.Mutex
	now      func() time.Time
	sessions map[string]session
}

type session struct {
	username  string
	expiresAt time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{now: time.Now, sessions: make(map[string]session)}
}

func (s *SessionStore) SaveSession(ctx context.Context, sessionID, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session{username: username, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || !s.now().Before(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return "", fmt.Errorf("get session: %w", domain.ErrNotFound)
	}
	return sess.username, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
