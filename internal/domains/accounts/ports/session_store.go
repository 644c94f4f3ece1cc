package ports

import (
	"context"
	"time"
)

// SessionStore abstracts session/token persistence for signed-in principals.
type SessionStore interface {
	Save(ctx context.Context, principalID, token string, ttl time.Duration) error
	Get(ctx context.Context, principalID string) (string, error)
	Delete(ctx context.Context, principalID string) error
}

// NoopSessionStore is a safe default when callers do not need session
// persistence.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(_ context.Context, _ string, _ string, _ time.Duration) error {
	return nil
}

func (noopSessionStore) Get(_ context.Context, _ string) (string, error) {
	return "", ErrNotFound
}

func (noopSessionStore) Delete(_ context.Context, _ string) error {
	return nil
}
