// Package redis stores sessions in Redis so signed-in principals survive
// process restarts and horizontal scale-out.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
)

const keyPrefix = "session:"

// SessionStore persists session tokens keyed by principal ID with a TTL.
type SessionStore struct {
	client *goredis.Client
}

// NewSessionStore wraps an existing Redis client.
func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Connect dials Redis and verifies the connection before returning a store.
func Connect(ctx context.Context, addr string) (*SessionStore, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewSessionStore(client), nil
}

func (s *SessionStore) Save(ctx context.Context, principalID, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+principalID, token, ttl).Err(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, principalID string) (string, error) {
	token, err := s.client.Get(ctx, keyPrefix+principalID).Result()
	if errors.Is(err, goredis.Nil) {
		return "", ports.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("loading session: %w", err)
	}
	return token, nil
}

func (s *SessionStore) Delete(ctx context.Context, principalID string) error {
	if err := s.client.Del(ctx, keyPrefix+principalID).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *SessionStore) Close() error {
	return s.client.Close()
}

var _ ports.SessionStore = (*SessionStore)(nil)
