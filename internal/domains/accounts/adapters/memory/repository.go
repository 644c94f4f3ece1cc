// Package memory provides in-memory account adapters used in tests and as a
// fallback when no database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
	"github.com/adiwjy/go-procurement-api/internal/shared/projection"
)

// Repository stores accounts in a mutex-guarded map keyed by principal ID.
type Repository struct {
	mu       sync.RWMutex
	accounts map[string]*ports.AccountProjection
	now      func() time.Time
}

// Option customizes the repository.
type Option func(*Repository)

// WithClock injects a deterministic clock for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRepository builds an empty in-memory account store.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		accounts: make(map[string]*ports.AccountProjection),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Repository) Create(_ context.Context, account *domain.Account) (*ports.AccountProjection, error) {
	if account == nil {
		return nil, domain.ErrInvalidAccount
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.ID]; exists {
		return nil, ports.ErrAlreadyExists
	}
	for _, existing := range r.accounts {
		if existing.Entity.NIK == account.NIK {
			return nil, ports.ErrAlreadyExists
		}
	}

	now := r.now().UTC()
	stored := &ports.AccountProjection{
		Entity: account.Clone(),
		Metadata: projection.Metadata{
			Revision:  1,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	r.accounts[account.ID] = stored
	return projectionCopy(stored), nil
}

func (r *Repository) GetByPrincipal(_ context.Context, principalID string) (*ports.AccountProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.accounts[principalID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(stored), nil
}

func (r *Repository) GetByNIK(_ context.Context, nik string) (*ports.AccountProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.accounts {
		if stored.Entity.NIK == nik {
			return projectionCopy(stored), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) PersistSelectedProfileIndex(_ context.Context, principalID string, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[principalID]
	if !ok {
		return ports.ErrNotFound
	}
	if index < 0 || index >= len(stored.Entity.Profiles) {
		return domain.ErrInvalidProfileIndex
	}
	stored.Entity.SelectedProfileIndex = index
	stored.Metadata.Revision++
	stored.Metadata.UpdatedAt = r.now().UTC()
	return nil
}

func projectionCopy(stored *ports.AccountProjection) *ports.AccountProjection {
	return &ports.AccountProjection{
		Entity:   stored.Entity.Clone(),
		Metadata: stored.Metadata,
	}
}

var _ ports.Repository = (*Repository)(nil)
