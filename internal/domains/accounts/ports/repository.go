package ports

import (
	"context"
	"errors"

	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
	"github.com/adiwjy/go-procurement-api/internal/shared/projection"
)

var (
	ErrNotFound      = errors.New("account not found")
	ErrAlreadyExists = errors.New("account already exists")
)

// AccountProjection is an account plus its persistence metadata.
type AccountProjection = projection.Projection[*domain.Account]

// Repository is the account store boundary.
type Repository interface {
	Create(ctx context.Context, account *domain.Account) (*AccountProjection, error)
	GetByPrincipal(ctx context.Context, principalID string) (*AccountProjection, error)
	GetByNIK(ctx context.Context, nik string) (*AccountProjection, error)
	PersistSelectedProfileIndex(ctx context.Context, principalID string, index int) error
}

// Directory is the pre-registered employee list maintained outside this
// service; registration is only possible for people it knows.
type Directory interface {
	LookupNIK(ctx context.Context, nik string) (*domain.DirectoryEntry, error)
}
