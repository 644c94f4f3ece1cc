package ports

import (
	"context"
	"errors"

	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/domain"
)

var (
	// ErrNotFound signals a lookup miss on the business key.
	ErrNotFound = errors.New("request not found")
	// ErrAmbiguousResult signals more than one record carries the business
	// key; the store never picks one silently.
	ErrAmbiguousResult = errors.New("request number matches more than one record")
	// ErrDuplicateNumber signals a create with an already used business key.
	ErrDuplicateNumber = errors.New("request number already exists")
	// ErrConflict signals the record's revision moved since it was read.
	ErrConflict = errors.New("request record changed since it was read")
)

// UpdatePatch carries a partial update: nil fields are left untouched by the
// store, mirroring a merge-style document update.
type UpdatePatch struct {
	Items     *[]domain.LineItem
	Status    *domain.Status
	Approvals *domain.ApprovalStatus
}

// Repository is the request store boundary. Update is conditional on the
// revision read at fetch time and returns ErrConflict when it moved.
type Repository interface {
	Create(ctx context.Context, record *domain.RequestRecord) (*reqtypes.RequestProjection, error)
	FindByNumber(ctx context.Context, requestNumber string) (*reqtypes.RequestProjection, error)
	Update(ctx context.Context, id string, patch UpdatePatch, expectedRevision int64) (*reqtypes.RequestProjection, error)
	ListByStatus(ctx context.Context, statuses []domain.Status) ([]*reqtypes.RequestProjection, error)
	List(ctx context.Context) ([]*reqtypes.RequestProjection, error)
}
