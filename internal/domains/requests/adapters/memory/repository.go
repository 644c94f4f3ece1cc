package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/domain"
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/ports"
	"github.com/adiwjy/go-procurement-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory request store used for tests and the
// no-database dev fallback. It honors the same conditional-update contract
// as the PostgreSQL adapter.
type Repository struct {
	mu      sync.RWMutex
	records map[string]*storedRecord
	now     func() time.Time
}

type storedRecord struct {
	record   *domain.RequestRecord
	metadata projection.Metadata
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		records: map[string]*storedRecord{},
		now:     time.Now,
	}
}

// WithClock overrides the timestamp source, for deterministic tests.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Create stores a new record at revision 1.
func (r *Repository) Create(ctx context.Context, record *domain.RequestRecord) (*reqtypes.RequestProjection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("cannot save nil record")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.records {
		if entry.record.RequestNumber == record.RequestNumber {
			return nil, ports.ErrDuplicateNumber
		}
	}
	timestamp := r.now()
	stored := &storedRecord{
		record: record.Clone(),
		metadata: projection.Metadata{
			Revision:  1,
			CreatedAt: timestamp,
			UpdatedAt: timestamp,
		},
	}
	r.records[record.ID] = stored
	return projectionCopy(stored), nil
}

// FindByNumber returns the unique record carrying the business key.
func (r *Repository) FindByNumber(ctx context.Context, requestNumber string) (*reqtypes.RequestProjection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *storedRecord
	for _, entry := range r.records {
		if entry.record.RequestNumber != requestNumber {
			continue
		}
		if found != nil {
			return nil, ports.ErrAmbiguousResult
		}
		found = entry
	}
	if found == nil {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(found), nil
}

// Update merges the patch into the stored record, conditional on the
// expected revision. Absent patch fields are untouched.
func (r *Repository) Update(ctx context.Context, id string, patch ports.UpdatePatch, expectedRevision int64) (*reqtypes.RequestProjection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.records[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if entry.metadata.Revision != expectedRevision {
		return nil, ports.ErrConflict
	}
	if patch.Items != nil {
		entry.record.Items = append([]domain.LineItem{}, (*patch.Items)...)
	}
	if patch.Status != nil {
		entry.record.Status = *patch.Status
	}
	if patch.Approvals != nil {
		entry.record.Approvals = *patch.Approvals
	}
	entry.metadata.Revision++
	entry.metadata.UpdatedAt = r.now()
	return projectionCopy(entry), nil
}

// ListByStatus returns every record whose status matches one of the filter
// values, in no particular order.
func (r *Repository) ListByStatus(ctx context.Context, statuses []domain.Status) ([]*reqtypes.RequestProjection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wanted := map[domain.Status]struct{}{}
	for _, status := range statuses {
		wanted[status] = struct{}{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*reqtypes.RequestProjection
	for _, entry := range r.records {
		if _, ok := wanted[entry.record.Status]; ok {
			result = append(result, projectionCopy(entry))
		}
	}
	return result, nil
}

// List returns every stored record.
func (r *Repository) List(ctx context.Context) ([]*reqtypes.RequestProjection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*reqtypes.RequestProjection, 0, len(r.records))
	for _, entry := range r.records {
		result = append(result, projectionCopy(entry))
	}
	return result, nil
}

func projectionCopy(entry *storedRecord) *reqtypes.RequestProjection {
	return reqtypes.NewRequestProjection(
		entry.record.Clone(),
		entry.metadata.Revision,
		entry.metadata.CreatedAt,
		entry.metadata.UpdatedAt,
	)
}
