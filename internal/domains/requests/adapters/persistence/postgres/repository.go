package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/domain"
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists request records in PostgreSQL using GORM-mapped
// columns. Items and the approval block are stored as JSON documents, the
// rest as scalar columns so the queue views can filter on status.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Option customizes the repository.
type Option func(*Repository)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB
// lifecycle.
func NewRepository(db *gorm.DB, opts ...Option) *Repository {
	repo := &Repository{db: db, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	if db != nil {
		if err := Migrate(db); err != nil {
			repo.logger.Error("postgres request repository migration failed", slog.String("error", err.Error()))
		}
	}
	return repo
}

// Migrate creates or updates the requests table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&requestRow{})
}

type requestRow struct {
	ID            string                `gorm:"primaryKey;column:id;type:uuid"`
	RequestNumber string                `gorm:"column:request_number;uniqueIndex"`
	Requester     string                `gorm:"column:requester;index"`
	Entity        string                `gorm:"column:entity"`
	Items         []domain.LineItem     `gorm:"column:items;serializer:json"`
	Status        string                `gorm:"column:status;type:varchar(32);index"`
	Approvals     domain.ApprovalStatus `gorm:"column:approvals;serializer:json"`
	Revision      int64                 `gorm:"column:revision"`
	CreatedAt     time.Time             `gorm:"column:created_at"`
	UpdatedAt     time.Time             `gorm:"column:updated_at"`
}

func (requestRow) TableName() string { return "requests" }

func newRequestRow(record *domain.RequestRecord) requestRow {
	return requestRow{
		ID:            record.ID,
		RequestNumber: record.RequestNumber,
		Requester:     record.Requester,
		Entity:        record.Entity,
		Items:         append([]domain.LineItem{}, record.Items...),
		Status:        string(record.Status),
		Approvals:     record.Approvals,
		Revision:      1,
	}
}

func (row *requestRow) toProjection() *reqtypes.RequestProjection {
	record := &domain.RequestRecord{
		ID:            row.ID,
		RequestNumber: row.RequestNumber,
		Requester:     row.Requester,
		Entity:        row.Entity,
		Items:         append([]domain.LineItem{}, row.Items...),
		Status:        domain.Status(row.Status),
		Approvals:     row.Approvals,
	}
	return reqtypes.NewRequestProjection(record, row.Revision, row.CreatedAt, row.UpdatedAt)
}

// Create inserts a new record at revision 1.
func (r *Repository) Create(ctx context.Context, record *domain.RequestRecord) (*reqtypes.RequestProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("cannot save nil record")
	}
	row := newRequestRow(record)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateNumber
		}
		return nil, err
	}
	return r.getByID(ctx, record.ID)
}

// FindByNumber loads the unique record carrying the business key. More than
// one match is reported, never silently resolved.
func (r *Repository) FindByNumber(ctx context.Context, requestNumber string) (*reqtypes.RequestProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []requestRow
	if err := r.db.WithContext(ctx).
		Where("request_number = ?", requestNumber).
		Limit(2).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, ports.ErrNotFound
	case 1:
		return rows[0].toProjection(), nil
	default:
		return nil, ports.ErrAmbiguousResult
	}
}

// Update applies a partial patch conditional on the expected revision. A
// revision mismatch on an existing row reports a conflict; no columns are
// touched in that case.
func (r *Repository) Update(ctx context.Context, id string, patch ports.UpdatePatch, expectedRevision int64) (*reqtypes.RequestProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	assignments := map[string]any{
		"revision":   gorm.Expr("revision + 1"),
		"updated_at": gorm.Expr("NOW()"),
	}
	if patch.Items != nil {
		assignments["items"] = *patch.Items
	}
	if patch.Status != nil {
		assignments["status"] = string(*patch.Status)
	}
	if patch.Approvals != nil {
		assignments["approvals"] = *patch.Approvals
	}
	result := r.db.WithContext(ctx).
		Model(&requestRow{}).
		Where("id = ? AND revision = ?", id, expectedRevision).
		Updates(assignments)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a vanished row from a stale revision.
		var count int64
		if err := r.db.WithContext(ctx).Model(&requestRow{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrConflict
	}
	return r.getByID(ctx, id)
}

// ListByStatus feeds the queue views.
func (r *Repository) ListByStatus(ctx context.Context, statuses []domain.Status) ([]*reqtypes.RequestProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	filter := make([]string, 0, len(statuses))
	for _, status := range statuses {
		filter = append(filter, string(status))
	}
	var rows []requestRow
	if err := r.db.WithContext(ctx).
		Where("status IN ?", filter).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProjections(rows), nil
}

// List returns every stored record, newest first.
func (r *Repository) List(ctx context.Context) ([]*reqtypes.RequestProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []requestRow
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProjections(rows), nil
}

func (r *Repository) getByID(ctx context.Context, id string) (*reqtypes.RequestProjection, error) {
	var row requestRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return row.toProjection(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres repository not configured")
	}
	return nil
}

func toProjections(rows []requestRow) []*reqtypes.RequestProjection {
	result := make([]*reqtypes.RequestProjection, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toProjection())
	}
	return result
}
