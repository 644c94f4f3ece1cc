// Package postgres persists accounts and the pre-registered employee
// directory in PostgreSQL via GORM.
package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
	"github.com/adiwjy/go-procurement-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository stores accounts with the profiles slice as a JSON document and
// the NIK as a unique scalar column.
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

// NewRepository wires a PostgreSQL-backed account repository. The caller owns
// the DB lifecycle.
func NewRepository(db *gorm.DB, opts ...Option) *Repository {
	repo := &Repository{db: db, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	if db != nil {
		if err := Migrate(db); err != nil {
			repo.logger.Error("postgres account repository migration failed", slog.String("error", err.Error()))
		}
	}
	return repo
}

// Migrate creates or updates the accounts and directory tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&accountRow{}, &directoryRow{})
}

type accountRow struct {
	ID                   string           `gorm:"primaryKey;column:id"`
	NIK                  string           `gorm:"column:nik;uniqueIndex"`
	NamaLengkap          string           `gorm:"column:nama_lengkap"`
	Divisi               string           `gorm:"column:divisi"`
	EmailVerified        bool             `gorm:"column:email_verified"`
	Profiles             []domain.Profile `gorm:"column:profiles;serializer:json"`
	SelectedProfileIndex int              `gorm:"column:selected_profile_index"`
	Revision             int64            `gorm:"column:revision"`
	CreatedAt            time.Time        `gorm:"column:created_at"`
	UpdatedAt            time.Time        `gorm:"column:updated_at"`
}

func (accountRow) TableName() string { return "accounts" }

func newAccountRow(account *domain.Account) accountRow {
	return accountRow{
		ID:                   account.ID,
		NIK:                  account.NIK,
		NamaLengkap:          account.NamaLengkap,
		Divisi:               account.Divisi,
		EmailVerified:        account.EmailVerified,
		Profiles:             append([]domain.Profile{}, account.Profiles...),
		SelectedProfileIndex: account.SelectedProfileIndex,
		Revision:             1,
	}
}

func (row *accountRow) toProjection() *ports.AccountProjection {
	return &ports.AccountProjection{
		Entity: &domain.Account{
			ID:                   row.ID,
			NIK:                  row.NIK,
			NamaLengkap:          row.NamaLengkap,
			Divisi:               row.Divisi,
			EmailVerified:        row.EmailVerified,
			Profiles:             append([]domain.Profile{}, row.Profiles...),
			SelectedProfileIndex: row.SelectedProfileIndex,
		},
		Metadata: projection.Metadata{
			Revision:  row.Revision,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
	}
}

func (r *Repository) Create(ctx context.Context, account *domain.Account) (*ports.AccountProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrInvalidAccount
	}
	row := newAccountRow(account)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrAlreadyExists
		}
		return nil, err
	}
	return r.GetByPrincipal(ctx, account.ID)
}

func (r *Repository) GetByPrincipal(ctx context.Context, principalID string) (*ports.AccountProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var row accountRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", principalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return row.toProjection(), nil
}

func (r *Repository) GetByNIK(ctx context.Context, nik string) (*ports.AccountProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var row accountRow
	if err := r.db.WithContext(ctx).First(&row, "nik = ?", nik).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return row.toProjection(), nil
}

func (r *Repository) PersistSelectedProfileIndex(ctx context.Context, principalID string, index int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&accountRow{}).
		Where("id = ?", principalID).
		Updates(map[string]any{
			"selected_profile_index": index,
			"revision":               gorm.Expr("revision + 1"),
			"updated_at":             gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres repository not configured")
	}
	return nil
}
