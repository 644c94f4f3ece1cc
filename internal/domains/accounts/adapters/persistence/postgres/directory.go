package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
)

var _ ports.Directory = (*Directory)(nil)

// Directory reads the pre-registered employee list. Rows are loaded by an
// out-of-band HR import; this adapter only looks them up and seeds test data.
type Directory struct {
	db *gorm.DB
}

// NewDirectory wires a PostgreSQL-backed directory.
func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

type directoryRow struct {
	NIK         string `gorm:"primaryKey;column:nik"`
	NamaLengkap string `gorm:"column:nama_lengkap"`
	Divisi      string `gorm:"column:divisi"`
	Role        string `gorm:"column:role"`
}

func (directoryRow) TableName() string { return "directory_entries" }

func (d *Directory) LookupNIK(ctx context.Context, nik string) (*domain.DirectoryEntry, error) {
	if d == nil || d.db == nil {
		return nil, errors.New("postgres directory not configured")
	}
	var row directoryRow
	if err := d.db.WithContext(ctx).First(&row, "nik = ?", nik).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &domain.DirectoryEntry{
		NIK:         row.NIK,
		NamaLengkap: row.NamaLengkap,
		Divisi:      row.Divisi,
		Role:        row.Role,
	}, nil
}

// Seed upserts directory entries, used by fixtures and the HR import job.
func (d *Directory) Seed(ctx context.Context, entries ...domain.DirectoryEntry) error {
	if d == nil || d.db == nil {
		return errors.New("postgres directory not configured")
	}
	rows := make([]directoryRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, directoryRow{
			NIK:         entry.NIK,
			NamaLengkap: entry.NamaLengkap,
			Divisi:      entry.Divisi,
			Role:        entry.Role,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}
