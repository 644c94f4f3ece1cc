package memory

import (
	"context"
	"sync"

	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
)

// Directory is an in-memory pre-registered employee list keyed by NIK.
type Directory struct {
	mu      sync.RWMutex
	entries map[string]domain.DirectoryEntry
}

// NewDirectory seeds the directory with the given entries.
func NewDirectory(entries ...domain.DirectoryEntry) *Directory {
	d := &Directory{entries: make(map[string]domain.DirectoryEntry, len(entries))}
	for _, entry := range entries {
		d.entries[entry.NIK] = entry
	}
	return d
}

// Add inserts or replaces an entry.
func (d *Directory) Add(entry domain.DirectoryEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[entry.NIK] = entry
}

func (d *Directory) LookupNIK(_ context.Context, nik string) (*domain.DirectoryEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entry, ok := d.entries[nik]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &entry, nil
}

var _ ports.Directory = (*Directory)(nil)
