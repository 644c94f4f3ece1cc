// Package migrations applies the schema for every bounded context in one
// place, so operators can migrate ahead of a rollout instead of relying on
// adapter-level automigrate.
package migrations

import (
	"gorm.io/gorm"

	accountspg "github.com/adiwjy/go-procurement-api/internal/domains/accounts/adapters/persistence/postgres"
	requestspg "github.com/adiwjy/go-procurement-api/internal/domains/requests/adapters/persistence/postgres"
)

// Run applies the schema for the bounded contexts.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := requestspg.Migrate(db); err != nil {
		return err
	}
	return accountspg.Migrate(db)
}
