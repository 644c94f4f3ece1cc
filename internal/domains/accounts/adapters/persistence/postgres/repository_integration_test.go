//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	accountspostgres "github.com/adiwjy/go-procurement-api/internal/domains/accounts/adapters/persistence/postgres"
	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
	"github.com/adiwjy/go-procurement-api/internal/platform/migrations"
	platformpostgres "github.com/adiwjy/go-procurement-api/internal/platform/postgres"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("procurement_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpostgres.Connect(ctx, dsn)
	require.NoError(t, err)

	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func storedAccount(t *testing.T, id, nik string) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount(id, nik, "Andi Wijaya", "IT", []domain.Profile{
		{Email: "andi@cyber.co.id", Entity: "PT Cyber", Role: domain.RoleRequester},
		{Email: "andi@balekota.co.id", Entity: "PT Balekota", Role: domain.RoleChecker},
	})
	require.NoError(t, err)
	return account
}

func TestAccountRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := accountspostgres.NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, storedAccount(t, "principal-1", "100234"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, saved.Metadata.Revision)

	byPrincipal, err := repo.GetByPrincipal(ctx, "principal-1")
	require.NoError(t, err)
	require.Len(t, byPrincipal.Entity.Profiles, 2)
	assert.Equal(t, domain.RoleRequester, byPrincipal.Entity.Profiles[0].Role)

	byNIK, err := repo.GetByNIK(ctx, "100234")
	require.NoError(t, err)
	assert.Equal(t, "principal-1", byNIK.Entity.ID)

	_, err = repo.GetByPrincipal(ctx, "nobody")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestAccountRepository_DuplicatesRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := accountspostgres.NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, storedAccount(t, "principal-1", "100234"))
	require.NoError(t, err)

	// Same principal and same NIK are both unique.
	_, err = repo.Create(ctx, storedAccount(t, "principal-1", "100235"))
	require.ErrorIs(t, err, ports.ErrAlreadyExists)
	_, err = repo.Create(ctx, storedAccount(t, "principal-2", "100234"))
	require.ErrorIs(t, err, ports.ErrAlreadyExists)
}

func TestAccountRepository_PersistSelectedProfileIndex(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := accountspostgres.NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, storedAccount(t, "principal-1", "100234"))
	require.NoError(t, err)

	require.NoError(t, repo.PersistSelectedProfileIndex(ctx, "principal-1", 1))

	loaded, err := repo.GetByPrincipal(ctx, "principal-1")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Entity.SelectedProfileIndex)
	assert.EqualValues(t, 2, loaded.Metadata.Revision)

	require.ErrorIs(t, repo.PersistSelectedProfileIndex(ctx, "nobody", 0), ports.ErrNotFound)
}

func TestDirectory_LookupAndSeed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	directory := accountspostgres.NewDirectory(db)
	ctx := context.Background()

	require.NoError(t, directory.Seed(ctx, domain.DirectoryEntry{
		NIK:         "100234",
		NamaLengkap: "Andi Wijaya",
		Divisi:      "IT",
		Role:        domain.DirectoryRoleStaff,
	}))

	entry, err := directory.LookupNIK(ctx, "100234")
	require.NoError(t, err)
	assert.Equal(t, "Andi Wijaya", entry.NamaLengkap)
	assert.True(t, entry.EligibleToRegister())

	_, err = directory.LookupNIK(ctx, "999999")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
