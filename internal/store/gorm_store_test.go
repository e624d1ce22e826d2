package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tribe-health/growthbook/internal/models"
)

// setupGormStore creates an in-memory SQLite database with the migrated schema.
func setupGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory SQLite database")

	// A pooled second connection would see its own empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.DataSource{})
	require.NoError(t, err, "Failed to migrate test database schema")

	return NewGormStore(db)
}

func warehouseSource(org, name string) models.DataSource {
	return models.DataSource{
		Organization:    org,
		Name:            name,
		Type:            "postgres",
		EncryptedParams: "opaque-ciphertext",
	}
}

func TestGormStoreCreateAndGet(t *testing.T) {
	s := setupGormStore(t)
	ctx := context.Background()

	assert.False(t, s.ReadOnly())

	created, err := s.Create(ctx, warehouseSource("org_acme", "Main Warehouse"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "id should be generated")
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.Get(ctx, "org_acme", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main Warehouse", got.Name)
	assert.Equal(t, "postgres", got.Type)
}

func TestGormStoreGetScopedByOrganization(t *testing.T) {
	s := setupGormStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, warehouseSource("org_acme", "Main Warehouse"))
	require.NoError(t, err)

	_, err = s.Get(ctx, "org_other", created.ID)
	assert.ErrorIs(t, err, ErrNotFound, "a record must never be visible to another organization")
}

func TestGormStoreDuplicateName(t *testing.T) {
	s := setupGormStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, warehouseSource("org_acme", "Main Warehouse"))
	require.NoError(t, err)

	_, err = s.Create(ctx, warehouseSource("org_acme", "Main Warehouse"))
	assert.ErrorIs(t, err, ErrDuplicate)

	// Same name in a different organization is fine.
	_, err = s.Create(ctx, warehouseSource("org_other", "Main Warehouse"))
	assert.NoError(t, err)
}

func TestGormStoreUpgradesSettingsOnRead(t *testing.T) {
	s := setupGormStore(t)
	ctx := context.Background()

	// Write a record with the legacy settings shape directly, bypassing Create,
	// the way an old deployment would have left it.
	legacy := warehouseSource("org_acme", "Legacy Warehouse")
	legacy.ID = "legacy-1"
	legacy.Settings = models.Settings{
		Queries: &models.QuerySettings{ExperimentsQuery: "SELECT * FROM experiment_viewed"},
	}
	require.NoError(t, s.db.Create(&legacy).Error)

	got, err := s.Get(ctx, "org_acme", "legacy-1")
	require.NoError(t, err)
	require.Len(t, got.Settings.IdentifierTypes, 2)
	require.Len(t, got.Settings.Queries.Exposure, 2)
	assert.Equal(t, "SELECT * FROM experiment_viewed", got.Settings.Queries.Exposure[0].Query)

	// The upgrade is applied on read, never written back.
	var raw models.DataSource
	require.NoError(t, s.db.Where("id = ?", "legacy-1").First(&raw).Error)
	assert.Empty(t, raw.Settings.Queries.Exposure)

	list, err := s.ListByOrganization(ctx, "org_acme", ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Settings.Queries.Exposure, 2, "list reads upgrade too")
}

func TestGormStoreUpdate(t *testing.T) {
	s := setupGormStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, warehouseSource("org_acme", "Main Warehouse"))
	require.NoError(t, err)

	created.Name = "Renamed Warehouse"
	created.Description = "primary analytics warehouse"
	updated, err := s.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Warehouse", updated.Name)

	got, err := s.Get(ctx, "org_acme", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Warehouse", got.Name)
	assert.Equal(t, "primary analytics warehouse", got.Description)
	assert.Equal(t, created.CreatedAt.Unix(), got.CreatedAt.Unix(), "creation time is preserved")
}

func TestGormStoreUpdateNotFound(t *testing.T) {
	s := setupGormStore(t)

	missing := warehouseSource("org_acme", "Ghost")
	missing.ID = "missing-id"
	_, err := s.Update(context.Background(), missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreDelete(t *testing.T) {
	s := setupGormStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, warehouseSource("org_acme", "Main Warehouse"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "org_acme", created.ID))

	_, err = s.Get(ctx, "org_acme", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(ctx, "org_acme", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreListPaginationAndSort(t *testing.T) {
	s := setupGormStore(t)
	ctx := context.Background()

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		_, err := s.Create(ctx, warehouseSource("org_acme", name))
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, warehouseSource("org_other", "zulu"))
	require.NoError(t, err)

	list, err := s.ListByOrganization(ctx, "org_acme", ListOptions{SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, list, 3, "list is scoped to the organization")
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "charlie", list[2].Name)

	page, err := s.ListByOrganization(ctx, "org_acme", ListOptions{SortBy: "name", SortOrder: "desc", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "bravo", page[0].Name)
}
