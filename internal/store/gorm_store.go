package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tribe-health/growthbook/internal/models"
)

// allowedSortColumns whitelists the sortable columns so user input never reaches
// the ORDER BY clause directly.
var allowedSortColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// GormStore persists data sources in a relational database through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store backed by the given GORM database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ReadOnly implements Store. Database-backed deployments accept mutations.
func (s *GormStore) ReadOnly() bool {
	return false
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	// SQLite (used in tests) reports unique violations as plain errors.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ListByOrganization returns the organization's data sources with settings upgraded.
func (s *GormStore) ListByOrganization(ctx context.Context, org string, opts ListOptions) ([]models.DataSource, error) {
	column, ok := allowedSortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	order := "asc"
	if strings.EqualFold(opts.SortOrder, "desc") {
		order = "desc"
	}

	query := s.db.WithContext(ctx).
		Where("organization = ?", org).
		Order(fmt.Sprintf("%s %s", column, order))
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var sources []models.DataSource
	if err := query.Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("failed to list data sources: %w", err)
	}
	for i := range sources {
		models.UpgradeSettings(sources[i].Type, &sources[i].Settings)
	}
	return sources, nil
}

// ListAll returns every data source across all organizations, for the health checker.
func (s *GormStore) ListAll(ctx context.Context) ([]models.DataSource, error) {
	var sources []models.DataSource
	if err := s.db.WithContext(ctx).Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("failed to list data sources: %w", err)
	}
	for i := range sources {
		models.UpgradeSettings(sources[i].Type, &sources[i].Settings)
	}
	return sources, nil
}

// Get returns one data source scoped by organization.
func (s *GormStore) Get(ctx context.Context, org, id string) (models.DataSource, error) {
	var ds models.DataSource
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization = ?", id, org).
		First(&ds).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DataSource{}, ErrNotFound
		}
		return models.DataSource{}, fmt.Errorf("failed to get data source: %w", err)
	}
	models.UpgradeSettings(ds.Type, &ds.Settings)
	return ds, nil
}

// Create inserts a new data source, generating an id when none is set.
func (s *GormStore) Create(ctx context.Context, ds models.DataSource) (models.DataSource, error) {
	if ds.ID == "" {
		ds.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(&ds).Error; err != nil {
		if isDuplicateErr(err) {
			return models.DataSource{}, ErrDuplicate
		}
		return models.DataSource{}, fmt.Errorf("failed to create data source: %w", err)
	}
	models.UpgradeSettings(ds.Type, &ds.Settings)
	return ds, nil
}

// Update saves the full record. The caller is expected to have merged partial
// fields into a record obtained from Get.
func (s *GormStore) Update(ctx context.Context, ds models.DataSource) (models.DataSource, error) {
	var existing models.DataSource
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization = ?", ds.ID, ds.Organization).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DataSource{}, ErrNotFound
		}
		return models.DataSource{}, fmt.Errorf("failed to find data source for update: %w", err)
	}

	ds.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(&ds).Error; err != nil {
		if isDuplicateErr(err) {
			return models.DataSource{}, ErrDuplicate
		}
		return models.DataSource{}, fmt.Errorf("failed to update data source: %w", err)
	}
	models.UpgradeSettings(ds.Type, &ds.Settings)
	return ds, nil
}

// Delete removes a data source outright. There is no soft delete.
func (s *GormStore) Delete(ctx context.Context, org, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND organization = ?", id, org).
		Delete(&models.DataSource{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete data source: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
