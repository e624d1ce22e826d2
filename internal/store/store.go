// Package store persists data source configurations. Two implementations exist:
// a GORM-backed store for normal deployments and a read-only store backed by a
// static config file for file-config mode.
package store

import (
	"context"
	"errors"

	"github.com/tribe-health/growthbook/internal/models"
)

var (
	// ErrNotFound is returned when no data source matches the organization/id pair.
	ErrNotFound = errors.New("data source not found")

	// ErrDuplicate is returned when a create or update violates a uniqueness constraint.
	ErrDuplicate = errors.New("data source already exists")

	// ErrReadOnly is returned by all mutations while running in file-config mode.
	ErrReadOnly = errors.New("data sources are managed through the config file and cannot be modified via the API")
)

// ListOptions controls pagination and ordering of list queries.
type ListOptions struct {
	Limit     int
	Offset    int
	SortBy    string // "name", "created_at" or "updated_at"
	SortOrder string // "asc" or "desc"
}

// Store is the persistence interface for data source configurations. All reads
// return records with their settings bundle already upgraded.
type Store interface {
	ListByOrganization(ctx context.Context, org string, opts ListOptions) ([]models.DataSource, error)
	ListAll(ctx context.Context) ([]models.DataSource, error)
	Get(ctx context.Context, org, id string) (models.DataSource, error)
	Create(ctx context.Context, ds models.DataSource) (models.DataSource, error)
	Update(ctx context.Context, ds models.DataSource) (models.DataSource, error)
	Delete(ctx context.Context, org, id string) error

	// ReadOnly reports whether every mutation will fail with ErrReadOnly. Handlers
	// use it to reject writes up front, before any expensive per-request work.
	ReadOnly() bool
}
