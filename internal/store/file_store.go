package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tribe-health/growthbook/internal/connectors"
	"github.com/tribe-health/growthbook/internal/models"
	"github.com/tribe-health/growthbook/internal/secrets"
	"github.com/tribe-health/growthbook/internal/taglist"
)

// fileConfig is the shape of the static config file used in file-config mode.
// Data sources are keyed by their id; params are written in plaintext and
// encrypted into memory at load so the rest of the service stays mode-agnostic.
type fileConfig struct {
	DataSources map[string]fileDataSource `yaml:"datasources"`
}

type fileDataSource struct {
	Organization string                 `yaml:"organization"`
	Name         string                 `yaml:"name"`
	Type         string                 `yaml:"type"`
	Description  string                 `yaml:"description"`
	Projects     []string               `yaml:"projects"`
	Params       map[string]interface{} `yaml:"params"`
	Settings     map[string]interface{} `yaml:"settings"`
}

// FileStore serves data sources parsed from a static config file. All reads work
// normally; every mutation fails immediately with ErrReadOnly.
type FileStore struct {
	sources []models.DataSource
}

// LoadFileStore parses and validates the config file at path. Settings are
// upgraded once at load time, which keeps reads equivalent to the database mode
// where the upgrade runs on every read.
func LoadFileStore(path string, cipher *secrets.Cipher) (*FileStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	now := time.Now().UTC()
	seenNames := make(map[string]bool)
	sources := make([]models.DataSource, 0, len(cfg.DataSources))
	for id, src := range cfg.DataSources {
		if src.Organization == "" {
			return nil, fmt.Errorf("datasource %q: organization is required", id)
		}
		if src.Name == "" {
			return nil, fmt.Errorf("datasource %q: name is required", id)
		}
		if !models.ValidSourceTypes[src.Type] {
			return nil, fmt.Errorf("datasource %q: unsupported type %q", id, src.Type)
		}
		nameKey := src.Organization + "\x00" + src.Name
		if seenNames[nameKey] {
			return nil, fmt.Errorf("datasource %q: duplicate name %q in organization %q", id, src.Name, src.Organization)
		}
		seenNames[nameKey] = true

		paramsJSON, err := json.Marshal(src.Params)
		if err != nil {
			return nil, fmt.Errorf("datasource %q: failed to encode params: %w", id, err)
		}
		if err := connectors.Validate(src.Type, paramsJSON); err != nil {
			return nil, fmt.Errorf("datasource %q: %w", id, err)
		}
		encrypted, err := cipher.Encrypt(paramsJSON)
		if err != nil {
			return nil, fmt.Errorf("datasource %q: failed to encrypt params: %w", id, err)
		}

		var settings models.Settings
		if src.Settings != nil {
			settingsJSON, err := json.Marshal(src.Settings)
			if err != nil {
				return nil, fmt.Errorf("datasource %q: failed to encode settings: %w", id, err)
			}
			if err := json.Unmarshal(settingsJSON, &settings); err != nil {
				return nil, fmt.Errorf("datasource %q: invalid settings: %w", id, err)
			}
		}
		models.UpgradeSettings(src.Type, &settings)

		sources = append(sources, models.DataSource{
			ID:              id,
			Organization:    src.Organization,
			Name:            src.Name,
			Type:            src.Type,
			Description:     src.Description,
			Projects:        models.StringList(taglist.Normalize(src.Projects...)),
			Settings:        settings,
			EncryptedParams: encrypted,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].ID < sources[j].ID })
	return &FileStore{sources: sources}, nil
}

// ListByOrganization returns the organization's data sources from the config file.
func (s *FileStore) ListByOrganization(ctx context.Context, org string, opts ListOptions) ([]models.DataSource, error) {
	matched := make([]models.DataSource, 0)
	for _, ds := range s.sources {
		if ds.Organization == org {
			matched = append(matched, ds)
		}
	}

	sortSources(matched, opts)

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []models.DataSource{}, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// ListAll returns every data source from the config file.
func (s *FileStore) ListAll(ctx context.Context) ([]models.DataSource, error) {
	out := make([]models.DataSource, len(s.sources))
	copy(out, s.sources)
	return out, nil
}

// Get returns one data source scoped by organization.
func (s *FileStore) Get(ctx context.Context, org, id string) (models.DataSource, error) {
	for _, ds := range s.sources {
		if ds.Organization == org && ds.ID == id {
			return ds, nil
		}
	}
	return models.DataSource{}, ErrNotFound
}

// ReadOnly implements Store. File-config mode rejects every mutation.
func (s *FileStore) ReadOnly() bool {
	return true
}

// Create is rejected in file-config mode.
func (s *FileStore) Create(ctx context.Context, ds models.DataSource) (models.DataSource, error) {
	return models.DataSource{}, ErrReadOnly
}

// Update is rejected in file-config mode.
func (s *FileStore) Update(ctx context.Context, ds models.DataSource) (models.DataSource, error) {
	return models.DataSource{}, ErrReadOnly
}

// Delete is rejected in file-config mode.
func (s *FileStore) Delete(ctx context.Context, org, id string) error {
	return ErrReadOnly
}

func sortSources(sources []models.DataSource, opts ListOptions) {
	desc := strings.EqualFold(opts.SortOrder, "desc")
	less := func(i, j int) bool {
		var cmp bool
		switch opts.SortBy {
		case "name":
			cmp = sources[i].Name < sources[j].Name
		case "updated_at":
			cmp = sources[i].UpdatedAt.Before(sources[j].UpdatedAt)
		default: // created_at
			cmp = sources[i].CreatedAt.Before(sources[j].CreatedAt)
		}
		return cmp
	}
	if desc {
		sort.SliceStable(sources, func(i, j int) bool { return less(j, i) })
	} else {
		sort.SliceStable(sources, less)
	}
}
