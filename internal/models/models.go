package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ValidSourceTypes defines the supported analytics backends a data source can point at.
var ValidSourceTypes = map[string]bool{
	"postgres":         true,
	"mysql":            true,
	"redshift":         true,
	"bigquery":         true,
	"snowflake":        true,
	"clickhouse":       true,
	"athena":           true,
	"mixpanel":         true,
	"google_analytics": true,
}

// SQLSourceTypes marks the source types that are queried with SQL. Only these
// carry exposure queries in their settings.
var SQLSourceTypes = map[string]bool{
	"postgres":   true,
	"mysql":      true,
	"redshift":   true,
	"bigquery":   true,
	"snowflake":  true,
	"clickhouse": true,
	"athena":     true,
}

// DataSource represents a configured connection to an external analytics backend.
// Connection parameters are encrypted at rest and never serialized to API responses.
// @Description DataSource represents a configured connection to an external analytics backend.
type DataSource struct {
	ID              string     `json:"id" gorm:"type:varchar(64);primaryKey;uniqueIndex:idx_org_source"`
	Organization    string     `json:"organization" gorm:"type:varchar(64);not null;uniqueIndex:idx_org_source;uniqueIndex:idx_org_source_name"`
	Name            string     `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_org_source_name"`
	Type            string     `json:"type" gorm:"type:varchar(50);not null"`
	Description     string     `json:"description,omitempty" gorm:"type:text"`
	Projects        StringList `json:"projects,omitempty" gorm:"type:text"`
	Settings        Settings   `json:"settings" gorm:"type:text"`
	EncryptedParams string     `json:"-" gorm:"type:text"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// DataSourceResponse is the API view of a data source. Params are present only on
// single-resource reads and always pass through connectors.Redact first.
type DataSourceResponse struct {
	DataSource
	Params map[string]interface{} `json:"params,omitempty"`
}

// StringList stores an ordered list of strings as a JSON column.
type StringList []string

// Value implements driver.Valuer for GORM.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for GORM.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// CreateDataSourceRequest defines the request payload for creating a data source.
type CreateDataSourceRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=255"`
	Type        string          `json:"type" binding:"required,oneof=postgres mysql redshift bigquery snowflake clickhouse athena mixpanel google_analytics"`
	Description string          `json:"description,omitempty" binding:"max=1000"`
	Projects    []string        `json:"projects,omitempty"`
	Params      json.RawMessage `json:"params" binding:"required"`
	Settings    *Settings       `json:"settings,omitempty"`
}

// UpdateDataSourceRequest defines the request payload for partially updating a data
// source. Pointer fields distinguish "not provided" from zero values. The source
// type is fixed at creation and cannot be changed.
type UpdateDataSourceRequest struct {
	Name        *string         `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string         `json:"description,omitempty" binding:"omitempty,max=1000"`
	Projects    *[]string       `json:"projects,omitempty"`
	Params      json.RawMessage `json:"params,omitempty"`
	Settings    *Settings       `json:"settings,omitempty"`
}
