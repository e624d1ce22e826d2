package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IdentifierType names one kind of unit an experiment can be keyed on, e.g. a
// logged-in user id or an anonymous device id.
type IdentifierType struct {
	UserIDType  string `json:"user_id_type"`
	Description string `json:"description,omitempty"`
}

// ExposureQuery defines how to pull experiment exposure rows for one identifier type.
type ExposureQuery struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	UserIDType string   `json:"user_id_type"`
	Query      string   `json:"query"`
	Dimensions []string `json:"dimensions"`
}

// QuerySettings holds the SQL configuration of a warehouse-backed data source.
// ExperimentsQuery is the legacy single-query field, superseded by Exposure.
type QuerySettings struct {
	ExperimentsQuery string          `json:"experiments_query,omitempty"`
	Exposure         []ExposureQuery `json:"exposure,omitempty"`
}

// EventSettings holds the event/property names used by tracker-backed data sources.
type EventSettings struct {
	ExperimentEvent      string `json:"experiment_event,omitempty"`
	ExperimentIDProperty string `json:"experiment_id_property,omitempty"`
	VariationIDProperty  string `json:"variation_id_property,omitempty"`
}

// Settings is the free-form, informally versioned settings bundle of a data source.
// Older records may be missing fields that newer code expects; UpgradeSettings fills
// those in lazily on every read instead of via a migration pass.
type Settings struct {
	IdentifierTypes []IdentifierType `json:"identifier_types,omitempty"`
	Queries         *QuerySettings   `json:"queries,omitempty"`
	Events          *EventSettings   `json:"events,omitempty"`
}

// Value implements driver.Valuer for GORM.
func (s Settings) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for GORM.
func (s *Settings) Scan(value interface{}) error {
	if value == nil {
		*s = Settings{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into Settings", value)
	}
}

var defaultIdentifierTypes = []IdentifierType{
	{UserIDType: "user_id", Description: "Logged-in user id"},
	{UserIDType: "anonymous_id", Description: "Anonymous visitor id"},
}

var identifierDisplayNames = map[string]string{
	"user_id":      "Logged-in User Experiments",
	"anonymous_id": "Anonymous Visitor Experiments",
}

// UpgradeSettings performs the lazy, one-way schema migration of a settings bundle.
// It only ever fills in absent fields, so applying it repeatedly is a no-op after
// the first call:
//   - absent identifier types are synthesized with the platform defaults;
//   - on SQL-capable source types, absent exposure queries are derived from the
//     legacy experiments query (the SQL is copied verbatim, one query per
//     identifier type);
//   - on mixpanel sources, absent event settings get the standard event names.
func UpgradeSettings(sourceType string, s *Settings) {
	if s == nil {
		return
	}

	if len(s.IdentifierTypes) == 0 {
		s.IdentifierTypes = make([]IdentifierType, len(defaultIdentifierTypes))
		copy(s.IdentifierTypes, defaultIdentifierTypes)
	}

	if SQLSourceTypes[sourceType] && s.Queries != nil &&
		s.Queries.ExperimentsQuery != "" && len(s.Queries.Exposure) == 0 {
		for _, idType := range s.IdentifierTypes {
			name := identifierDisplayNames[idType.UserIDType]
			if name == "" {
				name = idType.UserIDType + " Experiments"
			}
			s.Queries.Exposure = append(s.Queries.Exposure, ExposureQuery{
				ID:         idType.UserIDType,
				Name:       name,
				UserIDType: idType.UserIDType,
				Query:      s.Queries.ExperimentsQuery,
				Dimensions: []string{},
			})
		}
	}

	if sourceType == "mixpanel" && s.Events == nil {
		s.Events = &EventSettings{
			ExperimentEvent:      "$experiment_started",
			ExperimentIDProperty: "Experiment name",
			VariationIDProperty:  "Variant name",
		}
	}
}
