// Package connectors knows the connection parameter shape of every supported
// data source type and how to check connectivity against the external backend.
package connectors

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver for connectivity probes
	_ "github.com/lib/pq"              // PostgreSQL driver for connectivity probes
)

// PostgresParams defines the connection details for PostgreSQL and Redshift
// sources (Redshift speaks the Postgres wire protocol).
type PostgresParams struct {
	Host     string `json:"host"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"ssl_mode,omitempty"` // e.g., "disable", "require", "verify-full"
}

// MySQLParams defines the connection details for MySQL sources.
type MySQLParams struct {
	Host     string `json:"host"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// BigQueryParams defines the connection details for BigQuery sources.
type BigQueryParams struct {
	ProjectID       string `json:"project_id"`
	Dataset         string `json:"dataset"`
	CredentialsJSON string `json:"credentials_json"`
}

// SnowflakeParams defines the connection details for Snowflake sources.
type SnowflakeParams struct {
	Account   string `json:"account"`
	User      string `json:"user"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	Schema    string `json:"schema,omitempty"`
	Warehouse string `json:"warehouse,omitempty"`
}

// ClickHouseParams defines the connection details for ClickHouse sources.
type ClickHouseParams struct {
	Host     string `json:"host"`
	Port     int    `json:"port,omitempty"` // HTTP interface port, defaults to 8123
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Database string `json:"database"`
}

// AthenaParams defines the connection details for Athena sources.
type AthenaParams struct {
	Region          string `json:"region"`
	Database        string `json:"database"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	ResultsBucket   string `json:"results_bucket"`
	WorkGroup       string `json:"work_group,omitempty"`
}

// MixpanelParams defines the connection details for Mixpanel sources.
type MixpanelParams struct {
	ProjectID string `json:"project_id"`
	APISecret string `json:"api_secret"`
}

// GoogleAnalyticsParams defines the connection details for Google Analytics sources.
type GoogleAnalyticsParams struct {
	ViewID          string `json:"view_id"`
	CredentialsJSON string `json:"credentials_json"`
}

// secretFields are masked by Redact before params are returned to API clients.
var secretFields = map[string]bool{
	"password":          true,
	"api_secret":        true,
	"credentials_json":  true,
	"secret_access_key": true,
}

const redactedValue = "********"

func missingFields(pairs map[string]string) error {
	var missing []string
	for field, value := range pairs {
		if value == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required connection params: %s", strings.Join(missing, ", "))
}

// Validate checks that the raw params decode to the shape required by the source
// type and that all required fields are present.
func Validate(sourceType string, raw json.RawMessage) error {
	switch sourceType {
	case "postgres", "redshift":
		var p PostgresParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("invalid %s params: %w", sourceType, err)
		}
		return missingFields(map[string]string{
			"host": p.Host, "user": p.User, "password": p.Password, "database": p.Database,
		})
	case "mysql":
		var p MySQLParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("invalid mysql params: %w", err)
		}
		return missingFields(map[string]string{
			"host": p.Host, "user": p.User, "password": p.Password, "database": p.Database,
		})
	case "bigquery":
		var p BigQueryParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("invalid bigquery params: %w", err)
		}
		return missingFields(map[string]string{
			"project_id": p.ProjectID, "dataset": p.Dataset, "credentials_json": p.CredentialsJSON,
		})
	case "snowflake":
		var p SnowflakeParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("invalid snowflake params: %w", err)
		}
		return missingFields(map[string]string{
			"account": p.Account, "user": p.User, "password": p.Password, "database": p.Database,
		})
	case "clickhouse":
		var p ClickHouseParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("invalid clickhouse params: %w", err)
		}
		return missingFields(map[string]string{
			"host": p.Host, "database": p.Database,
		})
	case "athena":
		var p AthenaParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("invalid athena params: %w", err)
		}
		return missingFields(map[string]string{
			"region": p.Region, "database": p.Database, "access_key_id": p.AccessKeyID,
			"secret_access_key": p.SecretAccessKey, "results_bucket": p.ResultsBucket,
		})
	case "mixpanel":
		var p MixpanelParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("invalid mixpanel params: %w", err)
		}
		return missingFields(map[string]string{
			"project_id": p.ProjectID, "api_secret": p.APISecret,
		})
	case "google_analytics":
		var p GoogleAnalyticsParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("invalid google_analytics params: %w", err)
		}
		return missingFields(map[string]string{
			"view_id": p.ViewID, "credentials_json": p.CredentialsJSON,
		})
	default:
		return fmt.Errorf("unsupported data source type %q", sourceType)
	}
}

// Test runs a live connectivity check against the external backend. Types without
// a driver in this service fall back to shape validation only, so creating such a
// source never fails on reachability.
func Test(ctx context.Context, sourceType string, raw json.RawMessage) error {
	if err := Validate(sourceType, raw); err != nil {
		return err
	}

	switch sourceType {
	case "postgres", "redshift":
		var p PostgresParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		if p.Port == 0 {
			p.Port = 5432
		}
		if p.SSLMode == "" {
			p.SSLMode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
		return pingSQL(ctx, "postgres", dsn)
	case "mysql":
		var p MySQLParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		if p.Port == 0 {
			p.Port = 3306
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", p.User, p.Password, p.Host, p.Port, p.Database)
		return pingSQL(ctx, "mysql", dsn)
	case "clickhouse":
		var p ClickHouseParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		if p.Port == 0 {
			p.Port = 8123
		}
		// ClickHouse exposes a /ping endpoint on its HTTP interface.
		return pingHTTP(ctx, fmt.Sprintf("http://%s:%d/ping", p.Host, p.Port))
	case "mixpanel":
		var p MixpanelParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://mixpanel.com/api/2.0/engage?limit=1", nil)
		if err != nil {
			return err
		}
		req.SetBasicAuth(p.APISecret, "")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("mixpanel API unreachable: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("mixpanel API rejected the provided api_secret (status %d)", resp.StatusCode)
		}
		return nil
	default:
		// bigquery, snowflake, athena, google_analytics: credentials are validated
		// for shape only; there is no live probe for these types in this service.
		return nil
	}
}

func pingSQL(ctx context.Context, driver, dsn string) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", driver, err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to %s backend: %w", driver, err)
	}
	return nil
}

func pingHTTP(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable at %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend at %s returned status %d", url, resp.StatusCode)
	}
	return nil
}

// Redact decodes params into a generic map and masks all secret fields. The
// result is safe to include in API responses.
func Redact(raw json.RawMessage) (map[string]interface{}, error) {
	var params map[string]interface{}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("failed to decode params: %w", err)
	}
	for field, value := range params {
		if !secretFields[field] {
			continue
		}
		if s, ok := value.(string); ok && s != "" {
			params[field] = redactedValue
		}
	}
	return params, nil
}
