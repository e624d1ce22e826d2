package connectors

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Postgres(t *testing.T) {
	params := json.RawMessage(`{"host":"db.internal","user":"gb","password":"pw","database":"analytics"}`)
	assert.NoError(t, Validate("postgres", params))
}

func TestValidate_PostgresMissingFields(t *testing.T) {
	params := json.RawMessage(`{"host":"db.internal"}`)
	err := Validate("postgres", params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required connection params")
}

func TestValidate_Bigquery(t *testing.T) {
	params := json.RawMessage(`{"project_id":"acme","dataset":"events","credentials_json":"{}"}`)
	assert.NoError(t, Validate("bigquery", params))
}

func TestValidate_MixpanelMissingSecret(t *testing.T) {
	params := json.RawMessage(`{"project_id":"12345"}`)
	err := Validate("mixpanel", params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_secret")
}

func TestValidate_UnsupportedType(t *testing.T) {
	err := Validate("fax_machine", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported data source type")
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate("postgres", json.RawMessage(`{not json`))
	assert.Error(t, err)
}

func TestTest_ValidateOnlyTypesPass(t *testing.T) {
	ctx := context.Background()
	params := json.RawMessage(`{"project_id":"acme","dataset":"events","credentials_json":"{}"}`)
	assert.NoError(t, Test(ctx, "bigquery", params))

	params = json.RawMessage(`{"account":"acme","user":"gb","password":"pw","database":"analytics"}`)
	assert.NoError(t, Test(ctx, "snowflake", params))
}

func TestTest_PostgresUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Port 1 is never listening; the probe must fail rather than succeed silently.
	params := json.RawMessage(`{"host":"127.0.0.1","port":1,"user":"gb","password":"pw","database":"analytics"}`)
	err := Test(ctx, "postgres", params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
}

func TestTest_InvalidParamsFailBeforeDialing(t *testing.T) {
	err := Test(context.Background(), "mysql", json.RawMessage(`{"host":"db"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required connection params")
}

func TestRedact_MasksSecrets(t *testing.T) {
	raw := json.RawMessage(`{"host":"db.internal","user":"gb","password":"hunter2","api_secret":"s3cr3t"}`)
	redacted, err := Redact(raw)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", redacted["host"])
	assert.Equal(t, "gb", redacted["user"])
	assert.Equal(t, "********", redacted["password"])
	assert.Equal(t, "********", redacted["api_secret"])
}

func TestRedact_LeavesEmptySecretsAlone(t *testing.T) {
	raw := json.RawMessage(`{"host":"db.internal","password":""}`)
	redacted, err := Redact(raw)
	require.NoError(t, err)
	assert.Equal(t, "", redacted["password"])
}
