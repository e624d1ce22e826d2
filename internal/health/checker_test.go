package health

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tribe-health/growthbook/internal/models"
	"github.com/tribe-health/growthbook/internal/secrets"
	"github.com/tribe-health/growthbook/internal/store"
)

func setupChecker(t *testing.T) (*Checker, *store.GormStore, *secrets.Cipher) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see its own empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.DataSource{}))

	cipher, err := secrets.NewCipher(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)

	st := store.NewGormStore(db)
	return NewChecker(st, cipher), st, cipher
}

func encryptParams(t *testing.T, cipher *secrets.Cipher, params map[string]interface{}) string {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	encrypted, err := cipher.Encrypt(raw)
	require.NoError(t, err)
	return encrypted
}

func TestCheckAllWithHealthySources(t *testing.T) {
	checker, st, cipher := setupChecker(t)
	ctx := context.Background()

	// bigquery has no live probe, so the check always passes for valid params.
	_, err := st.Create(ctx, models.DataSource{
		Organization: "org_acme",
		Name:         "Warehouse",
		Type:         "bigquery",
		EncryptedParams: encryptParams(t, cipher, map[string]interface{}{
			"project_id": "acme", "dataset": "events", "credentials_json": "{}",
		}),
	})
	require.NoError(t, err)

	assert.NoError(t, checker.CheckAll(ctx))
}

func TestCheckAllSurvivesBadRecords(t *testing.T) {
	checker, st, cipher := setupChecker(t)
	ctx := context.Background()

	// Undecryptable params must not abort the sweep.
	_, err := st.Create(ctx, models.DataSource{
		Organization:    "org_acme",
		Name:            "Corrupt",
		Type:            "bigquery",
		EncryptedParams: "not-a-ciphertext",
	})
	require.NoError(t, err)

	_, err = st.Create(ctx, models.DataSource{
		Organization: "org_acme",
		Name:         "Healthy",
		Type:         "snowflake",
		EncryptedParams: encryptParams(t, cipher, map[string]interface{}{
			"account": "acme", "user": "gb", "password": "pw", "database": "analytics",
		}),
	})
	require.NoError(t, err)

	assert.NoError(t, checker.CheckAll(ctx))
}

func TestCheckAllEmptyStore(t *testing.T) {
	checker, _, _ := setupChecker(t)
	assert.NoError(t, checker.CheckAll(context.Background()))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	checker, _, _ := setupChecker(t)
	assert.Error(t, checker.Start("not a cron expression"))
}

func TestStartAndStop(t *testing.T) {
	checker, _, _ := setupChecker(t)
	require.NoError(t, checker.Start("@hourly"))
	checker.Stop()
}
