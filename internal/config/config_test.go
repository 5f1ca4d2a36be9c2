package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Rules.StockThreshold)
	assert.Equal(t, 100.0, cfg.Rules.MaterialThreshold)
	assert.Equal(t, "DMC", cfg.Rules.InvoicePrefix)
	assert.Equal(t, time.Hour, cfg.Backup.CheckInterval)
	assert.Equal(t, DefaultBackupTables, cfg.Backup.Tables)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenExpire)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("STOCK_THRESHOLD", "25")
	t.Setenv("INVOICE_PREFIX", "INV")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 25.0, cfg.Rules.StockThreshold)
	assert.Equal(t, "INV", cfg.Rules.InvoicePrefix)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal port=6543")
	assert.Contains(t, cfg.Database.URL(), "@db.internal:6543/")
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("DMC_ERP_TEST_VALUE", "")
	assert.Equal(t, "fallback", GetEnvOrDefault("DMC_ERP_TEST_VALUE", "fallback"))

	t.Setenv("DMC_ERP_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnvOrDefault("DMC_ERP_TEST_VALUE", "fallback"))
}
