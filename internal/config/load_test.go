package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory holding a configs/ folder
func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "configs"), 0755))

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = os.Chdir(originalWD)
	})
	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

func writeEnvFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", name+".env"), []byte(content), 0644))
}

func TestLoadConfig_HappyPath(t *testing.T) {
	dir := chdirTemp(t)
	writeEnvFile(t, dir, "test_happy", "APP_NAME=TestApp\n"+
		"SERVER_PORT=9090\n"+
		"LOG_LEVEL=debug\n"+
		"LOG_FORMAT=text\n"+
		"KAFKA_BROKERS=kafka1:9092,kafka2:9092\n"+
		"STORAGE_DATA_DIR=/var/lib/ledger\n"+
		"BANK_ANNUAL_INTEREST_RATE=0.06\n")

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "TestApp", cfg.Application.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "kafka1:9092,kafka2:9092", cfg.Kafka.Brokers)
	assert.Equal(t, "/var/lib/ledger", cfg.Storage.DataDir)
	assert.True(t, cfg.Bank.AnnualInterestRate.Equal(decimal.RequireFromString("0.06")))

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "ledger_commands", cfg.Kafka.CommandTopic)
	assert.Equal(t, 10, cfg.WorkerPool.Size)

	cfgWithName, err := LoadConfigWithName("configs/test_happy")
	require.NoError(t, err)
	assert.Equal(t, "TestApp", cfgWithName.Application.Name)
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("missing")
	require.NoError(t, err)

	assert.True(t, cfg.Bank.AnnualInterestRate.Equal(decimal.RequireFromString("0.03")))
	assert.Equal(t, 2003, cfg.Bank.AccountNumberSeed)
	assert.Equal(t, "pass", cfg.Bank.InitialPasswordPrefix)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "record_tables", cfg.MongoDB.Collection)
}

func TestLoadConfig_InvalidInterestRate(t *testing.T) {
	dir := chdirTemp(t)
	writeEnvFile(t, dir, "bad_rate", "BANK_ANNUAL_INTEREST_RATE=three percent\n")

	_, err := LoadConfig("bad_rate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BANK_ANNUAL_INTEREST_RATE")
}

func TestConfig_Validate(t *testing.T) {
	chdirTemp(t)
	base, err := LoadConfig("missing")
	require.NoError(t, err)

	t.Run("DefaultsAreValid", func(t *testing.T) {
		cfg := *base
		assert.NoError(t, cfg.validate())
	})

	t.Run("UnusedBackendSettingsIgnored", func(t *testing.T) {
		cfg := *base
		cfg.Postgres.URL = ""
		cfg.MongoDB.URI = ""
		assert.NoError(t, cfg.validate())
	})

	t.Run("SelectedPostgresBackendValidated", func(t *testing.T) {
		cfg := *base
		cfg.Storage.Backend = BackendPostgres
		cfg.Postgres.URL = ""
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POSTGRES_URL is required")
	})

	t.Run("SelectedMongoBackendValidated", func(t *testing.T) {
		cfg := *base
		cfg.Storage.Backend = BackendMongo
		cfg.MongoDB.Database = ""
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MONGO_DATABASE is required")
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		cfg := *base
		cfg.Storage.Backend = "s3"
		assert.ErrorContains(t, cfg.validate(), "STORAGE_BACKEND")
	})

	t.Run("JoinsAllMessages", func(t *testing.T) {
		cfg := *base
		cfg.Server.Port = 0
		cfg.Bank.AnnualInterestRate = decimal.NewFromInt(-1)
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SERVER_PORT must be greater than 0")
		assert.Contains(t, err.Error(), "BANK_ANNUAL_INTEREST_RATE must not be negative")
	})
}
