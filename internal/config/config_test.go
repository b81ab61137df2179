package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Empty(t, cfg.Admin.Token)
	assert.False(t, cfg.Admin.Insecure, "admin routes must be closed by default")
	assert.Equal(t, currency.MustParseISO("UGX"), cfg.Currency())
	assert.Equal(t, "Africa/Kampala", cfg.Location().String())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9000"
  shutdown_timeout: 3s
storage:
  driver: redis
  redis_addr: "localhost:6379"
  redis_ttl: 24h
kafka:
  brokers: ["a:9092"]
store:
  name: "Corner Shop"
  enforce_inventory: true
`), 0o600))

	t.Setenv("STOREFRONT_HTTP_ADDR", ":9100")
	t.Setenv("STOREFRONT_KAFKA_BROKERS", "b:9092, c:9092")
	t.Setenv("STOREFRONT_ENFORCE_INVENTORY", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Storage.RedisTTL)
	assert.Equal(t, []string{"b:9092", "c:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "orders.placed", cfg.Kafka.Topic)
	assert.Equal(t, "Corner Shop", cfg.Store.Name)
	assert.False(t, cfg.Store.EnforceInventory)
	assert.Equal(t, "Customer", cfg.Store.CustomerName)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("colour: blue\n"), 0o600))

	_, err := Load(unknown)
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	t.Setenv("STOREFRONT_ENFORCE_INVENTORY", "maybe")
	_, err = Load("")
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "empty http addr: error",
			mutate:  func(c *Config) { c.HTTP.Addr = "" },
			wantErr: ErrMissingConfiguration,
		},
		{
			name:    "unknown storage driver: error",
			mutate:  func(c *Config) { c.Storage.Driver = "etcd" },
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "redis without addr: error",
			mutate:  func(c *Config) { c.Storage.Driver = StorageRedis },
			wantErr: ErrMissingConfiguration,
		},
		{
			name:    "sqlite without path: error",
			mutate:  func(c *Config) { c.Storage.Driver = StorageSQLite; c.Storage.SQLitePath = "" },
			wantErr: ErrMissingConfiguration,
		},
		{
			name:    "postgres without database: error",
			mutate:  func(c *Config) { c.Storage.Driver = StoragePostgres },
			wantErr: ErrMissingConfiguration,
		},
		{
			name:    "bad currency: error",
			mutate:  func(c *Config) { c.Store.Currency = "XYZW" },
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "bad timezone: error",
			mutate:  func(c *Config) { c.Store.Timezone = "Mars/Olympus" },
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "no whatsapp phone: error",
			mutate:  func(c *Config) { c.Store.WhatsAppPhone = "+" },
			wantErr: ErrMissingConfiguration,
		},
		{
			name:    "sample ratio above one: error",
			mutate:  func(c *Config) { c.Telemetry.SampleRatio = 1.5 },
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "zero session idle: error",
			mutate:  func(c *Config) { c.Store.SessionIdle = 0 },
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:   "postgres with database: ok",
			mutate: func(c *Config) { c.Storage.Driver = StoragePostgres; c.Database.URL = "postgres://localhost/db" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STOREFRONT_DATABASE_URL":   "postgres://db",
		"STOREFRONT_STORAGE_DRIVER": "sqlite",
		"STOREFRONT_SQLITE_PATH":    " /tmp/cart.db ",
		"STOREFRONT_ADMIN_INSECURE": "true",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))

	assert.Equal(t, "postgres://db", cfg.Database.URL)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/cart.db", cfg.Storage.SQLitePath)
	assert.True(t, cfg.Admin.Insecure)
	assert.True(t, strings.HasPrefix(cfg.Store.Timezone, "Africa/"))
}
