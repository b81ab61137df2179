package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")
)

const envPrefix = "STOREFRONT_"

// Storage drivers for client cart and theme data.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Health    HealthConfig    `yaml:"health"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
	Admin     AdminConfig     `yaml:"admin"`
	Store     StoreConfig     `yaml:"store"`
}

type HTTPConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type HealthConfig struct {
	GRPCAddr string `yaml:"grpc_addr"`
}

// DatabaseConfig points at the catalog and orders database. An empty URL runs the
// service without a backend: reads come back empty and writes fail.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type StorageConfig struct {
	Driver     string        `yaml:"driver"`
	RedisAddr  string        `yaml:"redis_addr"`
	RedisTTL   time.Duration `yaml:"redis_ttl"`
	SQLitePath string        `yaml:"sqlite_path"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type TelemetryConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AdminConfig protects the back-office routes. Without a token they answer 503 unless
// Insecure explicitly opens them, which is meant for local development only.
type AdminConfig struct {
	Token    string `yaml:"token"`
	Insecure bool   `yaml:"insecure"`
}

type StoreConfig struct {
	Name             string        `yaml:"name"`
	Currency         string        `yaml:"currency"`
	WhatsAppPhone    string        `yaml:"whatsapp_phone"`
	CustomerName     string        `yaml:"customer_name"`
	Timezone         string        `yaml:"timezone"`
	EnforceInventory bool          `yaml:"enforce_inventory"`
	SessionIdle      time.Duration `yaml:"session_idle"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Health: HealthConfig{GRPCAddr: ":9090"},
		Storage: StorageConfig{
			Driver:     StorageMemory,
			RedisTTL:   30 * 24 * time.Hour,
			SQLitePath: "storefront.db",
		},
		Kafka:     KafkaConfig{Topic: "orders.placed"},
		Telemetry: TelemetryConfig{SampleRatio: 1},
		Log:       LogConfig{Level: "info", Format: "json"},
		Store: StoreConfig{
			Name:          "M.A Online Store",
			Currency:      "UGX",
			WhatsAppPhone: "256741068782",
			CustomerName:  "Customer",
			Timezone:      "Africa/Kampala",
			SessionIdle:   2 * time.Hour,
		},
	}
}

// Load reads defaults, then the YAML file at path when path is not empty, then STOREFRONT_* variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("os.ReadFile: %w", err)
		}
		if err := decode(bytes.NewReader(data), &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("yaml decode: %v: %w", err, ErrInvalidConfiguration)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"HTTP_ADDR":      &c.HTTP.Addr,
		"GRPC_ADDR":      &c.Health.GRPCAddr,
		"DATABASE_URL":   &c.Database.URL,
		"STORAGE_DRIVER": &c.Storage.Driver,
		"REDIS_ADDR":     &c.Storage.RedisAddr,
		"SQLITE_PATH":    &c.Storage.SQLitePath,
		"KAFKA_TOPIC":    &c.Kafka.Topic,
		"OTLP_ENDPOINT":  &c.Telemetry.Endpoint,
		"LOG_LEVEL":      &c.Log.Level,
		"LOG_FORMAT":     &c.Log.Format,
		"ADMIN_TOKEN":    &c.Admin.Token,
		"STORE_NAME":     &c.Store.Name,
		"CURRENCY":       &c.Store.Currency,
		"WHATSAPP_PHONE": &c.Store.WhatsAppPhone,
		"TIMEZONE":       &c.Store.Timezone,
	}
	for key, dst := range strs {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup(envPrefix + "KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = nil
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				c.Kafka.Brokers = append(c.Kafka.Brokers, b)
			}
		}
	}

	bools := map[string]*bool{
		"ENFORCE_INVENTORY": &c.Store.EnforceInventory,
		"ADMIN_INSECURE":    &c.Admin.Insecure,
	}
	for key, dst := range bools {
		v, ok := lookup(envPrefix + key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s %q: %w", envPrefix, key, v, ErrInvalidConfiguration)
		}
		*dst = parsed
	}

	return nil
}

func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required: %w", ErrMissingConfiguration)
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis driver: %w", ErrMissingConfiguration)
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite driver: %w", ErrMissingConfiguration)
		}
	case StoragePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the postgres driver: %w", ErrMissingConfiguration)
		}
	default:
		return fmt.Errorf("storage.driver %q: %w", c.Storage.Driver, ErrInvalidConfiguration)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio %v must be within [0, 1]: %w", c.Telemetry.SampleRatio, ErrInvalidConfiguration)
	}

	if _, err := currency.ParseISO(c.Store.Currency); err != nil {
		return fmt.Errorf("store.currency %q: %w", c.Store.Currency, ErrInvalidConfiguration)
	}

	if _, err := time.LoadLocation(c.Store.Timezone); err != nil {
		return fmt.Errorf("store.timezone %q: %w", c.Store.Timezone, ErrInvalidConfiguration)
	}

	if !strings.ContainsAny(c.Store.WhatsAppPhone, "0123456789") {
		return fmt.Errorf("store.whatsapp_phone is required: %w", ErrMissingConfiguration)
	}

	if c.Store.SessionIdle <= 0 {
		return fmt.Errorf("store.session_idle must be positive: %w", ErrInvalidConfiguration)
	}

	return nil
}

// Currency is the parsed store currency. Call only on a validated config.
func (c Config) Currency() currency.Unit {
	return currency.MustParseISO(c.Store.Currency)
}

// Location is the store time zone. Call only on a validated config.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Store.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
