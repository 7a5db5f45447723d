package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Storage  StorageConfig  `koanf:"storage"`
	Redis    RedisConfig    `koanf:"redis"`
	Auth     AuthConfig     `koanf:"auth"`
	Listing  ListingConfig  `koanf:"listing"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MigrationsPath  string        `koanf:"migrations_path"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string        `koanf:"host"`
	Port         string        `koanf:"port"`
	User         string        `koanf:"user"`
	Password     string        `koanf:"password"`
	Name         string        `koanf:"name"`
	SSLMode      string        `koanf:"sslmode"`
	MaxOpenConns int           `koanf:"max_open_conns"`
	MaxIdleConns int           `koanf:"max_idle_conns"`
	MaxLifetime  time.Duration `koanf:"max_lifetime"`
}

// StorageConfig holds cover image storage settings
type StorageConfig struct {
	Path         string `koanf:"path"` // BadgerDB directory, empty for in-memory
	Bucket       string `koanf:"bucket"`
	PublicURL    string `koanf:"public_url"`
	MaxImageSize int64  `koanf:"max_image_size"` // in bytes
	CacheControl string `koanf:"cache_control"`
}

// RedisConfig holds the listing cache settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

// AuthConfig holds bearer token verification settings
type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
	Issuer    string `koanf:"issuer"`
}

// ListingConfig holds pagination defaults
type ListingConfig struct {
	BatchSize int `koanf:"batch_size"`
	PageSize  int `koanf:"page_size"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "json" or "pretty"
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MigrationsPath:  "./migrations",
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Password:     "postgres",
			Name:         "article_cms",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
			MaxLifetime:  5 * time.Minute,
		},
		Storage: StorageConfig{
			Path:         "./data/blobs",
			Bucket:       "article-images",
			PublicURL:    "http://localhost:8080",
			MaxImageSize: 5 * 1024 * 1024, // 5MB
			CacheControl: "3600",
		},
		Redis: RedisConfig{
			TTL: 5 * time.Minute,
		},
		Listing: ListingConfig{
			BatchSize: 50,
			PageSize:  10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envMappings maps environment variable names onto koanf paths
var envMappings = map[string]string{
	"port":                    "server.port",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",
	"migrations_path":         "server.migrations_path",

	"db_host":           "database.host",
	"db_port":           "database.port",
	"db_user":           "database.user",
	"db_password":       "database.password",
	"db_name":           "database.name",
	"db_sslmode":        "database.sslmode",
	"db_max_open_conns": "database.max_open_conns",
	"db_max_idle_conns": "database.max_idle_conns",
	"db_max_lifetime":   "database.max_lifetime",

	"storage_path":           "storage.path",
	"storage_bucket":         "storage.bucket",
	"storage_public_url":     "storage.public_url",
	"storage_max_image_size": "storage.max_image_size",
	"storage_cache_control":  "storage.cache_control",

	"redis_addr":     "redis.addr",
	"redis_password": "redis.password",
	"redis_db":       "redis.db",
	"redis_ttl":      "redis.ttl",

	"jwt_secret": "auth.jwt_secret",
	"jwt_issuer": "auth.issuer",

	"listing_batch_size": "listing.batch_size",
	"listing_page_size":  "listing.page_size",

	"log_level":  "log.level",
	"log_format": "log.format",
}

// envTransformFunc returns the koanf path for a known variable, or "" to ignore it
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads configuration from defaults, an optional YAML file and environment variables,
// in increasing order of precedence
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}
	if c.Storage.MaxImageSize <= 0 {
		return fmt.Errorf("STORAGE_MAX_IMAGE_SIZE must be positive")
	}
	if c.Listing.BatchSize <= 0 || c.Listing.PageSize <= 0 {
		return fmt.Errorf("LISTING_BATCH_SIZE and LISTING_PAGE_SIZE must be positive")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
