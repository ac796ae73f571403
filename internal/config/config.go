package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // delivery time zones must resolve without system zoneinfo

	"furnistore/internal/geo"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	S3       S3Config
	Redis    RedisConfig
	Delivery DeliveryConfig
	Content  ContentConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// S3Config holds AWS S3 configuration for catalog and content documents.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "storefront/")
}

// RedisConfig holds the key-value store configuration.
type RedisConfig struct {
	URL          string
	SelectionTTL time.Duration
}

// DeliveryConfig holds the delivery planner inputs.
type DeliveryConfig struct {
	WarehouseLat        float64
	WarehouseLng        float64
	WarehousePostalCode string
	Timezone            string
	Locale              string
}

// ContentConfig locates the voucher catalog and storefront content documents.
type ContentConfig struct {
	VoucherKeys     []string
	ContentKey      string
	RefreshInterval time.Duration // 0 loads the document once
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	r := &envReader{k: k}
	cfg := &Config{
		Server: ServerConfig{
			Host:           r.getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           r.getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: r.getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:            r.getEnv("DB_HOST", "localhost"),
			Port:            r.getEnvAsInt("DB_PORT", 5432),
			User:            r.getEnv("DB_USER", "postgres"),
			Password:        r.getEnv("DB_PASSWORD", ""),
			Database:        r.getEnv("DB_NAME", "furnistore"),
			MaxConnections:  r.getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  r.getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: r.getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  r.getEnv("LOG_LEVEL", "info"),
			Format: r.getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: r.getEnv("API_KEY", ""),
		},
		S3: S3Config{
			Enabled: r.getEnvAsBool("S3_ENABLED", false),
			Bucket:  r.getEnv("S3_BUCKET", ""),
			Region:  r.getEnv("S3_REGION", "ap-south-1"),
			Prefix:  r.getEnv("S3_PREFIX", "storefront/"),
		},
		Redis: RedisConfig{
			URL:          r.getEnv("REDIS_URL", "redis://localhost:6379/0"),
			SelectionTTL: r.getEnvAsDuration("VOUCHER_SELECTION_TTL", 30*24*time.Hour),
		},
		Delivery: DeliveryConfig{
			WarehouseLat:        r.getEnvAsFloat("WAREHOUSE_LAT", 26.8467),
			WarehouseLng:        r.getEnvAsFloat("WAREHOUSE_LNG", 80.9462),
			WarehousePostalCode: r.getEnv("WAREHOUSE_PINCODE", "226001"),
			Timezone:            r.getEnv("DELIVERY_TIMEZONE", "Asia/Kolkata"),
			Locale:              r.getEnv("DELIVERY_LOCALE", "en_IN"),
		},
		Content: ContentConfig{
			VoucherKeys:     r.getEnvAsList("VOUCHER_FILES", []string{"data/vouchers/vouchers.json"}),
			ContentKey:      r.getEnv("CONTENT_FILE", "data/content/home.json"),
			RefreshInterval: r.getEnvAsDuration("CONTENT_REFRESH_INTERVAL", 5*time.Minute),
		},
	}

	if err := errors.Join(r.errs...); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("redis URL is required")
	}

	warehouse := geo.Coordinate{Latitude: c.Delivery.WarehouseLat, Longitude: c.Delivery.WarehouseLng}
	if err := warehouse.Validate(); err != nil {
		return fmt.Errorf("invalid warehouse coordinate: %w", err)
	}

	if _, err := time.LoadLocation(c.Delivery.Timezone); err != nil {
		return fmt.Errorf("invalid delivery timezone: %s", c.Delivery.Timezone)
	}

	if c.Delivery.Locale == "" {
		return fmt.Errorf("delivery locale is required")
	}

	if len(c.Content.VoucherKeys) == 0 {
		return fmt.Errorf("at least one voucher file is required")
	}

	if c.Content.ContentKey == "" {
		return fmt.Errorf("content file is required")
	}

	if c.Content.RefreshInterval < 0 {
		return fmt.Errorf("content refresh interval cannot be negative")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Location returns the delivery time zone. Validate has already checked it.
func (c *DeliveryConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// envReader reads typed values from the environment. A value that is set but
// does not parse is recorded instead of falling back to the default.
type envReader struct {
	k    *koanf.Koanf
	errs []error
}

func (r *envReader) invalid(key, value, want string) {
	r.errs = append(r.errs, fmt.Errorf("invalid %s %q: must be %s", key, value, want))
}

// getEnv retrieves an environment variable or returns a default value.
func (r *envReader) getEnv(key, defaultValue string) string {
	if value := r.k.String(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func (r *envReader) getEnvAsInt(key string, defaultValue int) int {
	value := strings.TrimSpace(r.k.String(key))
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		r.invalid(key, value, "an integer")
		return defaultValue
	}
	return intValue
}

func (r *envReader) getEnvAsFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(r.k.String(key))
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.invalid(key, value, "a decimal number")
		return defaultValue
	}
	return floatValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func (r *envReader) getEnvAsBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(r.k.String(key))
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		r.invalid(key, value, "true or false")
		return defaultValue
	}
	return boolValue
}

func (r *envReader) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(r.k.String(key))
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		r.invalid(key, value, "a duration such as 30s or 5m")
		return defaultValue
	}
	return d
}

// getEnvAsList splits a comma separated variable, dropping empty entries.
func (r *envReader) getEnvAsList(key string, defaultValue []string) []string {
	value := r.getEnv(key, "")
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
