package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	JWT         JWTConfig         `yaml:"jwt"`
	Storage     StorageConfig     `yaml:"storage"`
	Log         LogConfig         `yaml:"log"`
	Reservation ReservationConfig `yaml:"reservation"`
	Push        PushConfig        `yaml:"push"`
	Email       EmailConfig       `yaml:"email"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// ServerConfig contains listener settings for the HTTP and gRPC servers
type ServerConfig struct {
	Host     string `yaml:"host"`
	HTTPPort int    `yaml:"http_port"`
	GRPCPort int    `yaml:"grpc_port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// StorageConfig contains product image storage settings
type StorageConfig struct {
	UploadDir    string   `yaml:"upload_dir"`
	BaseURL      string   `yaml:"base_url"` // public URL prefix for stored images
	MaxFileSize  int64    `yaml:"max_file_size_mb"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// ReservationConfig holds the business rules of the reservation form
type ReservationConfig struct {
	MaxDays  int    `yaml:"max_days"`
	Timezone string `yaml:"timezone"` // location used to decide what "today" is
}

// PushConfig selects and configures the push notification provider
type PushConfig struct {
	Provider        string  `yaml:"provider"` // "log" or "fcm"
	CredentialsFile string  `yaml:"credentials_file"`
	ProjectID       string  `yaml:"project_id"`
	BatchSize       int     `yaml:"batch_size"`
	RatePerSecond   float64 `yaml:"rate_per_second"`
}

// EmailConfig contains SendGrid settings. An empty API key disables email.
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	FinishExpiredReservations  string `yaml:"finish_expired_reservations"`
	RemindUpcomingReservations string `yaml:"remind_upcoming_reservations"`
}

// MetricsConfig contains Prometheus exposition settings
type MetricsConfig struct {
	Path string `yaml:"path"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes, applies environment overrides and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.overrideWithEnv(); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// envInt parses an integer environment variable into dst when it is set.
func envInt(name string, dst *int) error {
	val := os.Getenv(name)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fmt.Errorf("%s must be an integer, got %q", name, val)
	}
	*dst = n
	return nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() error {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if err := envInt("DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if err := envInt("SERVER_HTTP_PORT", &c.Server.HTTPPort); err != nil {
		return err
	}
	if err := envInt("SERVER_GRPC_PORT", &c.Server.GRPCPort); err != nil {
		return err
	}

	// Storage
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Reservation rules
	if err := envInt("RESERVATION_MAX_DAYS", &c.Reservation.MaxDays); err != nil {
		return err
	}

	// Integrations
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Push.CredentialsFile = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	return nil
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.Server.HTTPPort)
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = c.Server.HTTPPort + 1
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 || c.Server.GRPCPort == c.Server.HTTPPort {
		return fmt.Errorf("invalid grpc port: %d", c.Server.GRPCPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 7 * 24 * 60
	}

	if c.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if c.Storage.MaxFileSize == 0 {
		c.Storage.MaxFileSize = 5
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}

	if c.Reservation.MaxDays == 0 {
		c.Reservation.MaxDays = 30
	}
	if c.Reservation.MaxDays < 1 {
		return fmt.Errorf("reservation max_days must be positive: %d", c.Reservation.MaxDays)
	}
	if c.Reservation.Timezone == "" {
		c.Reservation.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(c.Reservation.Timezone); err != nil {
		return fmt.Errorf("invalid reservation timezone %q: %w", c.Reservation.Timezone, err)
	}

	c.Push.Provider = strings.ToLower(c.Push.Provider)
	switch c.Push.Provider {
	case "":
		c.Push.Provider = "log"
	case "log":
	case "fcm":
		if c.Push.CredentialsFile == "" {
			return fmt.Errorf("push credentials file is required for the fcm provider")
		}
	default:
		return fmt.Errorf("unsupported push provider: %s", c.Push.Provider)
	}
	if c.Push.BatchSize == 0 {
		c.Push.BatchSize = 80
	}
	if c.Push.RatePerSecond == 0 {
		c.Push.RatePerSecond = 10
	}

	if c.Email.FromName == "" {
		c.Email.FromName = "Skirent"
	}
	if c.Email.SendGridAPIKey != "" && c.Email.FromEmail == "" {
		return fmt.Errorf("email from address is required when SendGrid is enabled")
	}

	if c.Scheduler.FinishExpiredReservations == "" {
		c.Scheduler.FinishExpiredReservations = "0 5 0 * * *" // 00:05 daily
	}
	if c.Scheduler.RemindUpcomingReservations == "" {
		c.Scheduler.RemindUpcomingReservations = "0 0 18 * * *" // 18:00 daily
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	return nil
}

// Location returns the time zone reservations are evaluated in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reservation.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetHTTPAddress returns the REST server address
func (c *Config) GetHTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// GetGRPCAddress returns the gRPC server address
func (c *Config) GetGRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}
