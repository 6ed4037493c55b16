package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/bytecodeman/addressesapi/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App        AppSettings        `yaml:"app"`
	Server     ServerSettings     `yaml:"server"`
	Database   DatabaseSettings   `yaml:"database"`
	Auth       AuthSettings       `yaml:"auth"`
	Pagination PaginationSettings `yaml:"pagination"`
	Profanity  ProfanitySettings  `yaml:"profanity"`
	Logging    LoggingSettings    `yaml:"logging"`
	CORS       CORSSettings       `yaml:"cors"`
	Metrics    MetricsSettings    `yaml:"metrics"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// ServerSettings contains HTTP server settings.
// BasePath is the prefix every route is mounted under; an empty value mounts at the root.
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT,PORT"`
	BasePath        string        `yaml:"base_path" env:"SERVER_BASE_PATH"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	Name     string `yaml:"name" env:"DB_NAME,DB_DATABASE"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSLMODE"`
	MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
}

// AuthSettings holds the single shared credential guarding the API.
// PasswordHash, when set, is a bcrypt hash that takes precedence over Password.
type AuthSettings struct {
	Username     string   `yaml:"username" env:"AUTH_USERNAME"`
	Password     string   `yaml:"password" env:"AUTH_PASSWORD"`
	PasswordHash string   `yaml:"password_hash" env:"AUTH_PASSWORD_HASH"`
	PublicPaths  []string `yaml:"public_paths" env:"AUTH_PUBLIC_PATHS"`
}

// PaginationSettings controls list paging.
// MaxLimit of -1 disables the upper bound on the page size.
type PaginationSettings struct {
	DefaultLimit int `yaml:"default_limit" env:"PAGINATION_DEFAULT_LIMIT"`
	MaxLimit     int `yaml:"max_limit" env:"PAGINATION_MAX_LIMIT"`
}

// ProfanitySettings controls the free-text content filter
type ProfanitySettings struct {
	Enabled   *bool  `yaml:"enabled" env:"PROFANITY_ENABLED"`
	WordsFile string `yaml:"words_file" env:"PROFANITY_WORDS_FILE"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// MetricsSettings controls the Prometheus endpoint
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Path    string `yaml:"path" env:"METRICS_PATH"`
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

// IsEnabled reports whether the profanity filter is on. It defaults to true.
func (ps *ProfanitySettings) IsEnabled() bool {
	return ps.Enabled == nil || *ps.Enabled
}

// Load loads the configuration from a config file and environment variables.
// A missing file is not an error; environment variables and defaults fill the gaps.
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logConfig(config)

	return config, nil
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	// App defaults
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = constants.DefaultAppName
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	// Server defaults
	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.IdleTimeout == 0 {
		config.Server.IdleTimeout = constants.DefaultIdleTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}
	config.Server.BasePath = normalizeBasePath(config.Server.BasePath)

	// Database defaults
	if config.Database.Driver == "" {
		config.Database.Driver = constants.DriverMySQL
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = constants.DefaultDBPort
		if strings.EqualFold(config.Database.Driver, constants.DriverPostgres) {
			config.Database.Port = constants.DefaultPostgresPort
		}
	}
	if config.Database.SSLMode == "" {
		config.Database.SSLMode = "disable"
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	// Auth defaults
	if config.Auth.PublicPaths == nil {
		config.Auth.PublicPaths = append([]string(nil), constants.DefaultPublicPaths...)
	}

	// Pagination defaults
	if config.Pagination.DefaultLimit <= 0 {
		config.Pagination.DefaultLimit = constants.DefaultPageSize
	}
	if config.Pagination.MaxLimit == 0 {
		config.Pagination.MaxLimit = constants.DefaultMaxPageSize
	}

	// Logging defaults
	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	// CORS defaults
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}

	// Metrics defaults
	if config.Metrics.Path == "" {
		config.Metrics.Path = constants.DefaultMetricsPath
	}
}

// normalizeBasePath makes the base path start with a slash and drops any trailing slash.
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	// The API cannot start without a credential to check requests against
	if config.Auth.Username == "" {
		return fmt.Errorf("auth username must be set")
	}
	if config.Auth.Password == "" && config.Auth.PasswordHash == "" {
		return fmt.Errorf("auth password or password_hash must be set")
	}

	driver := strings.ToLower(config.Database.Driver)
	if driver != constants.DriverMySQL && driver != constants.DriverPostgres {
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}
	config.Database.Driver = driver

	if config.Database.User == "" {
		return fmt.Errorf("database user must be set")
	}
	if config.Database.Name == "" {
		return fmt.Errorf("database name must be set")
	}
	if config.Database.MinConns > config.Database.MaxConns {
		return fmt.Errorf("database min_conns (%d) exceeds max_conns (%d)", config.Database.MinConns, config.Database.MaxConns)
	}

	if config.Pagination.MaxLimit != constants.UnlimitedPageSize && config.Pagination.MaxLimit < 1 {
		return fmt.Errorf("pagination max_limit must be positive or %d", constants.UnlimitedPageSize)
	}
	if config.Pagination.MaxLimit != constants.UnlimitedPageSize && config.Pagination.DefaultLimit > config.Pagination.MaxLimit {
		return fmt.Errorf("pagination default_limit (%d) exceeds max_limit (%d)", config.Pagination.DefaultLimit, config.Pagination.MaxLimit)
	}

	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("base_path", config.Server.BasePath).
		Str("db_driver", config.Database.Driver).
		Str("db_host", config.Database.Host).
		Int("db_port", config.Database.Port).
		Str("db_name", config.Database.Name).
		Str("db_password", redact(config.Database.Password)).
		Str("auth_user", config.Auth.Username).
		Str("auth_password", redact(config.Auth.Password+config.Auth.PasswordHash)).
		Bool("profanity_filter", config.Profanity.IsEnabled()).
		Int("max_page_size", config.Pagination.MaxLimit).
		Str("log_level", config.Logging.Level).
		Msg("Configuration loaded")
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return constants.LogRedactedValue
}
