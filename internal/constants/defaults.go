// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide fallbacks for configuration settings and establish
// boundaries for resource usage.
package constants

// Default Pagination Values define the parameters used for paginated responses.
const (
	// DefaultPage is the page number used when the page query parameter is missing or invalid.
	DefaultPage = 1

	// DefaultPageSize is the page size used when the limit query parameter is missing or invalid.
	DefaultPageSize = 10

	// DefaultMaxPageSize caps the page size unless configuration overrides it.
	DefaultMaxPageSize = 100

	// UnlimitedPageSize disables the page size cap when used as the configured maximum.
	UnlimitedPageSize = -1
)

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 3000

	// DefaultDBPort is the default MySQL port.
	DefaultDBPort = 3306

	// DefaultPostgresPort is the default port when the postgres driver is selected.
	DefaultPostgresPort = 5432

	// DefaultDBMaxConnections is the default maximum number of open database connections.
	DefaultDBMaxConnections = 10

	// DefaultDBMinConnections is the default number of idle connections kept in the pool.
	DefaultDBMinConnections = 2

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultAppName is reported in logs and on the version endpoint.
	DefaultAppName = "addresses-api"

	// DefaultMetricsPath is where Prometheus metrics are exposed.
	DefaultMetricsPath = "/metrics"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment.
	EnvProduction = "production"
)

// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
const MaxRequestBodySize = 1048576 // 1MB
