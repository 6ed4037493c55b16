package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq" // Register the Postgres driver
	"github.com/rs/zerolog/log"

	"github.com/bytecodeman/addressesapi/internal/config"
	"github.com/bytecodeman/addressesapi/internal/constants"
)

// Pool represents a database connection pool together with the dialect it speaks.
type Pool struct {
	*sql.DB
	Dialect Dialect
}

// DSN builds the driver-specific connection string for the configured database.
func DSN(settings *config.DatabaseSettings) (string, error) {
	dialect, err := DialectFor(settings.Driver)
	if err != nil {
		return "", err
	}

	addr := net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))

	if dialect == Postgres {
		query := url.Values{}
		query.Set("sslmode", settings.SSLMode)
		query.Set("connect_timeout", strconv.Itoa(int(constants.DBConnectionTimeout.Seconds())))

		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(settings.User, settings.Password),
			Host:     addr,
			Path:     "/" + settings.Name,
			RawQuery: query.Encode(),
		}
		return u.String(), nil
	}

	mc := mysql.NewConfig()
	mc.User = settings.User
	mc.Passwd = settings.Password
	mc.Net = "tcp"
	mc.Addr = addr
	mc.DBName = settings.Name
	mc.ParseTime = true
	mc.Collation = "utf8mb4_unicode_ci"
	mc.Timeout = constants.DBConnectionTimeout
	// Report matched rather than changed rows, so an UPDATE that rewrites
	// identical values is not mistaken for a missing record.
	mc.ClientFoundRows = true

	return mc.FormatDSN(), nil
}

// Connect creates the process-wide database connection pool and verifies it is reachable.
func Connect(cfg *config.AppConfig) (*Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DBConnectionTimeout)
	defer cancel()

	dialect, err := DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("driver", dialect.DriverName()).
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Name).
		Str("user", cfg.Database.User).
		Msg("Connecting to database")

	dsn, err := DSN(&cfg.Database)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	configurePool(db, &cfg.Database)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to database")

	return &Pool{DB: db, Dialect: dialect}, nil
}

// configurePool applies the pool limits. Callers beyond MaxConns wait for a free connection.
func configurePool(db *sql.DB, settings *config.DatabaseSettings) {
	db.SetMaxOpenConns(settings.MaxConns)
	db.SetMaxIdleConns(settings.MinConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBConnMaxIdleTime)
}

// Close closes the database connection pool
func (p *Pool) Close() {
	if p != nil && p.DB != nil {
		log.Info().Msg("Closing database connection pool")
		if err := p.DB.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database connection pool")
		}
	}
}

// Rebind rewrites a ?-placeholder query for the pool's dialect.
func (p *Pool) Rebind(query string) string {
	return p.Dialect.Rebind(query)
}

// Transaction executes a function within a transaction.
// The transaction is rolled back if fn returns an error or panics.
func (p *Pool) Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction after panic")
			}
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// HealthCheck performs a health check on the database connection
func (p *Pool) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBHealthCheckTimeout)
	defer cancel()

	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := p.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query test failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("database returned unexpected result: %d", result)
	}

	return nil
}
