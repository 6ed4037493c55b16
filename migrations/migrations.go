// Package migrations creates the database schema the API needs.
//
// Migrations are create-if-missing: each one is recorded in a migrations table
// once applied, and a table that already exists is recorded without being touched.
// A recorded migration whose table has since disappeared is run again.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/database"
)

// Migration represents a database migration.
// Each migration performs a specific schema change and is tracked
// to ensure it runs exactly once.
type Migration struct {
	// Name is a unique identifier for the migration
	Name string
	// Description is a human-readable explanation of what the migration does
	Description string
	// TableName is the table affected by this migration, used for existence checks
	TableName string
	// RunSQL executes the migration within a transaction using the dialect's DDL
	RunSQL func(ctx context.Context, tx *sql.Tx, dialect database.Dialect) error
}

// Migrator handles database migrations.
type Migrator struct {
	db         *database.Pool
	migrations []Migration
}

// NewMigrator creates a new migrator for the built-in migrations.
func NewMigrator(db *database.Pool) *Migrator {
	return &Migrator{
		db:         db,
		migrations: GetMigrations(),
	}
}

// RunMigrations runs all pending database migrations.
// It creates the migrations table if it doesn't exist, then creates every
// missing table and records every migration that hasn't been recorded yet.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Info().Str("dialect", m.db.Dialect.String()).Msg("Running database migrations")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, constants.DBMigrationTimeout)
	defer cancel()

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	executed, err := m.getExecutedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	migrationsRun := 0
	migrationsRecorded := 0

	for _, migration := range m.migrations {
		exists, err := m.tableExists(ctx, migration.TableName)
		if err != nil {
			return fmt.Errorf("failed to check if table %s exists: %w", migration.TableName, err)
		}

		recorded := executed[migration.Name]

		switch {
		case !exists:
			if recorded {
				log.Warn().
					Str("migration", migration.Name).
					Str("table", migration.TableName).
					Msg("Table doesn't exist but should. Running migration to create it.")
			} else {
				log.Info().
					Str("migration", migration.Name).
					Str("table", migration.TableName).
					Msg("Running migration")
			}

			if err := m.runMigration(ctx, migration, !recorded); err != nil {
				return err
			}
			migrationsRun++

		case !recorded:
			log.Info().
				Str("migration", migration.Name).
				Str("table", migration.TableName).
				Msg("Table already exists, recording migration as completed")

			if err := m.recordMigration(ctx, m.db, migration); err != nil {
				return err
			}
			migrationsRecorded++
		}
	}

	log.Info().
		Int("migrations_run", migrationsRun).
		Int("migrations_recorded", migrationsRecorded).
		Int("total_migrations", len(m.migrations)).
		Dur("duration", time.Since(startTime)).
		Msg("Database migrations completed")

	return nil
}

// createMigrationsTable creates the migrations table if it doesn't exist.
func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + constants.TableMigrations + ` (
		name VARCHAR(255) NOT NULL PRIMARY KEY,
		description VARCHAR(255),
		executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	_, err := m.db.ExecContext(ctx, query)
	return err
}

// getExecutedMigrations returns the names of the recorded migrations.
func (m *Migrator) getExecutedMigrations(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM ` + constants.TableMigrations
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	migrations := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		migrations[name] = true
	}

	return migrations, rows.Err()
}

// runMigration runs a migration within a transaction, recording it when asked.
// If the migration fails, the transaction is rolled back.
func (m *Migrator) runMigration(ctx context.Context, migration Migration, record bool) error {
	return m.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := migration.RunSQL(ctx, tx, m.db.Dialect); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Name, err)
		}

		if !record {
			return nil
		}
		return m.recordMigration(ctx, tx, migration)
	})
}

// recordMigration marks a migration as completed.
func (m *Migrator) recordMigration(ctx context.Context, q database.Querier, migration Migration) error {
	query := m.db.Rebind(`INSERT INTO ` + constants.TableMigrations + ` (name, description) VALUES (?, ?)`)
	if _, err := q.ExecContext(ctx, query, migration.Name, migration.Description); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
	}
	return nil
}

// tableExists checks if a table exists in the connected database's current schema.
func (m *Migrator) tableExists(ctx context.Context, tableName string) (bool, error) {
	schema := "DATABASE()"
	if m.db.Dialect == database.Postgres {
		schema = "current_schema()"
	}

	query := m.db.Rebind(`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = ` +
		schema + ` AND table_name = ?`)

	var count int
	if err := m.db.QueryRowContext(ctx, query, tableName).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMigrations returns all migrations in the order they are applied.
func GetMigrations() []Migration {
	return []Migration{
		createAddressesTable(),
	}
}

// createAddressesTable creates the addresses table
func createAddressesTable() Migration {
	return Migration{
		Name:        "create_addresses_table",
		Description: "Creates the addresses table",
		TableName:   constants.TableAddresses,
		RunSQL: func(ctx context.Context, tx *sql.Tx, dialect database.Dialect) error {
			_, err := tx.ExecContext(ctx, addressesTableDDL(dialect))
			return err
		},
	}
}

// addressesTableDDL returns the CREATE TABLE statement for the dialect.
func addressesTableDDL(dialect database.Dialect) string {
	if dialect == database.Postgres {
		return `CREATE TABLE IF NOT EXISTS addresses (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			address VARCHAR(255) NOT NULL,
			city VARCHAR(255) NOT NULL,
			state VARCHAR(255) NOT NULL,
			zip VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	}

	return `CREATE TABLE IF NOT EXISTS addresses (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address VARCHAR(255) NOT NULL,
		city VARCHAR(255) NOT NULL,
		state VARCHAR(255) NOT NULL,
		zip VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) DEFAULT CHARSET=utf8mb4`
}
