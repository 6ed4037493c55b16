// Package scripts provides utility scripts for database management.
//
// The seeder fills an empty addresses table with a handful of sample records so
// a development instance has something to list, search and page through. Like
// migrations, each seed is recorded once it has run and is never repeated.
package scripts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/database"
	"github.com/bytecodeman/addressesapi/internal/models"
	"github.com/bytecodeman/addressesapi/internal/repository"
)

// Seed is a named, run-once data population step.
type Seed struct {
	Name     string
	SeedFunc func(ctx context.Context, tx *sql.Tx) error
}

// Seeder handles database seeding.
type Seeder struct {
	db *database.Pool
}

// NewSeeder creates a new seeder.
func NewSeeder(db *database.Pool) *Seeder {
	return &Seeder{
		db: db,
	}
}

// SeedDatabase creates the seeds tracking table if it doesn't exist, then runs
// every seed that hasn't been recorded yet.
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	for _, seed := range s.seeds() {
		if executedSeeds[seed.Name] {
			log.Debug().Str("seed", seed.Name).Msg("Seed already executed")
			continue
		}

		log.Info().Str("seed", seed.Name).Msg("Running seed")
		if err := s.runSeed(ctx, seed); err != nil {
			return err
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

func (s *Seeder) seeds() []Seed {
	return []Seed{
		{Name: "sample_addresses", SeedFunc: s.seedSampleAddresses},
	}
}

// createSeedsTable creates the seeds table if it doesn't exist.
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + constants.TableSeeds + ` (
		name VARCHAR(255) NOT NULL PRIMARY KEY,
		executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns the names of the recorded seeds.
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM ` + constants.TableSeeds
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

// runSeed runs a seed function within a transaction and records it.
// If the seed operation fails, the transaction is rolled back.
func (s *Seeder) runSeed(ctx context.Context, seed Seed) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := seed.SeedFunc(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", seed.Name, err)
		}

		query := s.db.Rebind(`INSERT INTO ` + constants.TableSeeds + ` (name) VALUES (?)`)
		if _, err := tx.ExecContext(ctx, query, seed.Name); err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}

		return nil
	})
}

// SampleAddresses returns the records inserted into an empty development database.
func SampleAddresses() []models.AddressInput {
	return []models.AddressInput{
		{Name: "Ada Lovelace", Address: "12 St James's Square", City: "London", State: "LDN", Zip: "SW1Y 4JH"},
		{Name: "Grace Hopper", Address: "1 Navy Pentagon", City: "Arlington", State: "VA", Zip: "22202"},
		{Name: "Alan Turing", Address: "78 High Street", City: "Bletchley", State: "BKM", Zip: "MK3 6EB"},
		{Name: "Katherine Johnson", Address: "1 NASA Drive", City: "Hampton", State: "VA", Zip: "23666"},
		{Name: "Edsger Dijkstra", Address: "2 University Station", City: "Austin", State: "TX", Zip: "78712"},
	}
}

// seedSampleAddresses inserts the sample addresses unless the table already has data.
func (s *Seeder) seedSampleAddresses(ctx context.Context, tx *sql.Tx) error {
	var count int64
	countStmt := repository.BuildCountStatement(s.db.Dialect)
	if err := tx.QueryRowContext(ctx, countStmt.Query, countStmt.Args...).Scan(&count); err != nil {
		return fmt.Errorf("failed to count addresses: %w", err)
	}

	if count > 0 {
		log.Info().Int64("existing_addresses", count).Msg("Addresses table not empty, skipping sample data")
		return nil
	}

	samples := SampleAddresses()
	for i := range samples {
		stmt := repository.BuildInsertStatement(s.db.Dialect, samples[i].FieldValues())
		if _, err := tx.ExecContext(ctx, stmt.Query, stmt.Args...); err != nil {
			return fmt.Errorf("failed to insert sample address %s: %w", samples[i].Name, err)
		}
	}

	log.Info().
		Int("inserted_addresses", len(samples)).
		Msg("Sample addresses seeding completed")

	return nil
}
