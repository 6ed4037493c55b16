// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines constants related to database structures,
// including table names and column names. SQL text is only ever assembled from
// these constants, never from request input.
package constants

// Table Names define the names of database tables used in the application.
const (
	// TableAddresses is the name of the table storing postal addresses.
	TableAddresses = "addresses"

	// TableMigrations tracks which schema migrations have been applied.
	TableMigrations = "migrations"

	// TableSeeds tracks which data seeds have been applied.
	TableSeeds = "seeds"
)

// Address Column Names define the columns of the addresses table.
const (
	// ColumnID is the primary key column name.
	ColumnID = "id"

	// ColumnName is the column holding the addressee name.
	ColumnName = "name"

	// ColumnAddress is the column holding the street address.
	ColumnAddress = "address"

	// ColumnCity is the column holding the city.
	ColumnCity = "city"

	// ColumnState is the column holding the state.
	ColumnState = "state"

	// ColumnZip is the column holding the postal code.
	ColumnZip = "zip"

	// ColumnCreatedAt is the column for creation timestamps.
	ColumnCreatedAt = "created_at"

	// ColumnRecordNo is the computed 1-based position of a record ordered by id.
	ColumnRecordNo = "record_no"
)

// Database Drivers define the supported database/sql driver names.
const (
	// DriverMySQL selects github.com/go-sql-driver/mysql.
	DriverMySQL = "mysql"

	// DriverPostgres selects github.com/lib/pq.
	DriverPostgres = "postgres"
)

// MaxTextFieldLength is the width of every text column of the addresses table.
const MaxTextFieldLength = 255
