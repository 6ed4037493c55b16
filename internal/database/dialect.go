package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytecodeman/addressesapi/internal/constants"
)

// Dialect identifies the SQL flavour spoken by the connected server.
// Statements are written with ? placeholders and rebound per dialect.
type Dialect int

const (
	// MySQL is the default dialect (also used for MariaDB).
	MySQL Dialect = iota
	// Postgres uses $n placeholders, ILIKE and RETURNING.
	Postgres
)

// DialectFor maps a configured driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case constants.DriverMySQL, "mariadb", "":
		return MySQL, nil
	case constants.DriverPostgres, "postgresql":
		return Postgres, nil
	default:
		return MySQL, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return constants.DriverPostgres
	}
	return constants.DriverMySQL
}

func (d Dialect) String() string {
	return d.DriverName()
}

// CaseInsensitiveLike returns the operator for case-insensitive pattern matching.
// MySQL's default collations already compare case-insensitively.
func (d Dialect) CaseInsensitiveLike() string {
	if d == Postgres {
		return "ILIKE"
	}
	return "LIKE"
}

// SupportsReturning reports whether INSERT ... RETURNING is available.
func (d Dialect) SupportsReturning() bool {
	return d == Postgres
}

// Rebind rewrites ? placeholders into the dialect's bind syntax.
// Question marks inside quoted literals or identifiers are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}

	return b.String()
}
