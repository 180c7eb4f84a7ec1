package database

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// Driver represents a SQL backend type.
type Driver string

const (
	// DriverPostgres represents PostgreSQL.
	DriverPostgres Driver = "postgres"
	// DriverSQLite represents SQLite.
	DriverSQLite Driver = "sqlite"
	// DriverMySQL represents MySQL.
	DriverMySQL Driver = "mysql"
)

// String returns the string representation of the driver.
func (d Driver) String() string {
	return string(d)
}

// DetectDriver parses a connection string and returns the driver type.
// Empty URLs select SQLite so a local install needs no configuration.
func DetectDriver(url string) Driver {
	if url == "" {
		return DriverSQLite
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DriverPostgres
	}

	if strings.HasPrefix(url, "mysql://") || strings.Contains(url, "@tcp(") {
		return DriverMySQL
	}

	if strings.HasPrefix(url, "sqlite://") ||
		strings.HasPrefix(url, "file:") ||
		strings.HasSuffix(url, ".db") ||
		strings.HasSuffix(url, ".sqlite") ||
		strings.HasSuffix(url, ".sqlite3") {
		return DriverSQLite
	}

	return DriverPostgres
}

// IsValid returns true if the driver is a known type.
func (d Driver) IsValid() bool {
	switch d {
	case DriverPostgres, DriverSQLite, DriverMySQL:
		return true
	default:
		return false
	}
}

// Rebind rewrites the '?' placeholders of query into the driver's bind style.
func (d Driver) Rebind(query string) string {
	if d == DriverPostgres {
		return sqlx.Rebind(sqlx.DOLLAR, query)
	}
	return sqlx.Rebind(sqlx.QUESTION, query)
}

// UpsertMeta returns the statement that inserts or replaces one todo_meta row.
func (d Driver) UpsertMeta() string {
	if d == DriverMySQL {
		return `INSERT INTO todo_meta (name, value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value)`
	}
	return d.Rebind(`INSERT INTO todo_meta (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value`)
}
