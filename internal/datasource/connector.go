// Package datasource is the data layer the builder hands component data
// source configs to. The layout engine never interprets a DataSourceConfig;
// this package resolves one to a live connection for previewing rows and
// introspecting schemas while the user wires up a component.
package datasource

import (
	"context"
	"fmt"

	"pagebuilder/internal/domain"
)

// Preview is a bounded batch of rows fetched for the builder's data panel.
type Preview struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	Truncated bool     `json:"truncated"` // more rows existed beyond the limit
}

// SchemaInfo contains the database schema for autocomplete.
type SchemaInfo struct {
	Tables []TableInfo `json:"tables"`
}

// TableInfo describes a table/collection.
type TableInfo struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// ColumnInfo describes a column/field.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Connector abstracts read-only interaction with an external data backend.
type Connector interface {
	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// Preview runs the query and returns at most limit rows.
	Preview(ctx context.Context, query string, limit int) (*Preview, error)

	// Introspect returns the backend schema for autocomplete.
	Introspect(ctx context.Context) (*SchemaInfo, error)

	// Close closes the connection.
	Close() error
}

// NewConnector creates a Connector for the given data source config.
// The password is provided separately — credentials never live inside the
// document.
func NewConnector(cfg *domain.DataSourceConfig, password string) (Connector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no data source configured")
	}
	switch cfg.Driver {
	case domain.DataSourceDriverSQLite:
		return newSQLConnector("sqlite", cfg.Host+"?_journal_mode=WAL&_busy_timeout=5000")
	case domain.DataSourceDriverMySQL:
		return newSQLConnector("mysql", buildMySQLDSN(cfg, password))
	case domain.DataSourceDriverPostgres:
		return newSQLConnector("postgres", buildPostgresDSN(cfg, password))
	case domain.DataSourceDriverMongoDB:
		return newMongoConnector(cfg, password)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}

// buildMySQLDSN constructs a MySQL DSN from a data source config.
func buildMySQLDSN(cfg *domain.DataSourceConfig, password string) string {
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	// Format: user:password@tcp(host:port)/dbname?parseTime=true
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		cfg.Username, password, cfg.Host, port, cfg.Database,
	)
	if cfg.SSLMode == "require" {
		dsn += "&tls=true"
	}
	return dsn
}

// buildPostgresDSN constructs a Postgres connection string from a data
// source config.
func buildPostgresDSN(cfg *domain.DataSourceConfig, password string) string {
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, port, cfg.Username, password, cfg.Database, sslMode,
	)
}
