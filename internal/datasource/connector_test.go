package datasource

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"pagebuilder/internal/domain"
)

func TestIsReadQuery(t *testing.T) {
	reads := []string{
		"SELECT * FROM users",
		"  select 1",
		"WITH t AS (SELECT 1) SELECT * FROM t",
		"EXPLAIN SELECT 1",
		"PRAGMA table_info('users')",
		"SHOW TABLES",
	}
	for _, q := range reads {
		if !isReadQuery(q) {
			t.Fatalf("expected read query: %q", q)
		}
	}
	writes := []string{
		"INSERT INTO users VALUES (1)",
		"UPDATE users SET name = 'x'",
		"DELETE FROM users",
		"DROP TABLE users",
		"",
	}
	for _, q := range writes {
		if isReadQuery(q) {
			t.Fatalf("expected write query rejected: %q", q)
		}
	}
}

func TestBuildMySQLDSN(t *testing.T) {
	cfg := &domain.DataSourceConfig{
		Driver: domain.DataSourceDriverMySQL,
		Host:   "db.internal", Username: "reader", Database: "analytics",
	}
	dsn := buildMySQLDSN(cfg, "s3cret")
	if !strings.HasPrefix(dsn, "reader:s3cret@tcp(db.internal:3306)/analytics") {
		t.Fatalf("dsn = %q", dsn)
	}
	if strings.Contains(dsn, "tls=true") {
		t.Fatal("tls must be off by default")
	}

	cfg.Port = 3307
	cfg.SSLMode = "require"
	dsn = buildMySQLDSN(cfg, "s3cret")
	if !strings.Contains(dsn, ":3307)") || !strings.Contains(dsn, "tls=true") {
		t.Fatalf("dsn = %q", dsn)
	}
}

func TestBuildPostgresDSN(t *testing.T) {
	cfg := &domain.DataSourceConfig{
		Driver: domain.DataSourceDriverPostgres,
		Host:   "pg.internal", Username: "reader", Database: "analytics",
	}
	dsn := buildPostgresDSN(cfg, "s3cret")
	for _, want := range []string{"host=pg.internal", "port=5432", "user=reader", "password=s3cret", "dbname=analytics", "sslmode=disable"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn %q missing %q", dsn, want)
		}
	}
}

func TestNewConnector_Validation(t *testing.T) {
	if _, err := NewConnector(nil, ""); err == nil {
		t.Fatal("nil config must error")
	}
	if _, err := NewConnector(&domain.DataSourceConfig{Driver: domain.DataSourceDriverStatic}, ""); err == nil {
		t.Fatal("static driver has no connector and must error")
	}
}

func TestSQLiteConnector_PreviewAndIntrospect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.db")
	ctx := context.Background()

	conn, err := NewConnector(&domain.DataSourceConfig{
		Driver: domain.DataSourceDriverSQLite,
		Host:   path,
	}, "")
	if err != nil {
		t.Fatalf("connector: %v", err)
	}
	defer conn.Close()

	if err := conn.TestConnection(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	// Seed a table through the underlying pool.
	sqlConn := conn.(*sqlConnector)
	if _, err := sqlConn.db.ExecContext(ctx,
		`CREATE TABLE metrics (id INTEGER PRIMARY KEY, label TEXT, value REAL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, err := sqlConn.db.ExecContext(ctx,
			`INSERT INTO metrics (label, value) VALUES (?, ?)`, "row", float64(i)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	p, err := conn.Preview(ctx, "SELECT id, label, value FROM metrics ORDER BY id", 5)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(p.Columns) != 3 || len(p.Rows) != 5 || !p.Truncated {
		t.Fatalf("preview = %d cols, %d rows, truncated=%v", len(p.Columns), len(p.Rows), p.Truncated)
	}
	if p.Rows[0][1] != "row" {
		t.Fatalf("expected text value, got %T %v", p.Rows[0][1], p.Rows[0][1])
	}

	if _, err := conn.Preview(ctx, "DELETE FROM metrics", 5); err == nil {
		t.Fatal("preview must reject write queries")
	}

	schema, err := conn.Introspect(ctx)
	if err != nil {
		t.Fatalf("introspect: %v", err)
	}
	if len(schema.Tables) != 1 || schema.Tables[0].Name != "metrics" {
		t.Fatalf("schema = %+v", schema)
	}
	if len(schema.Tables[0].Columns) != 3 {
		t.Fatalf("columns = %+v", schema.Tables[0].Columns)
	}
}
