package postgres

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/aggregion/dmp-registry/internal/infrastructure/database"
	_ "github.com/lib/pq"
)

// SetupTestDB opens the test database named by TEST_POSTGRES_DSN and runs
// migrations. Tests calling it are skipped when the variable is unset.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres repository test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	pg := &database.Postgres{DB: db}
	if err := pg.RunMigrations("../../../internal/infrastructure/database/migrations/postgres"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// CleanupTestDB removes test data and closes the connection
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	tables := []string{"enclave_access", "script_access", "script_approvals", "trust_relations", "scripts", "services", "providers"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("Warning: Failed to clean up table %s: %v", table, err)
		}
	}

	if err := db.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}
