package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS portfolio (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE,
			description TEXT,
			investment_style VARCHAR(20) DEFAULT 'Growth' NOT NULL,
			risk_tolerance VARCHAR(10) DEFAULT 'Medium' NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS security (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			symbol VARCHAR(10) NOT NULL UNIQUE,
			name VARCHAR(255),
			sector VARCHAR(100),
			industry VARCHAR(100),
			currency VARCHAR(3) DEFAULT 'USD' NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS position (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			symbol VARCHAR(10) NOT NULL,
			quantity FLOAT NOT NULL,
			avg_cost FLOAT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolio(id) ON DELETE CASCADE,
			FOREIGN KEY(symbol) REFERENCES security(symbol),
			CONSTRAINT unique_portfolio_symbol UNIQUE (portfolio_id, symbol)
		);

		-- Transaction table (quoted because transaction is a reserved keyword)
		CREATE TABLE IF NOT EXISTS "transaction" (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			symbol VARCHAR(10) NOT NULL,
			quantity FLOAT NOT NULL,
			price FLOAT NOT NULL,
			type VARCHAR(4) NOT NULL CHECK(type IN ('BUY', 'SELL')),
			date DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolio(id) ON DELETE CASCADE,
			FOREIGN KEY(symbol) REFERENCES security(symbol)
		);

		CREATE TABLE IF NOT EXISTS price_point (
			symbol VARCHAR(10) NOT NULL PRIMARY KEY,
			price FLOAT NOT NULL,
			fetched_at DATETIME NOT NULL,
			source VARCHAR(50) NOT NULL,
			FOREIGN KEY(symbol) REFERENCES security(symbol)
		);

		CREATE TABLE IF NOT EXISTS price_history (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			symbol VARCHAR(10) NOT NULL,
			price FLOAT NOT NULL,
			fetched_at DATETIME NOT NULL,
			source VARCHAR(50) NOT NULL,
			FOREIGN KEY(symbol) REFERENCES security(symbol)
		);

		CREATE TABLE IF NOT EXISTS feed_config (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			api_token VARCHAR(500),
			auto_refresh_enabled BOOLEAN NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS ix_position_portfolio_id ON position(portfolio_id);
		CREATE INDEX IF NOT EXISTS ix_position_symbol ON position(symbol);
		CREATE INDEX IF NOT EXISTS ix_transaction_portfolio_id ON "transaction"(portfolio_id);
		CREATE INDEX IF NOT EXISTS ix_transaction_symbol ON "transaction"(symbol);
		CREATE INDEX IF NOT EXISTS ix_transaction_date ON "transaction"(date);
		CREATE INDEX IF NOT EXISTS ix_price_history_symbol ON price_history(symbol);
		CREATE INDEX IF NOT EXISTS ix_price_history_fetched_at ON price_history(fetched_at);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables in dependency order.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	// Order matters: delete children before parents due to foreign keys
	tables := []string{
		"price_history",
		"price_point",
		`"transaction"`,
		"position",
		"security",
		"portfolio",
		"feed_config",
	}

	for _, table := range tables {
		query := "DELETE FROM " + table
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}
