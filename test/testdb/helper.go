// Package testdb is the shared Postgres harness for integration tests.
// Tests calling Setup are skipped unless TEST_DATABASE_URL points at a
// disposable database, so a plain `go test ./...` needs nothing running.
package testdb

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/selivandex/seller-bot/internal/adapters/database"
)

// Setup connects to the database named by TEST_DATABASE_URL and brings
// the schema up to date. The connection closes with the test.
func Setup(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := database.NewFromDSN(dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(db.Conn(), migrationsDir()); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close database: %v", err)
		}
	})

	return db
}

// migrationsDir resolves the migrations directory relative to this file,
// so tests find it from any package directory
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// Truncate empties the given tables so a test starts from a clean slate
func Truncate(t *testing.T, db *database.DB, tables ...string) {
	t.Helper()

	for _, table := range tables {
		if _, err := db.DB().Exec("TRUNCATE TABLE " + table + " CASCADE"); err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}

// SeedMarginDay inserts one wb_margin_daily row. Money amounts are
// decimal literals, marginPercent may be nil for zero-revenue days.
func SeedMarginDay(t *testing.T, db *database.DB, nmID int64, title string, date time.Time,
	orders int64, revenue, adSpend, marginProfit string, marginPercent *float64) {
	t.Helper()

	_, err := db.DB().Exec(`
		INSERT INTO wb_margin_daily (nmid, title, date, ordercount, revenue_total,
		                             ad_spend, margin_profit_after_ads, margin_percent_after_ads)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, nmID, title, date, orders,
		decimal.RequireFromString(revenue),
		decimal.RequireFromString(adSpend),
		decimal.RequireFromString(marginProfit),
		marginPercent,
	)
	if err != nil {
		t.Fatalf("failed to seed margin row: %v", err)
	}
}

// SeedFunnelDay inserts one wb_sales_funnel_products row
func SeedFunnelDay(t *testing.T, db *database.DB, nmID int64, title string, reportDate time.Time,
	opens, carts, orders int64, orderSum string, buyouts int64, buyoutSum string, stocks int64) {
	t.Helper()

	_, err := db.DB().Exec(`
		INSERT INTO wb_sales_funnel_products (nmid, title, reportdate, opencount, cartcount,
		                                      ordercount, ordersum, buyoutcount, buyoutsum, stocks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, nmID, title, reportDate, opens, carts, orders,
		decimal.RequireFromString(orderSum),
		buyouts,
		decimal.RequireFromString(buyoutSum),
		stocks,
	)
	if err != nil {
		t.Fatalf("failed to seed funnel row: %v", err)
	}
}
