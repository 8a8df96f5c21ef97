// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"nidhi/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// SetupTestDB creates a private in-memory SQLite database with all models
// migrated. The pool is pinned to a single connection so concurrent tests
// serialize on it instead of racing SQLite's table locks.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:nidhi_test_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}

// ApplyMigrationTable replaces the AutoMigrate version of table with the
// CREATE TABLE statement from a SQL migration file, so tests run against the
// production constraints. NOW() is rewritten for SQLite.
func ApplyMigrationTable(t *testing.T, db *gorm.DB, migrationPath, table string) {
	t.Helper()

	raw, err := os.ReadFile(migrationPath)
	if err != nil {
		t.Fatalf("failed to read migration: %v", err)
	}
	sql := string(raw)

	header := "CREATE TABLE IF NOT EXISTS " + table + " ("
	start := strings.Index(sql, header)
	if start < 0 {
		t.Fatalf("table %s not found in %s", table, migrationPath)
	}
	end := strings.Index(sql[start:], "\n);")
	if end < 0 {
		t.Fatalf("unterminated CREATE TABLE for %s", table)
	}
	ddl := strings.ReplaceAll(sql[start:start+end+len("\n);")], "NOW()", "CURRENT_TIMESTAMP")

	if err := db.Exec("DROP TABLE IF EXISTS " + table).Error; err != nil {
		t.Fatalf("failed to drop %s: %v", table, err)
	}
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("failed to create %s from migration: %v", table, err)
	}
}
