// Package testutil provides an in-memory database for repository and service tests.
package testutil

import (
	"testing"

	"github.com/dkl25/admin-api/pkg/database"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a fresh migrated in-memory SQLite database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.Config())
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	// every pooled connection would see its own empty :memory: database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}
