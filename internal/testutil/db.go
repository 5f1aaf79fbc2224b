// Package testutil provides test helpers for setting up in-memory stores,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dompet/internal/models"
	"dompet/internal/storage"
)

// dbCounter ensures each test gets an isolated in-memory database.
var dbCounter atomic.Int64

// SetupTestStore creates a blob store over an isolated in-memory SQLite
// database with the schema migrated.
func SetupTestStore(t *testing.T) *storage.GormStore {
	t.Helper()
	return storage.NewGormStore(SetupTestDB(t))
}

// SetupTestDB creates an isolated in-memory SQLite database with the blob
// schema migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Blob{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err != nil {
			t.Errorf("failed to get underlying DB for teardown: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db
}

// SeedRawBlob writes a raw JSON value for the given blob key, the way a
// legacy or corrupt writer would have.
func SeedRawBlob(t *testing.T, db *gorm.DB, key, rawJSON string) {
	t.Helper()
	blob := models.Blob{Key: key, Value: []byte(rawJSON)}
	if err := db.Save(&blob).Error; err != nil {
		t.Fatalf("failed to seed blob %q: %v", key, err)
	}
}
