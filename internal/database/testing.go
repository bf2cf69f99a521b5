package database

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"
)

// OpenTest returns a migrated in-memory SQLite database private to t.
func OpenTest(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := Connect(dsn, Options{LogLevel: "silent"})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
