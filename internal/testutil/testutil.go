package testutil

import (
	"testing"

	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenInMemoryDB opens a uniquely named shared-cache in-memory SQLite database
// and migrates the schema. The database is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDatabase(database.DatabaseConfig{
		Driver: "sqlite",
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
