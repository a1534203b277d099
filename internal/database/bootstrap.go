package database

import (
	"fmt"

	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/metrics"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sample record guaranteed by SeedDefaultUser
const (
	DefaultUserName  = "Test User"
	DefaultUserEmail = "test@example.com"
)

// Migrate creates the tables for every declared model if they are absent
func Migrate(db *gorm.DB) error {
	// Sites first, users.site_id references them
	if err := db.AutoMigrate(&models.Site{}, &models.User{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	log.Debug("Schema migrated")
	return nil
}

// SeedDefaultUser inserts the sample user unless a user with its email exists.
// The insert relies on the unique email index, so concurrent callers cannot
// produce a second row. It reports whether a row was created.
func SeedDefaultUser(db *gorm.DB) (bool, error) {
	user := models.User{Name: DefaultUserName, Email: DefaultUserEmail}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&user)
	if result.Error != nil {
		metrics.SeedRunsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("seed default user: %w", result.Error)
	}

	created := result.RowsAffected > 0
	if created {
		metrics.SeedRunsTotal.WithLabelValues("created").Inc()
		log.WithField("email", DefaultUserEmail).Info("Database seeded with default user")
	} else {
		metrics.SeedRunsTotal.WithLabelValues("exists").Inc()
		log.WithField("email", DefaultUserEmail).Info("Default user already present")
	}
	return created, nil
}

// Bootstrap runs once at startup, before the listener accepts requests
func Bootstrap(db *gorm.DB, seed bool) error {
	if err := Migrate(db); err != nil {
		return err
	}
	if !seed {
		log.Info("Seeding disabled, skipping default user")
		return nil
	}
	_, err := SeedDefaultUser(db)
	return err
}
