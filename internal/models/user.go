package models

import (
	"time"
)

// User is the primary record managed through the admin screens
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	SiteID    *uint     `gorm:"index" json:"site_id"` // Nullable, a user may not belong to any site
	Site      *Site     `json:"site,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
