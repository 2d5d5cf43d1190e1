package models

import "time"

// User is a staff member who can hold assets and log in to the dashboard.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"unique;not null;index"`
	FullName     string `gorm:"not null"`
	Role         string `gorm:"not null;default:'staff'"` // admin, staff
	Department   string `gorm:"default:'IT'"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
