package models

import "time"

// Assignment statuses. At most one Assigned row may exist per asset.
const (
	StatusAssigned = "Assigned"
	StatusReturned = "Returned"
)

// Assignment records an asset being held by a user over an interval.
type Assignment struct {
	ID         uint      `gorm:"primaryKey"`
	AssetID    uint      `gorm:"not null;index"`
	UserID     uint      `gorm:"not null;index"`
	AssignedOn time.Time `gorm:"not null"`
	ReturnedOn *time.Time
	Status     string `gorm:"not null;default:'Assigned';index"`
	Asset      Asset  `gorm:"foreignKey:AssetID"`
	User       User   `gorm:"foreignKey:UserID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
