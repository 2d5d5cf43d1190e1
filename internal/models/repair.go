package models

import "time"

// Repair tracks a reported issue on an asset. A nil DateResolved means the
// repair is still open.
type Repair struct {
	ID           uint   `gorm:"primaryKey"`
	AssetID      uint   `gorm:"not null;index"`
	Issue        string `gorm:"not null"`
	ActionTaken  string `gorm:"type:text"`
	Cost         *float64
	DateReported time.Time `gorm:"not null"`
	DateResolved *time.Time
	Vendor       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
