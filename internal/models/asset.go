package models

import "time"

// Asset is a trackable piece of IT hardware identified by a unique tag.
type Asset struct {
	ID           uint    `gorm:"primaryKey"`
	Tag          string  `gorm:"unique;not null;index"`
	Name         string  `gorm:"not null"`
	Category     string  `gorm:"not null;index"`
	SerialNumber *string `gorm:"unique"` // optional; NULLs do not collide
	Condition    string  `gorm:"not null;default:'Good'"`
	PurchaseDate *time.Time
	PurchaseCost *float64
	Vendor       string
	Notes        string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AssetComponent is a part installed in a parent asset (RAM stick, disk, PSU).
// There is no delete path for assets, so no cascade rule is declared.
type AssetComponent struct {
	ID            uint   `gorm:"primaryKey"`
	ParentAssetID uint   `gorm:"not null;index"`
	Name          string `gorm:"not null"`
	SerialNumber  string
	Condition     string `gorm:"not null;default:'Good'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
