package models

import "time"

// ISP is an internet provider account whose monthly fee gets prorated by
// recorded downtime.
type ISP struct {
	ID            uint    `gorm:"primaryKey"`
	Name          string  `gorm:"not null"`
	MonthlyFee    float64 `gorm:"not null"`
	AccountNumber string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ISPDowntime is a recorded outage window for an ISP.
type ISPDowntime struct {
	ID    uint `gorm:"primaryKey"`
	ISPID uint `gorm:"not null;index"`
	// start/end stored as start_at/end_at ("end" is reserved in postgres)
	Start     time.Time `gorm:"column:start_at;not null"`
	End       time.Time `gorm:"column:end_at;not null"`
	Reason    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
