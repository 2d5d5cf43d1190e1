package models

import "time"

// Expenditure is an ad-hoc spend, optionally tied to an asset and backed by
// a supporting document (invoice, receipt, voucher).
type Expenditure struct {
	ID          uint      `gorm:"primaryKey"`
	Date        time.Time `gorm:"not null;index"`
	Category    string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	Amount      float64   `gorm:"not null"`
	DocType     string
	DocNumber   string
	AssetID     *uint `gorm:"index"`
	Vendor      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecurringPayment is a monthly obligation with a fixed day-of-month due
// date and an advance-notification window. Recurrence is informational; the
// alert calculator treats every payment as monthly.
type RecurringPayment struct {
	ID               uint    `gorm:"primaryKey"`
	Name             string  `gorm:"not null"`
	Amount           float64 `gorm:"not null"`
	Recurrence       string  `gorm:"not null;default:'Monthly'"`
	DueDay           int     `gorm:"not null;default:1"` // 1-31, clamped to month length
	NotifyBeforeDays int     `gorm:"not null;default:5"`
	LastPaidOn       *time.Time
	Vendor           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
