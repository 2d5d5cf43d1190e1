package services

import (
	"time"

	"itms/internal/models"
)

// Alert is an upcoming recurring payment that falls inside its
// notification window.
type Alert struct {
	Name   string
	Amount float64
	Due    time.Time
}

// ComputeAlerts projects the next due date for each monthly payment and
// returns those due within notify_before_days of today.
//
// The due day is clamped to the length of the target month (due_day=31 in
// February becomes the 28th or 29th). When the clamped date has already
// passed this month, the due date rolls over one month; the function does
// not search further ahead than that.
func ComputeAlerts(payments []models.RecurringPayment, today time.Time) []Alert {
	today = dateOf(today)
	var alerts []Alert
	for _, p := range payments {
		due := clampedDate(today.Year(), today.Month(), p.DueDay)
		if due.Before(today) {
			y, m := today.Year(), today.Month()
			if m == time.December {
				y, m = y+1, time.January
			} else {
				m++
			}
			due = clampedDate(y, m, p.DueDay)
		}
		days := int(due.Sub(today) / (24 * time.Hour))
		if days <= p.NotifyBeforeDays {
			alerts = append(alerts, Alert{Name: p.Name, Amount: p.Amount, Due: due})
		}
	}
	return alerts
}

// clampedDate builds a date in year/month with day clamped to the month's
// last valid day.
func clampedDate(year int, month time.Month, day int) time.Time {
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	// day 0 of the next month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// dateOf strips the time-of-day component, normalizing to midnight UTC so
// day arithmetic is exact.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthWindow returns the first day of t's month and the first day of the
// following month (exclusive upper bound), at midnight UTC.
func MonthWindow(t time.Time) (start, endExclusive time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	endExclusive = start.AddDate(0, 1, 0)
	return start, endExclusive
}
