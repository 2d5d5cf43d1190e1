package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"itms/internal/models"
)

func TestComputeNetPayProration(t *testing.T) {
	// April: 30 days, 720 hours. One 36h outage fully inside.
	start, end := MonthWindow(day(2024, time.April, 10))
	downs := []models.ISPDowntime{{
		Start: day(2024, time.April, 5),
		End:   day(2024, time.April, 5).Add(36 * time.Hour),
	}}
	got := ComputeNetPay(3000, downs, start, end)
	assert.Equal(t, 36.0, got.DowntimeHours)
	assert.Equal(t, 150.0, got.Deduction)
	assert.Equal(t, 2850.0, got.NetPay)
}

func TestComputeNetPayZeroDowntime(t *testing.T) {
	start, end := MonthWindow(day(2024, time.April, 1))
	got := ComputeNetPay(3000, nil, start, end)
	assert.Equal(t, 0.0, got.DowntimeHours)
	assert.Equal(t, 0.0, got.Deduction)
	assert.Equal(t, 3000.0, got.NetPay)
}

func TestComputeNetPayDropsStraddlingIntervals(t *testing.T) {
	start, end := MonthWindow(day(2024, time.April, 1))
	downs := []models.ISPDowntime{
		// begins in March, ends in April: excluded entirely, not clipped
		{Start: day(2024, time.March, 31), End: day(2024, time.April, 2)},
		// ends in May: excluded
		{Start: day(2024, time.April, 29), End: day(2024, time.May, 1).Add(time.Hour)},
	}
	got := ComputeNetPay(3000, downs, start, end)
	assert.Equal(t, 0.0, got.DowntimeHours)
	assert.Equal(t, 3000.0, got.NetPay)
}

func TestComputeNetPayOverlapsNotMerged(t *testing.T) {
	start, end := MonthWindow(day(2024, time.April, 1))
	base := day(2024, time.April, 10)
	downs := []models.ISPDowntime{
		{Start: base, End: base.Add(10 * time.Hour)},
		{Start: base.Add(5 * time.Hour), End: base.Add(15 * time.Hour)},
	}
	got := ComputeNetPay(720, downs, start, end)
	// 10h + 10h double-counts the overlap; fee 720 over 720h -> 1/h
	assert.Equal(t, 20.0, got.DowntimeHours)
	assert.Equal(t, 20.0, got.Deduction)
	assert.Equal(t, 700.0, got.NetPay)
}

func TestComputeNetPayFloorsAtZero(t *testing.T) {
	start, end := MonthWindow(day(2024, time.April, 1))
	// More booked downtime hours than the month holds (duplicated entries).
	downs := []models.ISPDowntime{
		{Start: start, End: start.Add(500 * time.Hour)},
		{Start: start, End: start.Add(500 * time.Hour)},
	}
	got := ComputeNetPay(100, downs, start, end)
	assert.Equal(t, 0.0, got.NetPay)
}

func TestComputeNetPayIdempotent(t *testing.T) {
	start, end := MonthWindow(day(2024, time.February, 1))
	downs := []models.ISPDowntime{{Start: day(2024, time.February, 3), End: day(2024, time.February, 3).Add(7*time.Hour + 30*time.Minute)}}
	first := ComputeNetPay(1234.56, downs, start, end)
	second := ComputeNetPay(1234.56, downs, start, end)
	assert.Equal(t, first, second)
}
