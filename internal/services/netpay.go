package services

import (
	"math"
	"time"

	"itms/internal/models"
)

// NetPay is the downtime-prorated amount owed to an ISP for one month.
// All three figures are rounded to 2 decimals for presentation.
type NetPay struct {
	DowntimeHours float64
	Deduction     float64
	NetPay        float64
}

// ComputeNetPay sums the downtime intervals lying entirely inside
// [monthStart, monthEndExclusive) and deducts the matching share of the
// monthly fee. Intervals straddling a month boundary are dropped, not
// clipped, and overlapping intervals are not merged.
func ComputeNetPay(monthlyFee float64, intervals []models.ISPDowntime, monthStart, monthEndExclusive time.Time) NetPay {
	var hours float64
	for _, iv := range intervals {
		if iv.Start.Before(monthStart) || iv.End.After(monthEndExclusive) {
			continue
		}
		hours += iv.End.Sub(iv.Start).Hours()
	}
	totalHours := float64(int(monthEndExclusive.Sub(monthStart)/(24*time.Hour))) * 24
	var deduction float64
	if totalHours > 0 {
		deduction = monthlyFee * (hours / totalHours)
	}
	net := monthlyFee - deduction
	if net < 0 {
		net = 0
	}
	return NetPay{
		DowntimeHours: round2(hours),
		Deduction:     round2(deduction),
		NetPay:        round2(net),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
