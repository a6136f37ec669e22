package analytics

import (
	"time"

	"hostel-sentinel/internal/models"
)

const dayMillis = 24 * 3600 * 1000

// Defaults for the trend window and forecast horizon.
const (
	DefaultWindowDays  = 30
	DefaultHorizonDays = 7
)

// DailyCounts buckets issue creation times into windowDays daily counts.
// Index 0 is windowDays-1 days ago, the last index is today. Day distance
// is the floor division of elapsed milliseconds by one day's milliseconds;
// issues outside the window are excluded.
func DailyCounts(issues []models.Issue, now time.Time, windowDays int) []int {
	counts := make([]int, windowDays)
	nowMs := now.UnixMilli()
	for _, it := range issues {
		elapsed := nowMs - it.CreatedAt.UnixMilli()
		if elapsed < 0 {
			continue
		}
		diff := int(elapsed / dayMillis)
		if diff >= windowDays {
			continue
		}
		counts[windowDays-1-diff]++
	}
	return counts
}

// Forecast is a least-squares trend line over the daily counts plus the
// clamped total projected over the horizon.
type Forecast struct {
	Slope            float64 `json:"slope"`
	Intercept        float64 `json:"intercept"`
	NextHorizonTotal float64 `json:"next_horizon_total"`
}

// ForecastIssues fits an ordinary least-squares line to the daily counts
// and sums the projection over the next horizonDays. Negative per-day
// estimates are clamped to zero before summing; the raw slope/intercept are
// reported unclamped for diagnostics.
//
// This is a naive trend line, not a time-series model: no seasonality and
// no confidence interval.
func ForecastIssues(issues []models.Issue, now time.Time, windowDays, horizonDays int) Forecast {
	counts := DailyCounts(issues, now, windowDays)

	n := float64(len(counts))
	var sumX, sumY, sumXY, sumXX float64
	for i, c := range counts {
		x := float64(i)
		y := float64(c)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	// epsilon keeps the degenerate n<=1 / constant-x case finite.
	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX + 1e-9)
	intercept := (sumY - slope*sumX) / n

	var total float64
	for i := len(counts); i < len(counts)+horizonDays; i++ {
		v := intercept + slope*float64(i)
		if v > 0 {
			total += v
		}
	}

	return Forecast{Slope: slope, Intercept: intercept, NextHorizonTotal: total}
}
