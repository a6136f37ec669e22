package analytics

import (
	"fmt"
	"time"

	"hostel-sentinel/internal/models"
)

// Anomaly is the result of the rolling-window spike check.
type Anomaly struct {
	Alert   bool   `json:"alert"`
	Message string `json:"message,omitempty"`
}

// DetectSpike compares the last 3 days of reports against the 7 days before
// them. It alerts when the recent daily average is more than double the
// prior average. A zero prior average never alerts: a quiet baseline would
// otherwise flag the very first report as a spike.
//
// Both windows are inclusive at their edges, so an issue created exactly 3
// days ago counts in both.
func DetectSpike(issues []models.Issue, now time.Time) Anomaly {
	countBetween := func(fromDaysAgo, toDaysAgo int) int {
		from := now.Add(-time.Duration(toDaysAgo) * 24 * time.Hour)
		to := now.Add(-time.Duration(fromDaysAgo) * 24 * time.Hour)
		n := 0
		for _, it := range issues {
			if !it.CreatedAt.Before(from) && !it.CreatedAt.After(to) {
				n++
			}
		}
		return n
	}

	last3 := countBetween(0, 3)
	prev7 := countBetween(3, 10)
	avgPrev := float64(prev7) / 7

	if avgPrev > 0 && float64(last3)/3 > avgPrev*2.0 {
		return Anomaly{
			Alert:   true,
			Message: fmt.Sprintf("Spike detected: recent avg %.1f > prev %.1f.", float64(last3)/3, avgPrev),
		}
	}
	return Anomaly{}
}
