package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"hostel-sentinel/internal/models"
)

// Hotspot is a room ranked by its open-issue count.
type Hotspot struct {
	RoomID    string `json:"room_id"`
	OpenCount int    `json:"open_count"`
}

// TopHotspots groups open issues by room and returns the limit busiest
// rooms, highest count first. Ties keep the order in which the rooms first
// appeared in the issue list.
func TopHotspots(issues []models.Issue, limit int) []Hotspot {
	counts := map[string]int{}
	var order []string
	for _, it := range issues {
		if !it.IsOpen() {
			continue
		}
		if _, seen := counts[it.RoomID]; !seen {
			order = append(order, it.RoomID)
		}
		counts[it.RoomID]++
	}

	hotspots := make([]Hotspot, 0, len(order))
	for _, rid := range order {
		hotspots = append(hotspots, Hotspot{RoomID: rid, OpenCount: counts[rid]})
	}
	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].OpenCount > hotspots[j].OpenCount
	})

	if len(hotspots) > limit {
		hotspots = hotspots[:limit]
	}
	return hotspots
}

// HeatLevel is the ordinal intensity bucket of a heatmap cell.
type HeatLevel int

const (
	HeatNone HeatLevel = iota
	HeatLow
	HeatMedium
	HeatHigh
)

func (h HeatLevel) String() string {
	switch h {
	case HeatNone:
		return "none"
	case HeatLow:
		return "low"
	case HeatMedium:
		return "medium"
	default:
		return "high"
	}
}

func (h HeatLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.String() + `"`), nil
}

func heatLevel(openCount int) HeatLevel {
	switch {
	case openCount == 0:
		return HeatNone
	case openCount == 1:
		return HeatLow
	case openCount == 2:
		return HeatMedium
	default:
		return HeatHigh
	}
}

// HeatIntensity buckets open-issue load per block and room number. Room
// numbers repeat across floors, and the counts are summed across floors on
// purpose: the heatmap answers "is room number N generally troublesome in
// this block", not per-floor.
func HeatIntensity(rooms []models.Room, issues []models.Issue) map[string]map[int]HeatLevel {
	openByRoom := map[string]int{}
	for _, it := range issues {
		if it.IsOpen() {
			openByRoom[it.RoomID]++
		}
	}

	sums := map[string]map[int]int{}
	for _, r := range rooms {
		if sums[r.Block] == nil {
			sums[r.Block] = map[int]int{}
		}
		sums[r.Block][r.Number] += openByRoom[r.ID]
	}

	out := make(map[string]map[int]HeatLevel, len(sums))
	for block, byNumber := range sums {
		out[block] = make(map[int]HeatLevel, len(byNumber))
		for number, sum := range byNumber {
			out[block][number] = heatLevel(sum)
		}
	}
	return out
}

// Insights recomputes the dashboard insight cards from the current
// snapshot: up to five repeat-offender rooms plus the 7-day prediction.
func Insights(issues []models.Issue, now time.Time) []models.Insight {
	var out []models.Insight
	for _, h := range TopHotspots(issues, 5) {
		out = append(out, models.Insight{
			Title:  fmt.Sprintf("Repeated open issues in %s", h.RoomID),
			Detail: fmt.Sprintf("%d open issues — consider maintenance.", h.OpenCount),
		})
	}
	f := ForecastIssues(issues, now, DefaultWindowDays, DefaultHorizonDays)
	out = append(out, models.Insight{
		Title:  "Predicted next 7 days",
		Detail: fmt.Sprintf("~%d estimated issues.", int(math.Round(f.NextHorizonTotal))),
	})
	return out
}
