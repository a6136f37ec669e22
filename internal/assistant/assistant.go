package assistant

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"hostel-sentinel/internal/analytics"
	"hostel-sentinel/internal/models"
)

const (
	maxKeywordMatches = 10
	maxVacantRooms    = 20
)

// Snapshot is the point-in-time state the assistant answers from. The
// assistant keeps no state of its own; every answer is a pure function of
// the snapshot.
type Snapshot struct {
	Rooms  []models.Room
	Issues []models.Issue
	Now    time.Time
}

type rule struct {
	match  func(q string) bool
	handle func(q string, s Snapshot) string
}

// Assistant classifies free-text queries with an ordered rule list. The
// first matching rule wins; there is no fallthrough accumulation.
type Assistant struct {
	rules []rule
}

func New() *Assistant {
	return &Assistant{
		rules: []rule{
			{match: containsAny("predict", "next week", "forecast"), handle: answerForecast},
			{match: containsAny("rooms with", "show rooms"), handle: answerKeywordSearch},
			{match: containsAny("hotspot", "which block"), handle: answerBlockHotspots},
			{match: containsAny("vacant", "available"), handle: answerVacant},
		},
	}
}

// Answer lower-cases the query and dispatches it through the rule list.
func (a *Assistant) Answer(query string, s Snapshot) string {
	q := strings.ToLower(query)
	for _, r := range a.rules {
		if r.match(q) {
			return r.handle(q, s)
		}
	}
	return `Try asking: "predict issues next week", "show rooms with plumbing", or "which block is hotspot"`
}

func containsAny(phrases ...string) func(string) bool {
	return func(q string) bool {
		for _, p := range phrases {
			if strings.Contains(q, p) {
				return true
			}
		}
		return false
	}
}

func answerForecast(_ string, s Snapshot) string {
	f := analytics.ForecastIssues(s.Issues, s.Now, analytics.DefaultWindowDays, analytics.DefaultHorizonDays)
	return fmt.Sprintf("Prediction: approx %d issues in next 7 days (trend slope %.2f).",
		int(math.Round(f.NextHorizonTotal)), f.Slope)
}

func answerKeywordSearch(q string, s Snapshot) string {
	keyword := extractKeyword(q)
	var roomIDs []string
	seen := map[string]bool{}
	for _, it := range s.Issues {
		if !strings.Contains(strings.ToLower(it.Description), keyword) &&
			!strings.Contains(strings.ToLower(it.Title), keyword) {
			continue
		}
		if seen[it.RoomID] {
			continue
		}
		seen[it.RoomID] = true
		roomIDs = append(roomIDs, it.RoomID)
		if len(roomIDs) == maxKeywordMatches {
			break
		}
	}
	if len(roomIDs) == 0 {
		return "No matching issues found."
	}
	return "Matches: " + strings.Join(roomIDs, ", ")
}

// extractKeyword takes the text after the first trigger phrase. When the
// phrase ends the query the keyword is empty and matches every issue.
func extractKeyword(q string) string {
	for _, phrase := range []string{"rooms with ", "show rooms "} {
		if _, after, ok := strings.Cut(q, phrase); ok {
			return after
		}
	}
	return ""
}

func answerBlockHotspots(_ string, s Snapshot) string {
	blockOf := make(map[string]string, len(s.Rooms))
	for _, r := range s.Rooms {
		blockOf[r.ID] = r.Block
	}

	counts := map[string]int{}
	var order []string
	for _, it := range s.Issues {
		if !it.IsOpen() {
			continue
		}
		block, ok := blockOf[it.RoomID]
		if !ok {
			continue
		}
		if _, seen := counts[block]; !seen {
			order = append(order, block)
		}
		counts[block]++
	}
	if len(order) == 0 {
		return "No open issues."
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	perBlock := make([]string, len(order))
	for i, b := range order {
		perBlock[i] = fmt.Sprintf("%d", counts[b])
	}
	return fmt.Sprintf("Hotspots: %s (counts: %s)",
		strings.Join(order, ", "), strings.Join(perBlock, ", "))
}

func answerVacant(_ string, s Snapshot) string {
	var ids []string
	for _, r := range s.Rooms {
		if r.Status != models.RoomGreen {
			continue
		}
		ids = append(ids, r.ID)
		if len(ids) == maxVacantRooms {
			break
		}
	}
	if len(ids) == 0 {
		return "Vacant rooms (sample): none"
	}
	return "Vacant rooms (sample): " + strings.Join(ids, ", ")
}
