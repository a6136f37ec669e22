package models

import "time"

// Severity is the urgency tier of an issue. Only two tiers exist; anything
// that is not exactly "red" is treated as yellow.
type Severity string

const (
	SeverityYellow Severity = "yellow"
	SeverityRed    Severity = "red"
)

// CoerceSeverity maps free input onto a valid severity.
func CoerceSeverity(s string) Severity {
	if s == string(SeverityRed) {
		return SeverityRed
	}
	return SeverityYellow
}

type IssueStatus string

const (
	IssueOpen     IssueStatus = "open"
	IssueResolved IssueStatus = "resolved"
)

// Issue is a reported maintenance problem tied to exactly one room.
// Issues are never deleted; resolved issues stay for trend analysis.
type Issue struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	RoomID      string      `json:"room_id"`
	Reporter    string      `json:"reporter"`
	Severity    Severity    `json:"severity"`
	Status      IssueStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	Deadline    time.Time   `json:"deadline"`
	ResolvedAt  *time.Time  `json:"resolved_at"`
	Resolver    string      `json:"resolver,omitempty"`
}

func (i Issue) IsOpen() bool {
	return i.Status == IssueOpen
}
