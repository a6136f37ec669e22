package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hostel-sentinel/internal/analytics"
	"hostel-sentinel/internal/models"
	"hostel-sentinel/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
	deadlineDays      = 30
)

// Seed roster: 3 blocks x 3 floors x 8 rooms.
var seedBlocks = []string{"A", "B", "C"}

const (
	seedFloors        = 3
	seedRoomsPerFloor = 8
)

// AlertPublisher receives spike alerts raised right after a report.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, a analytics.Anomaly) error
}

// Tracker owns the issue lifecycle. It is the only writer of room and issue
// status; analytics and the assistant read snapshots through it.
type Tracker struct {
	rooms    *repository.RoomsRepo
	issues   *repository.IssuesRepo
	users    *repository.UserRepo
	logger   *zap.Logger
	notifier AlertPublisher

	now   func() time.Time
	newID func() string
}

func NewTracker(rooms *repository.RoomsRepo, issues *repository.IssuesRepo, users *repository.UserRepo, logger *zap.Logger) *Tracker {
	return &Tracker{
		rooms:  rooms,
		issues: issues,
		users:  users,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// SetNotifier attaches an optional spike-alert publisher.
func (t *Tracker) SetNotifier(n AlertPublisher) { t.notifier = n }

// Report files a new issue and cascades the owning room's status.
func (t *Tracker) Report(ctx context.Context, roomID, title, description, severity, reporter string) (*models.Issue, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	title = truncate(title, maxTitleLen)
	description = truncate(description, maxDescriptionLen)

	rooms, err := t.rooms.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	roomIdx := findRoom(rooms, roomID)
	if roomIdx < 0 {
		return nil, fmt.Errorf("report for %q: %w", roomID, ErrRoomNotFound)
	}

	issues, err := t.issues.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	id := t.newID()
	for _, it := range issues {
		if it.ID == id {
			// Must abort, never overwrite history.
			t.logger.Error("Duplicate issue id generated", zap.String("issue_id", id))
			return nil, &InvariantViolation{Detail: fmt.Sprintf("duplicate issue id %s", id)}
		}
	}

	now := t.now()
	issue := models.Issue{
		ID:          id,
		Title:       title,
		Description: description,
		RoomID:      roomID,
		Reporter:    reporter,
		Severity:    models.CoerceSeverity(severity),
		Status:      models.IssueOpen,
		CreatedAt:   now,
		Deadline:    now.Add(deadlineDays * 24 * time.Hour),
	}

	// Newest first, like the issue feed.
	issues = append([]models.Issue{issue}, issues...)
	if err := t.issues.SaveAll(ctx, issues); err != nil {
		return nil, err
	}

	rooms[roomIdx].Status = deriveRoomStatus(issues, roomID)
	rooms[roomIdx].LastUpdated = now
	if err := t.rooms.SaveAll(ctx, rooms); err != nil {
		return nil, err
	}

	t.logger.Info("Issue reported",
		zap.String("issue_id", issue.ID),
		zap.String("room_id", roomID),
		zap.String("severity", string(issue.Severity)),
		zap.String("reporter", reporter),
	)

	t.publishSpikeAlert(ctx, issues, now)
	return &issue, nil
}

// Resolve closes an open issue and re-derives the owning room's status from
// its remaining open issues. Resolving twice is rejected.
func (t *Tracker) Resolve(ctx context.Context, issueID, resolver string) (*models.Issue, error) {
	issues, err := t.issues.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range issues {
		if issues[i].ID == issueID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("resolve %q: %w", issueID, ErrIssueNotFound)
	}
	if issues[idx].Status == models.IssueResolved {
		return nil, fmt.Errorf("resolve %q: %w", issueID, ErrAlreadyResolved)
	}

	now := t.now()
	issues[idx].Status = models.IssueResolved
	issues[idx].ResolvedAt = &now
	issues[idx].Resolver = resolver
	if err := t.issues.SaveAll(ctx, issues); err != nil {
		return nil, err
	}

	roomID := issues[idx].RoomID
	rooms, err := t.rooms.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if roomIdx := findRoom(rooms, roomID); roomIdx >= 0 {
		rooms[roomIdx].Status = deriveRoomStatus(issues, roomID)
		rooms[roomIdx].LastUpdated = now
		if err := t.rooms.SaveAll(ctx, rooms); err != nil {
			return nil, err
		}
	}

	t.logger.Info("Issue resolved",
		zap.String("issue_id", issueID),
		zap.String("room_id", roomID),
		zap.String("resolver", resolver),
	)
	resolved := issues[idx]
	return &resolved, nil
}

// Snapshot returns the fully materialized rooms and issues for the
// read-only analytics components.
func (t *Tracker) Snapshot(ctx context.Context) ([]models.Room, []models.Issue, error) {
	rooms, err := t.rooms.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	issues, err := t.issues.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return rooms, issues, nil
}

// Seed provisions the roster only when none exists yet.
func (t *Tracker) Seed(ctx context.Context) error {
	rooms, err := t.rooms.LoadAll(ctx)
	if err != nil {
		return err
	}
	if len(rooms) > 0 {
		return nil
	}
	return t.Reset(ctx)
}

// Reset clears both collections and reseeds the fixed 72-room roster, all
// green with zero issues.
func (t *Tracker) Reset(ctx context.Context) error {
	now := t.now()
	rooms := make([]models.Room, 0, len(seedBlocks)*seedFloors*seedRoomsPerFloor)
	for _, block := range seedBlocks {
		for f := 1; f <= seedFloors; f++ {
			for n := 1; n <= seedRoomsPerFloor; n++ {
				rooms = append(rooms, models.Room{
					ID:          models.RoomID(block, f, n),
					Block:       block,
					Floor:       f,
					Number:      n,
					Status:      models.RoomGreen,
					LastUpdated: now,
				})
			}
		}
	}
	if err := t.rooms.SaveAll(ctx, rooms); err != nil {
		return err
	}
	if err := t.issues.SaveAll(ctx, []models.Issue{}); err != nil {
		return err
	}
	t.logger.Info("Roster reseeded", zap.Int("rooms", len(rooms)))
	return nil
}

// ExportDoc is the on-demand export payload.
type ExportDoc struct {
	Rooms  []models.Room  `json:"rooms"`
	Issues []models.Issue `json:"issues"`
}

func (t *Tracker) Export(ctx context.Context) (*ExportDoc, error) {
	rooms, issues, err := t.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &ExportDoc{Rooms: rooms, Issues: issues}, nil
}

// CurrentUser returns the stored user record, nil when signed out.
func (t *Tracker) CurrentUser(ctx context.Context) (*models.User, error) {
	return t.users.Load(ctx)
}

func (t *Tracker) SetCurrentUser(ctx context.Context, u models.User) error {
	return t.users.Save(ctx, u)
}

func (t *Tracker) ClearCurrentUser(ctx context.Context) error {
	return t.users.Clear(ctx)
}

func (t *Tracker) publishSpikeAlert(ctx context.Context, issues []models.Issue, now time.Time) {
	if t.notifier == nil {
		return
	}
	a := analytics.DetectSpike(issues, now)
	if !a.Alert {
		return
	}
	if err := t.notifier.PublishAlert(ctx, a); err != nil {
		t.logger.Warn("Failed to publish spike alert", zap.Error(err))
	}
}

// deriveRoomStatus re-scans the room's open issues: red wins over yellow,
// no open issues means green. Never trusts a cached flag.
func deriveRoomStatus(issues []models.Issue, roomID string) models.RoomStatus {
	status := models.RoomGreen
	for _, it := range issues {
		if it.RoomID != roomID || !it.IsOpen() {
			continue
		}
		if it.Severity == models.SeverityRed {
			return models.RoomRed
		}
		status = models.RoomYellow
	}
	return status
}

func findRoom(rooms []models.Room, roomID string) int {
	for i := range rooms {
		if rooms[i].ID == roomID {
			return i
		}
	}
	return -1
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
