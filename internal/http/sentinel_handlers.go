package httpapi

import (
	"net/http"
	"sync"
	"time"

	"hostel-sentinel/internal/analytics"
	"hostel-sentinel/internal/assistant"
	"hostel-sentinel/internal/models"
	"hostel-sentinel/internal/service"

	"go.uber.org/zap"
)

// SentinelHandler exposes the tracker and the read-only analytics over
// HTTP. Mutations (report/resolve/reset/session writes) are serialized with
// one mutex: the core assumes a single writer, and the HTTP layer is the
// place where concurrent callers appear.
type SentinelHandler struct {
	tracker     *service.Tracker
	assistant   *assistant.Assistant
	logger      *zap.Logger
	windowDays  int
	horizonDays int

	mu sync.Mutex
}

func NewSentinelHandler(tracker *service.Tracker, logger *zap.Logger, windowDays, horizonDays int) *SentinelHandler {
	return &SentinelHandler{
		tracker:     tracker,
		assistant:   assistant.New(),
		logger:      logger,
		windowDays:  windowDays,
		horizonDays: horizonDays,
	}
}

type reportRequest struct {
	RoomID      string `json:"room_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Reporter    string `json:"reporter"`
}

// POST /api/v1/issues
func (h *SentinelHandler) ReportIssue(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid JSON body"))
		return
	}

	h.mu.Lock()
	issue, err := h.tracker.Report(r.Context(), req.RoomID, req.Title, req.Description, req.Severity, req.Reporter)
	h.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(issue))
}

type resolveRequest struct {
	Resolver string `json:"resolver"`
}

// POST /api/v1/issues/{id}/resolve
func (h *SentinelHandler) ResolveIssue(w http.ResponseWriter, r *http.Request, issueID string) {
	var req resolveRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid JSON body"))
		return
	}

	h.mu.Lock()
	issue, err := h.tracker.Resolve(r.Context(), issueID, req.Resolver)
	h.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(issue))
}

// GET /api/v1/issues?status=open|resolved
func (h *SentinelHandler) ListIssues(w http.ResponseWriter, r *http.Request) {
	_, issues, err := h.tracker.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filtered := make([]models.Issue, 0, len(issues))
		for _, it := range issues {
			if string(it.Status) == status {
				filtered = append(filtered, it)
			}
		}
		issues = filtered
	}
	writeJSON(w, http.StatusOK, Ok(issues))
}

// GET /api/v1/rooms
func (h *SentinelHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, _, err := h.tracker.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(rooms))
}

type dashboardResponse struct {
	TotalRooms int               `json:"total_rooms"`
	OpenIssues int               `json:"open_issues"`
	Insights   []models.Insight  `json:"insights"`
	Anomaly    analytics.Anomaly `json:"anomaly"`
}

// GET /api/v1/dashboard
func (h *SentinelHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	rooms, issues, err := h.tracker.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	now := time.Now()
	openCount := 0
	for _, it := range issues {
		if it.IsOpen() {
			openCount++
		}
	}
	writeJSON(w, http.StatusOK, Ok(dashboardResponse{
		TotalRooms: len(rooms),
		OpenIssues: openCount,
		Insights:   analytics.Insights(issues, now),
		Anomaly:    analytics.DetectSpike(issues, now),
	}))
}

type trendResponse struct {
	DailyCounts []int              `json:"daily_counts"`
	Forecast    analytics.Forecast `json:"forecast"`
}

// GET /api/v1/analytics/trend
func (h *SentinelHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	_, issues, err := h.tracker.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	now := time.Now()
	writeJSON(w, http.StatusOK, Ok(trendResponse{
		DailyCounts: analytics.DailyCounts(issues, now, h.windowDays),
		Forecast:    analytics.ForecastIssues(issues, now, h.windowDays, h.horizonDays),
	}))
}

// GET /api/v1/analytics/heatmap
func (h *SentinelHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	rooms, issues, err := h.tracker.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(analytics.HeatIntensity(rooms, issues)))
}

// GET /api/v1/analytics/hotspots
func (h *SentinelHandler) GetHotspots(w http.ResponseWriter, r *http.Request) {
	_, issues, err := h.tracker.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(analytics.TopHotspots(issues, 5)))
}

type assistantRequest struct {
	Query string `json:"query"`
}

type assistantResponse struct {
	Answer string `json:"answer"`
}

// POST /api/v1/assistant
func (h *SentinelHandler) AskAssistant(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid JSON body"))
		return
	}
	rooms, issues, err := h.tracker.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	answer := h.assistant.Answer(req.Query, assistant.Snapshot{
		Rooms:  rooms,
		Issues: issues,
		Now:    time.Now(),
	})
	writeJSON(w, http.StatusOK, Ok(assistantResponse{Answer: answer}))
}

// GET /api/v1/export
func (h *SentinelHandler) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.tracker.Export(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	// raw document, not the Result envelope: this is the download payload
	writeJSON(w, http.StatusOK, doc)
}

// POST /api/v1/reset
func (h *SentinelHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	err := h.tracker.Reset(r.Context())
	h.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	h.logger.Info("Data reset requested over HTTP")
	writeJSON(w, http.StatusOK, Ok("reset"))
}

// GET /api/v1/session
func (h *SentinelHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	u, err := h.tracker.CurrentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if u == nil {
		writeJSON(w, http.StatusNotFound, Fail("not signed in"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(u))
}

// PUT /api/v1/session
func (h *SentinelHandler) PutSession(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := readBodyJSON(r, 1<<20, &u); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid JSON body"))
		return
	}
	if u.Name == "" {
		writeJSON(w, http.StatusBadRequest, Fail("name is required"))
		return
	}
	if u.Role == "" {
		u.Role = "student"
	}

	h.mu.Lock()
	err := h.tracker.SetCurrentUser(r.Context(), u)
	h.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(u))
}

// DELETE /api/v1/session
func (h *SentinelHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	err := h.tracker.ClearCurrentUser(r.Context())
	h.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok("signed out"))
}
