package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hostel-sentinel/internal/models"
	"hostel-sentinel/internal/repository"
	"hostel-sentinel/internal/service"
	"hostel-sentinel/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupServer(t *testing.T) *httptest.Server {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := store.NewRedisKV(client)

	tracker := service.NewTracker(
		repository.NewRoomsRepo(kv, "sentinel:"),
		repository.NewIssuesRepo(kv, "sentinel:"),
		repository.NewUserRepo(kv, "sentinel:"),
		zap.NewNop(),
	)
	require.NoError(t, tracker.Seed(context.Background()))

	router := NewRouter(zap.NewNop())
	router.RegisterSentinelRoutes(NewSentinelHandler(tracker, zap.NewNop(), 30, 7))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeResult[T any](t *testing.T, resp *http.Response) T {
	defer resp.Body.Close()
	var res Result[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res.Result
}

func TestReportAndResolve_EndToEnd(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/issues", reportRequest{
		RoomID: "A-Floor1-R1", Title: "Sparking socket",
		Description: "socket sparks on plug-in", Severity: "red", Reporter: "student1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	issue := decodeResult[models.Issue](t, resp)
	assert.Equal(t, models.SeverityRed, issue.Severity)

	roomsResp, err := http.Get(srv.URL + "/api/v1/rooms")
	require.NoError(t, err)
	rooms := decodeResult[[]models.Room](t, roomsResp)
	require.Len(t, rooms, 72)
	for _, r := range rooms {
		if r.ID == "A-Floor1-R1" {
			assert.Equal(t, models.RoomRed, r.Status)
		}
	}

	resp = postJSON(t, srv.URL+"/api/v1/issues/"+issue.ID+"/resolve", resolveRequest{Resolver: "electrician1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resolved := decodeResult[models.Issue](t, resp)
	assert.Equal(t, models.IssueResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	resp = postJSON(t, srv.URL+"/api/v1/issues/"+issue.ID+"/resolve", resolveRequest{Resolver: "electrician2"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestReportIssue_ValidationAndNotFound(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/issues", reportRequest{
		RoomID: "A-Floor1-R1", Title: "", Severity: "yellow", Reporter: "student1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/v1/issues", reportRequest{
		RoomID: "Z-Floor9-R9", Title: "Leak", Severity: "yellow", Reporter: "student1",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/v1/issues/no-such-id/resolve", resolveRequest{Resolver: "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestListIssues_StatusFilter(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/issues", reportRequest{
		RoomID: "A-Floor1-R1", Title: "Leak", Severity: "yellow", Reporter: "student1",
	})
	issue := decodeResult[models.Issue](t, resp)
	postJSON(t, srv.URL+"/api/v1/issues/"+issue.ID+"/resolve", resolveRequest{Resolver: "c"}).Body.Close()
	postJSON(t, srv.URL+"/api/v1/issues", reportRequest{
		RoomID: "A-Floor1-R2", Title: "Mould", Severity: "yellow", Reporter: "student2",
	}).Body.Close()

	listResp, err := http.Get(srv.URL + "/api/v1/issues?status=open")
	require.NoError(t, err)
	openIssues := decodeResult[[]models.Issue](t, listResp)
	require.Len(t, openIssues, 1)
	assert.Equal(t, "Mould", openIssues[0].Title)
}

func TestDashboard(t *testing.T) {
	srv := setupServer(t)

	postJSON(t, srv.URL+"/api/v1/issues", reportRequest{
		RoomID: "A-Floor1-R1", Title: "Leak", Severity: "yellow", Reporter: "student1",
	}).Body.Close()

	resp, err := http.Get(srv.URL + "/api/v1/dashboard")
	require.NoError(t, err)
	dash := decodeResult[dashboardResponse](t, resp)
	assert.Equal(t, 72, dash.TotalRooms)
	assert.Equal(t, 1, dash.OpenIssues)
	require.NotEmpty(t, dash.Insights)
	assert.False(t, dash.Anomaly.Alert)
}

func TestTrendEndpoint(t *testing.T) {
	srv := setupServer(t)

	postJSON(t, srv.URL+"/api/v1/issues", reportRequest{
		RoomID: "A-Floor1-R1", Title: "Leak", Severity: "yellow", Reporter: "student1",
	}).Body.Close()

	resp, err := http.Get(srv.URL + "/api/v1/analytics/trend")
	require.NoError(t, err)
	trend := decodeResult[trendResponse](t, resp)
	require.Len(t, trend.DailyCounts, 30)
	assert.Equal(t, 1, trend.DailyCounts[29])
}

func TestHeatmapAndHotspotsEndpoints(t *testing.T) {
	srv := setupServer(t)

	postJSON(t, srv.URL+"/api/v1/issues", reportRequest{
		RoomID: "A-Floor1-R1", Title: "Leak", Severity: "yellow", Reporter: "student1",
	}).Body.Close()

	resp, err := http.Get(srv.URL + "/api/v1/analytics/heatmap")
	require.NoError(t, err)
	heat := decodeResult[map[string]map[string]string](t, resp)
	assert.Equal(t, "low", heat["A"]["1"])
	assert.Equal(t, "none", heat["A"]["2"])

	resp, err = http.Get(srv.URL + "/api/v1/analytics/hotspots")
	require.NoError(t, err)
	hotspots := decodeResult[[]map[string]any](t, resp)
	require.Len(t, hotspots, 1)
	assert.Equal(t, "A-Floor1-R1", hotspots[0]["room_id"])
}

func TestAssistantEndpoint(t *testing.T) {
	srv := setupServer(t)

	postJSON(t, srv.URL+"/api/v1/issues", reportRequest{
		RoomID: "A-Floor1-R1", Title: "Water leak", Description: "pipe dripping",
		Severity: "yellow", Reporter: "student1",
	}).Body.Close()

	resp := postJSON(t, srv.URL+"/api/v1/assistant", assistantRequest{Query: "rooms with water"})
	answer := decodeResult[assistantResponse](t, resp)
	assert.Equal(t, "Matches: A-Floor1-R1", answer.Answer)

	resp = postJSON(t, srv.URL+"/api/v1/assistant", assistantRequest{Query: "hello"})
	answer = decodeResult[assistantResponse](t, resp)
	assert.Contains(t, answer.Answer, "Try asking")
}

func TestExportAndReset(t *testing.T) {
	srv := setupServer(t)

	postJSON(t, srv.URL+"/api/v1/issues", reportRequest{
		RoomID: "A-Floor1-R1", Title: "Leak", Severity: "red", Reporter: "student1",
	}).Body.Close()

	resp, err := http.Get(srv.URL + "/api/v1/export")
	require.NoError(t, err)
	var doc service.ExportDoc
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	resp.Body.Close()
	assert.Len(t, doc.Rooms, 72)
	assert.Len(t, doc.Issues, 1)

	resp = postJSON(t, srv.URL+"/api/v1/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/export")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	resp.Body.Close()
	assert.Empty(t, doc.Issues)
}

func TestSessionLifecycle(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/session")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	raw, _ := json.Marshal(models.User{Name: "student1", Username: "student1", Role: "student"})
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/session", bytes.NewReader(raw))
	require.NoError(t, err)
	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, putResp.StatusCode)
	putResp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/session")
	require.NoError(t, err)
	user := decodeResult[models.User](t, resp)
	assert.Equal(t, "student1", user.Name)

	delReq, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/session", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(delReq)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, delResp.StatusCode)
	delResp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/session")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
