package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router wraps the standard library http.ServeMux; the API surface is small
// enough that a third-party router buys nothing.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterSentinelRoutes wires the issue, analytics, assistant and admin
// endpoints.
func (r *Router) RegisterSentinelRoutes(h *SentinelHandler) {
	r.Handle("/api/v1/issues", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListIssues(w, req)
		case http.MethodPost:
			h.ReportIssue(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// issues/{id}/resolve
	r.Handle("/api/v1/issues/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/api/v1/issues/")
		id, action, ok := strings.Cut(rest, "/")
		if !ok || id == "" || action != "resolve" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.ResolveIssue(w, req, id)
	})

	r.Handle("/api/v1/rooms", methodOnly(http.MethodGet, h.ListRooms))
	r.Handle("/api/v1/dashboard", methodOnly(http.MethodGet, h.GetDashboard))
	r.Handle("/api/v1/analytics/trend", methodOnly(http.MethodGet, h.GetTrend))
	r.Handle("/api/v1/analytics/heatmap", methodOnly(http.MethodGet, h.GetHeatmap))
	r.Handle("/api/v1/analytics/hotspots", methodOnly(http.MethodGet, h.GetHotspots))
	r.Handle("/api/v1/assistant", methodOnly(http.MethodPost, h.AskAssistant))
	r.Handle("/api/v1/export", methodOnly(http.MethodGet, h.Export))
	r.Handle("/api/v1/reset", methodOnly(http.MethodPost, h.Reset))

	r.Handle("/api/v1/session", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.GetSession(w, req)
		case http.MethodPut:
			h.PutSession(w, req)
		case http.MethodDelete:
			h.DeleteSession(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}
