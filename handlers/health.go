package handlers

import (
	"net/http"

	"sac-pickem-go/interfaces"
)

// HealthHandler reports database and feed reachability
type HealthHandler struct {
	db   interfaces.HealthChecker
	feed interfaces.HealthChecker // may be nil when no feed is configured
}

func NewHealthHandler(db, feed interfaces.HealthChecker) *HealthHandler {
	return &HealthHandler{db: db, feed: feed}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"database": "ok", "feed": "unconfigured"}
	healthy := true

	if err := h.db.TestConnection(r.Context()); err != nil {
		status["database"] = err.Error()
		healthy = false
	}

	if h.feed != nil {
		status["feed"] = "ok"
		if err := h.feed.TestConnection(r.Context()); err != nil {
			status["feed"] = err.Error()
			// A dead feed degrades scores but the pool still works
		}
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}
