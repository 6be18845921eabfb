package handlers

import (
	"net/http"
	"time"

	"github.com/loreleaf/loreleaf/pkg/metadata/store"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store   *store.GORMStore
	version string
	started time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(s *store.GORMStore, version string) *HealthHandler {
	return &HealthHandler{store: s, version: version, started: time.Now()}
}

// Live handles GET /health/live. It answers as long as the process runs.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, map[string]any{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// Ready handles GET /health/ready. Readiness requires a responsive
// database.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		WriteError(w, http.StatusServiceUnavailable, CodeInternal, "Database unavailable")
		return
	}
	WriteJSONOK(w, map[string]any{"status": "ready"})
}
