package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/volcano-api/internal/http/respond"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler returns uptime and database reachability.
type HealthHandler struct {
	startedAt time.Time
	db        Pinger
}

// NewHealthHandler creates a health endpoint handler. db may be nil.
func NewHealthHandler(startedAt time.Time, db Pinger) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, db: db}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	}
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			body["status"] = "degraded"
			body["database"] = "unavailable"
			respond.JSON(w, http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "ok"
	}
	respond.JSON(w, http.StatusOK, body)
}
