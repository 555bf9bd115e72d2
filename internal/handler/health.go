package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthDep struct {
	name   string
	pinger Pinger
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	deps []healthDep
}

// NewHealthHandler creates a HealthHandler over the database and cache.
// A nil dependency is reported as "not configured" rather than failing.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{
		deps: []healthDep{
			{name: "postgres", pinger: db},
			{name: "redis", pinger: cache},
		},
	}
}

// HealthResponse is the JSON body of both probes.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is the liveness probe: 200 whenever the process serves.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is the readiness probe: 200 only when every configured
// dependency answers a ping within the deadline.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	status := http.StatusOK

	for _, dep := range h.deps {
		if dep.pinger == nil {
			checks[dep.name] = "not configured"
			continue
		}
		if err := dep.pinger.Ping(ctx); err != nil {
			checks[dep.name] = "error: " + err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[dep.name] = "ok"
	}

	body := HealthResponse{Status: "ok", Checks: checks}
	if status != http.StatusOK {
		body.Status = "unhealthy"
	}
	writeJSON(w, status, body)
}
