package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

// PingFunc adapts a plain ping function, such as (*sql.DB).PingContext, to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Health(ctx context.Context) error { return f(ctx) }

// HealthHandler serves liveness and dependency health.
type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	body := healthBody{Status: "UP"}
	status := http.StatusOK
	if len(h.checks) > 0 {
		body.Checks = make(map[string]string, len(h.checks))
	}
	for name, p := range h.checks {
		if err := p.Health(ctx); err != nil {
			body.Checks[name] = "DOWN"
			body.Status = "DOWN"
			status = http.StatusServiceUnavailable
			continue
		}
		body.Checks[name] = "UP"
	}
	writeJSON(w, status, body)
}
