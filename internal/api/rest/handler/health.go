package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

const readinessTimeout = 2 * time.Second

// Health serves liveness and readiness probes.
type Health struct {
	checks map[string]model.Pinger
	logger *logger.Logger
}

// NewHealth creates a Health handler. checks maps a dependency name to its pinger.
func NewHealth(checks map[string]model.Pinger, logger *logger.Logger) *Health {
	return &Health{checks: checks, logger: logger}
}

func (h *Health) Liveness(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, r, http.StatusOK, response.Status{Status: "ok"})
}

// Readiness pings every dependency and reports 503 if any of them fails.
func (h *Health) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := response.Status{Status: "ok", Checks: make(map[string]string, len(names))}
	code := http.StatusOK
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			h.logger.Warn("Health handler: dependency unavailable",
				"dependency", name,
				"error", err.Error())
			status.Checks[name] = "unavailable"
			status.Status = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		status.Checks[name] = "ok"
	}

	response.WriteJSON(w, r, code, status)
}
