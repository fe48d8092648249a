package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	serviceName      = "expenseops"
	readinessTimeout = 2 * time.Second
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Service    string                `json:"service"`
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
}

// HealthHandler answers liveness and readiness probes. Readiness is gated on
// the expense database: without it every authenticated route is dead anyway.
type HealthHandler struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewHealthHandler(db *sql.DB, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// pingHandler reports liveness only, no dependency checks.
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

// healthCheckHandler reports readiness: 200 when the expense store answers a
// bounded ping, 503 otherwise.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	dbEntry := h.checkDatabase(r.Context())

	resp := HealthResponse{
		Service:    serviceName,
		Status:     dbEntry.Status,
		CheckedAt:  time.Now(),
		Components: map[string]CheckEntry{"postgres": dbEntry},
	}

	statusCode := http.StatusOK
	if resp.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
		h.logger.Error("readiness check failed, expense store unreachable",
			"component", "postgres", "error", dbEntry.Message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckEntry {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)

	entry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	}
	return entry
}
