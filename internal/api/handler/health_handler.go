package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, l *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: l.With("component", "HealthHandler")}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.WarnContext(r.Context(), "Health check failed", slog.Any("error", err))
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
