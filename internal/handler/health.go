package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/smsgoals/internal/service"
)

type HealthHandler struct {
	db          *sqlx.DB
	goalService *service.GoalService
}

func NewHealthHandler(db *sqlx.DB, goalService *service.GoalService) *HealthHandler {
	return &HealthHandler{db: db, goalService: goalService}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.db.PingContext(ctx)
	if err != nil {
		slog.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":                "ok",
		"goal_count_mismatches": h.goalService.Mismatches(),
	})
}
