package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/smsgoals/internal/ctxkeys"
	"github.com/templui/smsgoals/internal/scheduler"
)

type AdminHandler struct {
	scheduler *scheduler.Scheduler
}

func NewAdminHandler(s *scheduler.Scheduler) *AdminHandler {
	return &AdminHandler{scheduler: s}
}

type jobInfo struct {
	Name    string    `json:"name"`
	NextRun time.Time `json:"next_run"`
}

func (h *AdminHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	var jobs []jobInfo
	for _, name := range h.scheduler.Jobs() {
		next, err := h.scheduler.NextRun(name)
		if err != nil {
			continue
		}
		jobs = append(jobs, jobInfo{Name: name, NextRun: next})
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// RunJob runs a job to completion and returns its report. The run survives a
// dropped client connection.
func (h *AdminHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	slog.Info("admin job trigger", "job", name, "subject", ctxkeys.AdminSubject(r.Context()))

	report, err := h.scheduler.RunNow(context.WithoutCancel(r.Context()), name)
	switch {
	case errors.Is(err, scheduler.ErrUnknownJob):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, scheduler.ErrJobRunning):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil && report == nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, report)
}
