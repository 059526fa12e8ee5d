package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"github.com/google/uuid"
	"github.com/templui/smsgoals/internal/model"
	"github.com/templui/smsgoals/internal/storage"
)

func newReport(job string, clock Clock) *model.SweepReport {
	return &model.SweepReport{
		RunID:     uuid.New().String(),
		Job:       job,
		Date:      clock.Today().String(),
		StartedAt: clock.Now().UTC(),
	}
}

// ReportService archives sweep reports.
type ReportService struct {
	storage storage.Storage
}

func NewReportService(s storage.Storage) *ReportService {
	return &ReportService{storage: s}
}

func ReportPath(r *model.SweepReport) string {
	return path.Join("reports", r.Job, r.Date, r.RunID+".json")
}

func (s *ReportService) Archive(ctx context.Context, r *model.SweepReport) (string, error) {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	key := ReportPath(r)
	err = s.storage.Save(ctx, key, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to archive report: %w", err)
	}

	slog.Info("sweep report archived", "job", r.Job, "run_id", r.RunID, "location", s.storage.URL(key))
	return key, nil
}
