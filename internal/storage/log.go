package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// LogStorage writes objects to the structured log. Used when no bucket is
// configured.
type LogStorage struct{}

func NewLogStorage() *LogStorage {
	return &LogStorage{}
}

func (s *LogStorage) Save(ctx context.Context, path string, body io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read object: %w", err)
	}
	slog.InfoContext(ctx, "object stored (log mode)", "path", path, "content", string(data))
	return nil
}

func (s *LogStorage) URL(path string) string {
	return "log://" + path
}
