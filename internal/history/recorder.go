package history

import (
	"context"

	"github.com/shopsight/shopsight/internal/nlq"
)

// EngineRecorder adapts a Repository to the engine's recorder hook.
type EngineRecorder struct {
	repo Repository
}

func NewEngineRecorder(repo Repository) *EngineRecorder {
	return &EngineRecorder{repo: repo}
}

func (r *EngineRecorder) Record(ctx context.Context, entry nlq.HistoryEntry) error {
	return r.repo.Record(ctx, Entry{
		AskedAt:    entry.AskedAt,
		Question:   entry.Question,
		Intent:     string(entry.Intent),
		Status:     string(entry.Status),
		RowCount:   entry.RowCount,
		DurationMS: entry.DurationMS,
	})
}
