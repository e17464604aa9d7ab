package history

import (
	"context"
	"testing"
	"time"

	"github.com/shopsight/shopsight/internal/nlq"
)

type captureRepo struct {
	entries []Entry
}

func (c *captureRepo) Record(_ context.Context, entry Entry) error {
	c.entries = append(c.entries, entry)
	return nil
}

func (c *captureRepo) ListRecent(context.Context, int) ([]Entry, error) { return c.entries, nil }
func (c *captureRepo) HealthCheck(context.Context) error               { return nil }

func TestEngineRecorderMapsFields(t *testing.T) {
	repo := &captureRepo{}
	rec := NewEngineRecorder(repo)
	now := time.Now().UTC()

	err := rec.Record(context.Background(), nlq.HistoryEntry{
		AskedAt:    now,
		Question:   "top selling category",
		Intent:     nlq.IntentTopSelling,
		Status:     nlq.StatusSuccess,
		RowCount:   10,
		DurationMS: 42,
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(repo.entries))
	}
	got := repo.entries[0]
	if got.Intent != "top_selling" || got.Status != "success" || got.RowCount != 10 || got.DurationMS != 42 {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if !got.AskedAt.Equal(now) {
		t.Fatalf("AskedAt = %v, want %v", got.AskedAt, now)
	}
}
