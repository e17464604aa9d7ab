// Package history persists answered questions so operators can review what
// the engine has been asked and how it responded.
package history

import (
	"context"
	"time"
)

// Entry is one answered question in the query log.
type Entry struct {
	ID         int64     `json:"id"`
	AskedAt    time.Time `json:"asked_at"`
	Question   string    `json:"question"`
	Intent     string    `json:"intent"`
	Status     string    `json:"status"`
	RowCount   int       `json:"row_count"`
	DurationMS int64     `json:"duration_ms"`
}

// Repository stores and retrieves query-log entries.
type Repository interface {
	Record(ctx context.Context, entry Entry) error
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
	HealthCheck(ctx context.Context) error
}
