package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopsight/shopsight/internal/history"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the query-log table if it is missing. Safe to call on
// every startup.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS query_history (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    asked_at TIMESTAMPTZ NOT NULL,
    question TEXT NOT NULL,
    intent TEXT NOT NULL,
    status TEXT NOT NULL,
    row_count INT NOT NULL DEFAULT 0,
    duration_ms BIGINT NOT NULL DEFAULT 0
)`)
	if err != nil {
		return fmt.Errorf("ensure query_history schema: %w", err)
	}
	return nil
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping history db: %w", err)
	}
	return nil
}

func (r *Repository) Record(ctx context.Context, entry history.Entry) error {
	query := `
INSERT INTO query_history (asked_at, question, intent, status, row_count, duration_ms)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		entry.AskedAt, entry.Question, entry.Intent, entry.Status, entry.RowCount, entry.DurationMS,
	); err != nil {
		return fmt.Errorf("record query: %w", err)
	}
	return nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]history.Entry, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, asked_at, question, intent, status, row_count, duration_ms
FROM query_history
ORDER BY asked_at DESC, id DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent queries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]history.Entry, 0)
	for rows.Next() {
		var entry history.Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.AskedAt,
			&entry.Question,
			&entry.Intent,
			&entry.Status,
			&entry.RowCount,
			&entry.DurationMS,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return entries, nil
}
