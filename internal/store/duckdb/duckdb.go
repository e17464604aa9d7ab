package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/shopsight/shopsight/internal/store"
)

// DB wraps a single long-lived DuckDB connection pool with an explicit
// lifecycle. Queries are serialized through a mutex: the analytical store is
// shared process-wide and callers must not assume it tolerates unmoderated
// concurrent statements.
type DB struct {
	db       *sql.DB
	rowLimit int
	mu       sync.Mutex
}

type Config struct {
	// Path is the database file; empty opens an in-memory database.
	Path string
	// RowLimit caps the number of rows returned per query when positive.
	RowLimit int
}

func Open(cfg Config) (*DB, error) {
	db, err := sql.Open("duckdb", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	// A single connection keeps registered tables visible to every query
	// against the in-memory database.
	db.SetMaxOpenConns(1)
	return &DB{db: db, rowLimit: cfg.RowLimit}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Exec runs a statement that returns no rows, such as dataset loading DDL.
func (d *DB) Exec(ctx context.Context, sqlText string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.db.ExecContext(ctx, sqlText); err != nil {
		return &store.QueryError{SQL: sqlText, Err: err}
	}
	return nil
}

func (d *DB) Query(ctx context.Context, sqlText string) (store.Result, error) {
	if strings.TrimSpace(sqlText) == "" {
		return store.Result{}, fmt.Errorf("sql is required")
	}

	statement := stripTrailingSemicolons(sqlText)
	if d.rowLimit > 0 {
		statement = fmt.Sprintf("SELECT * FROM (%s) AS q LIMIT %d", statement, d.rowLimit)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	rows, err := d.db.QueryContext(ctx, statement)
	if err != nil {
		return store.Result{}, &store.QueryError{SQL: sqlText, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return store.Result{}, &store.QueryError{SQL: sqlText, Err: fmt.Errorf("query columns: %w", err)}
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return store.Result{}, &store.QueryError{SQL: sqlText, Err: fmt.Errorf("scan row: %w", err)}
		}
		resultRows = append(resultRows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return store.Result{}, &store.QueryError{SQL: sqlText, Err: fmt.Errorf("iterate rows: %w", err)}
	}

	return store.Result{
		Columns:  columns,
		Rows:     resultRows,
		Duration: time.Since(start),
	}, nil
}

func normalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}

func stripTrailingSemicolons(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	for strings.HasSuffix(trimmed, ";") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	}
	return trimmed
}
