package duckdb

import (
	"context"
	"errors"
	"testing"

	"github.com/shopsight/shopsight/internal/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Config{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestQueryReturnsRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Exec(ctx, `CREATE TABLE orders (order_id VARCHAR, order_status VARCHAR)`); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if err := db.Exec(ctx, `INSERT INTO orders VALUES ('o1', 'delivered'), ('o2', 'shipped')`); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	result, err := db.Query(ctx, "SELECT COUNT(*) AS c FROM orders")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(result.Columns) != 1 || result.Columns[0] != "c" {
		t.Fatalf("columns = %v", result.Columns)
	}
	if len(result.Rows) != 1 || result.Rows[0][0] != int64(2) {
		t.Fatalf("rows = %#v", result.Rows)
	}
}

func TestQueryAppliesRowLimit(t *testing.T) {
	db, err := Open(Config{RowLimit: 2})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()
	ctx := context.Background()

	if err := db.Exec(ctx, `CREATE TABLE nums AS SELECT * FROM range(10)`); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	result, err := db.Query(ctx, "SELECT * FROM nums;")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("rows = %d, want row limit applied", len(result.Rows))
	}
}

func TestQueryMissingTableReturnsQueryError(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Query(context.Background(), "SELECT * FROM missing_table")
	if err == nil {
		t.Fatal("expected error for missing table")
	}
	var queryErr *store.QueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("error type = %T", err)
	}
	if queryErr.SQL != "SELECT * FROM missing_table" {
		t.Fatalf("QueryError.SQL = %q", queryErr.SQL)
	}
}

func TestQueryRejectsEmptySQL(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Query(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty sql")
	}
}
