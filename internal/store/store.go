package store

import (
	"context"
	"fmt"
	"time"
)

// Result holds the rows returned by one analytical query. Row shape depends
// entirely on the statement that produced it.
type Result struct {
	Columns  []string
	Rows     [][]any
	Duration time.Duration
}

type Executor interface {
	Query(ctx context.Context, sqlText string) (Result, error)
}

// QueryError carries the failing statement for diagnostics. The statement is
// never surfaced to end users directly.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
