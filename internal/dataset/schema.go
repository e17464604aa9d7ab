package dataset

import (
	"context"
	"fmt"
)

// TableInfo summarizes one loaded table for the schema endpoint.
type TableInfo struct {
	Name    string   `json:"name"`
	Rows    int64    `json:"rows"`
	Columns []string `json:"columns"`
}

// Describe lists every table in the analytical store with its columns and row
// count.
func Describe(ctx context.Context, db Store) ([]TableInfo, error) {
	result, err := db.Query(ctx, `
SELECT table_name, column_name
FROM information_schema.columns
WHERE table_schema = 'main'
ORDER BY table_name, ordinal_position`)
	if err != nil {
		return nil, fmt.Errorf("describe columns: %w", err)
	}

	order := make([]string, 0)
	columns := make(map[string][]string)
	for _, row := range result.Rows {
		if len(row) < 2 {
			continue
		}
		table := fmt.Sprintf("%v", row[0])
		column := fmt.Sprintf("%v", row[1])
		if _, seen := columns[table]; !seen {
			order = append(order, table)
		}
		columns[table] = append(columns[table], column)
	}

	infos := make([]TableInfo, 0, len(order))
	for _, table := range order {
		if !identifierPattern.MatchString(table) {
			continue
		}
		countResult, err := db.Query(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
		if err != nil {
			return nil, fmt.Errorf("count table %s: %w", table, err)
		}
		var rows int64
		if len(countResult.Rows) > 0 && len(countResult.Rows[0]) > 0 {
			if n, ok := countResult.Rows[0][0].(int64); ok {
				rows = n
			}
		}
		infos = append(infos, TableInfo{Name: table, Rows: rows, Columns: columns[table]})
	}
	return infos, nil
}
