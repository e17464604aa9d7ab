package demo

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopsight/shopsight/internal/dataset"
	"github.com/shopsight/shopsight/internal/store/duckdb"
)

func TestGenerateProducesAllTables(t *testing.T) {
	files, err := Generate(Config{Orders: 100, Seed: 7})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(files) != 7 {
		t.Fatalf("got %d files, want 7", len(files))
	}
	wantTables := map[string]bool{
		"orders": false, "order_items": false, "customers": false,
		"products": false, "payments": false, "reviews": false, "sellers": false,
	}
	for _, file := range files {
		table := dataset.TableNameForFile(file.Name)
		if _, ok := wantTables[table]; !ok {
			t.Errorf("unexpected table %q from file %q", table, file.Name)
			continue
		}
		wantTables[table] = true
		if file.Rows == 0 || len(file.Data) == 0 {
			t.Errorf("file %q is empty", file.Name)
		}
	}
	for table, seen := range wantTables {
		if !seen {
			t.Errorf("missing table %q", table)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, err := Generate(Config{Orders: 50, Seed: 42})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, err := Generate(Config{Orders: 50, Seed: 42})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for i := range first {
		if first[i].Name != second[i].Name || first[i].Rows != second[i].Rows {
			t.Fatalf("run mismatch at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGeneratedDatasetIsQueryable(t *testing.T) {
	files, err := Generate(Config{Orders: 200, Seed: 1})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	dir := t.TempDir()
	if err := WriteLocal(dir, files); err != nil {
		t.Fatalf("WriteLocal() error = %v", err)
	}

	db, err := duckdb.Open(duckdb.Config{})
	if err != nil {
		t.Fatalf("duckdb.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	loader := dataset.NewLoader(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	loads, err := loader.LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(loads) != 7 {
		t.Fatalf("loaded %d tables, want 7", len(loads))
	}

	result, err := db.Query(context.Background(), `
SELECT p.product_category_name, COUNT(DISTINCT oi.order_id) AS orders
FROM products p
JOIN order_items oi ON p.product_id = oi.product_id
GROUP BY p.product_category_name
ORDER BY orders DESC`)
	if err != nil {
		t.Fatalf("query joined tables: %v", err)
	}
	if len(result.Rows) == 0 {
		t.Fatal("expected category rows from generated dataset")
	}
}
