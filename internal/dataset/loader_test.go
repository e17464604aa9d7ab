package dataset

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopsight/shopsight/internal/storage"
	"github.com/shopsight/shopsight/internal/store/duckdb"
)

func TestTableNameForFile(t *testing.T) {
	cases := []struct {
		file string
		want string
	}{
		{"olist_orders_dataset.csv", "orders"},
		{"olist_order_items_dataset.csv", "order_items"},
		{"olist_customers_dataset.csv", "customers"},
		{"olist_order_reviews_dataset.csv", "reviews"},
		{"olist_sellers_dataset.csv", "sellers"},
		{"olist_products_dataset.csv", "products"},
		{"product_category_name_translation.csv", "category_names"},
		{"olist_order_payments_dataset.csv", "payments"},
		{"olist_geolocation_dataset.csv", "geolocation"},
		{"my-custom-table.parquet", "my_custom_table"},
	}
	for _, tc := range cases {
		if got := TableNameForFile(tc.file); got != tc.want {
			t.Errorf("TableNameForFile(%q) = %q, want %q", tc.file, got, tc.want)
		}
	}
}

func newTestStore(t *testing.T) *duckdb.DB {
	t.Helper()
	db, err := duckdb.Open(duckdb.Config{})
	if err != nil {
		t.Fatalf("duckdb.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadDirCreatesTables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "olist_orders_dataset.csv",
		"order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date\n"+
			"o1,c1,delivered,2024-01-05 10:00:00,2024-01-10 10:00:00\n"+
			"o2,c2,shipped,2024-02-05 10:00:00,\n")
	writeFile(t, dir, "olist_order_items_dataset.csv",
		"order_id,product_id,price\no1,p1,100.50\no2,p2,80.00\n")

	db := newTestStore(t)
	loader := NewLoader(db, testLogger())

	loads, err := loader.LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(loads) != 2 {
		t.Fatalf("loaded %d tables, want 2", len(loads))
	}

	result, err := db.Query(context.Background(), "SELECT COUNT(*) FROM orders")
	if err != nil {
		t.Fatalf("query orders: %v", err)
	}
	if n, ok := result.Rows[0][0].(int64); !ok || n != 2 {
		t.Fatalf("orders count = %v", result.Rows[0][0])
	}
}

func TestLoadDirSkipsBrokenFilesButLoadsRest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "olist_orders_dataset.csv", "order_id,customer_id\no1,c1\n")
	writeFile(t, dir, "broken.parquet", "this is not parquet")

	db := newTestStore(t)
	loader := NewLoader(db, testLogger())

	loads, err := loader.LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(loads) != 1 || loads[0].Table != "orders" {
		t.Fatalf("loads = %+v", loads)
	}
}

func TestLoadDirFailsWhenEmpty(t *testing.T) {
	db := newTestStore(t)
	loader := NewLoader(db, testLogger())
	if _, err := loader.LoadDir(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestLoadObjectStoreStagesAndLoads(t *testing.T) {
	objects := &fakeObjectStore{files: map[string]string{
		"datasets/olist_orders_dataset.csv": "order_id,customer_id\no1,c1\no2,c2\n",
		"datasets/readme.txt":               "not a dataset file",
	}}
	db := newTestStore(t)
	loader := NewLoader(db, testLogger())

	loads, err := loader.LoadObjectStore(context.Background(), objects, "datasets")
	if err != nil {
		t.Fatalf("LoadObjectStore() error = %v", err)
	}
	if len(loads) != 1 || loads[0].Table != "orders" || loads[0].Rows != 2 {
		t.Fatalf("loads = %+v", loads)
	}
}

func TestLoadObjectStoreFailsWithoutDatasetObjects(t *testing.T) {
	objects := &fakeObjectStore{files: map[string]string{"datasets/readme.txt": "nope"}}
	db := newTestStore(t)
	loader := NewLoader(db, testLogger())

	if _, err := loader.LoadObjectStore(context.Background(), objects, "datasets"); err == nil {
		t.Fatal("expected error when prefix holds no dataset files")
	}
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "olist_orders_dataset.csv", "order_id,customer_id\no1,c1\n")

	db := newTestStore(t)
	loader := NewLoader(db, testLogger())
	if _, err := loader.LoadDir(context.Background(), dir); err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}

	infos, err := Describe(context.Background(), db)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("got %d tables, want 1", len(infos))
	}
	if infos[0].Name != "orders" || infos[0].Rows != 1 {
		t.Fatalf("info = %+v", infos[0])
	}
	if len(infos[0].Columns) != 2 || infos[0].Columns[0] != "order_id" {
		t.Fatalf("columns = %v", infos[0].Columns)
	}
}

type fakeObjectStore struct {
	files map[string]string
}

func (f *fakeObjectStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ storage.PutOptions) (storage.ObjectInfo, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	f.files[key] = string(data)
	return storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeObjectStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	content, ok := f.files[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader([]byte(content))), nil
}

func (f *fakeObjectStore) Stat(_ context.Context, key string) (storage.ObjectInfo, error) {
	content, ok := f.files[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Key: key, Size: int64(len(content)), LastModified: time.Now().UTC()}, nil
}

func (f *fakeObjectStore) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	infos := make([]storage.ObjectInfo, 0)
	for key, content := range f.files {
		if prefix == "" || len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			infos = append(infos, storage.ObjectInfo{Key: key, Size: int64(len(content))})
		}
	}
	return infos, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	delete(f.files, key)
	return nil
}
