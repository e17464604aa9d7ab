package storage

import "testing"

func TestBuildDatasetKey(t *testing.T) {
	key, err := BuildDatasetKey("datasets/olist", "orders.parquet")
	if err != nil {
		t.Fatalf("BuildDatasetKey() error = %v", err)
	}
	if key != "datasets/olist/orders.parquet" {
		t.Fatalf("BuildDatasetKey() = %q", key)
	}
}

func TestBuildDatasetKeyWithoutPrefix(t *testing.T) {
	key, err := BuildDatasetKey("", "orders.csv")
	if err != nil {
		t.Fatalf("BuildDatasetKey() error = %v", err)
	}
	if key != "orders.csv" {
		t.Fatalf("BuildDatasetKey() = %q", key)
	}
}

func TestBuildDatasetKeyRejectsInvalidComponent(t *testing.T) {
	for _, name := range []string{"../oops", "a/b.parquet", "", ".hidden"} {
		if _, err := BuildDatasetKey("prefix", name); err == nil {
			t.Errorf("expected error for %q", name)
		}
	}
}
