// Package dataset hydrates the analytical store from raw dataset files. CSV
// and Parquet files are discovered by extension and loaded one table per file,
// with file names mapped to the canonical e-commerce table names the query
// templates expect.
package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/shopsight/shopsight/internal/storage"
	"github.com/shopsight/shopsight/internal/store"
)

// Store is the subset of the analytical store the loader needs.
type Store interface {
	Exec(ctx context.Context, sqlText string) error
	Query(ctx context.Context, sqlText string) (store.Result, error)
}

// TableLoad describes one loaded table.
type TableLoad struct {
	Table string `json:"table"`
	File  string `json:"file"`
	Rows  int64  `json:"rows"`
}

type Loader struct {
	db     Store
	logger *slog.Logger
}

func NewLoader(db Store, logger *slog.Logger) *Loader {
	return &Loader{db: db, logger: logger}
}

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// LoadDir loads every CSV and Parquet file in dir, in sorted file order. A
// file that fails to load is logged and skipped; the loader only fails when
// the directory holds no loadable files at all.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]TableLoad, error) {
	files, err := discoverFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no dataset files found in %s", dir)
	}

	loads := make([]TableLoad, 0, len(files))
	for _, file := range files {
		load, err := l.loadFile(ctx, file)
		if err != nil {
			l.logger.Warn("skipping dataset file", "file", filepath.Base(file), "error", err)
			continue
		}
		l.logger.Info("loaded dataset table", "table", load.Table, "file", load.File, "rows", load.Rows)
		loads = append(loads, load)
	}
	if len(loads) == 0 {
		return nil, fmt.Errorf("no dataset files loaded from %s", dir)
	}
	return loads, nil
}

// LoadObjectStore downloads every dataset object under prefix to a temporary
// directory and loads it like a local directory.
func (l *Loader) LoadObjectStore(ctx context.Context, objects storage.ObjectStore, prefix string) ([]TableLoad, error) {
	infos, err := objects.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list dataset objects: %w", err)
	}

	tempDir, err := os.MkdirTemp("", "shopsight-dataset-")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	staged := 0
	for _, info := range infos {
		name := filepath.Base(info.Key)
		if !isDatasetFile(name) {
			continue
		}
		if err := l.download(ctx, objects, info.Key, filepath.Join(tempDir, name)); err != nil {
			l.logger.Warn("skipping dataset object", "key", info.Key, "error", err)
			continue
		}
		staged++
	}
	if staged == 0 {
		return nil, fmt.Errorf("no dataset objects found under prefix %q", prefix)
	}
	return l.LoadDir(ctx, tempDir)
}

func (l *Loader) download(ctx context.Context, objects storage.ObjectStore, key, dest string) error {
	reader, err := objects.Get(ctx, key)
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}
	if _, err := io.Copy(out, reader); err != nil {
		_ = out.Close()
		return fmt.Errorf("download object: %w", err)
	}
	return out.Close()
}

func (l *Loader) loadFile(ctx context.Context, file string) (TableLoad, error) {
	table := TableNameForFile(filepath.Base(file))
	if !identifierPattern.MatchString(table) {
		return TableLoad{}, fmt.Errorf("invalid table name %q", table)
	}

	var reader string
	switch strings.ToLower(filepath.Ext(file)) {
	case ".csv":
		reader = "read_csv_auto"
	case ".parquet":
		reader = "read_parquet"
	default:
		return TableLoad{}, fmt.Errorf("unsupported file type %q", filepath.Ext(file))
	}

	escapedPath := strings.ReplaceAll(file, "'", "''")
	ddl := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM %s('%s')", table, reader, escapedPath)
	if err := l.db.Exec(ctx, ddl); err != nil {
		return TableLoad{}, err
	}

	rows, err := l.countRows(ctx, table)
	if err != nil {
		return TableLoad{}, err
	}
	return TableLoad{Table: table, File: filepath.Base(file), Rows: rows}, nil
}

func (l *Loader) countRows(ctx context.Context, table string) (int64, error) {
	result, err := l.db.Query(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	if err != nil {
		return 0, err
	}
	if len(result.Rows) == 0 || len(result.Rows[0]) == 0 {
		return 0, fmt.Errorf("empty count result for table %s", table)
	}
	switch v := result.Rows[0][0].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unexpected count type %T", v)
	}
}

func discoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isDatasetFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isDatasetFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".parquet":
		return true
	}
	return false
}

// TableNameForFile maps a dataset file name to its canonical table name. The
// published dataset uses verbose names like olist_order_items_dataset.csv, so
// the raw stem is collapsed onto the fixed vocabulary the query templates
// reference. Rules are checked in order; order_items must come before orders
// and products before category_names.
func TableNameForFile(fileName string) string {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	name := strings.ToLower(strings.ReplaceAll(stem, "-", "_"))

	switch {
	case strings.Contains(name, "order_items"):
		return "order_items"
	case strings.Contains(name, "orders") && !strings.Contains(name, "items"):
		return "orders"
	case strings.Contains(name, "customer"):
		return "customers"
	case strings.Contains(name, "review"):
		return "reviews"
	case strings.Contains(name, "seller"):
		return "sellers"
	case strings.Contains(name, "product") && !strings.Contains(name, "category"):
		return "products"
	case strings.Contains(name, "category"):
		return "category_names"
	case strings.Contains(name, "payment"):
		return "payments"
	case strings.Contains(name, "geo"):
		return "geolocation"
	}
	return name
}
