package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/shopsight/shopsight/internal/config"
	"github.com/shopsight/shopsight/internal/dataset/demo"
	"github.com/shopsight/shopsight/internal/observability"
	s3store "github.com/shopsight/shopsight/internal/storage/s3"
)

func main() {
	orders := flag.Int("orders", 500, "number of orders to generate")
	seed := flag.Int64("seed", 42, "random seed; the same seed yields the same dataset")
	start := flag.String("start", "2023-01-01", "first order date (YYYY-MM-DD)")
	outDir := flag.String("out", "", "write parquet files to this directory")
	upload := flag.Bool("upload", false, "upload parquet files to the configured object store")
	flag.Parse()

	cfg, err := config.LoadFromEnv("shopsight-seed")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stdout)

	if *outDir == "" && !*upload {
		logger.Error("nothing to do: pass -out and/or -upload")
		os.Exit(2)
	}

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		logger.Error("invalid start date", slog.String("start", *start), slog.Any("error", err))
		os.Exit(2)
	}

	files, err := demo.Generate(demo.Config{Orders: *orders, Seed: *seed, Start: startDate})
	if err != nil {
		logger.Error("failed to generate demo dataset", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("demo dataset generated", slog.Int("orders", *orders), slog.Int64("seed", *seed), slog.Int("files", len(files)))

	if *outDir != "" {
		if err := demo.WriteLocal(*outDir, files); err != nil {
			logger.Error("failed to write dataset", slog.String("dir", *outDir), slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("dataset written", slog.String("dir", *outDir))
	}

	if *upload {
		objectStore, err := s3store.New(context.Background(), s3store.Config{
			Endpoint:         cfg.ObjectStore.Endpoint,
			Region:           cfg.ObjectStore.Region,
			Bucket:           cfg.ObjectStore.Bucket,
			AccessKeyID:      cfg.ObjectStore.AccessKeyID,
			SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
			UseSSL:           cfg.ObjectStore.UseSSL,
			Prefix:           cfg.ObjectStore.Prefix,
			AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
		})
		if err != nil {
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
		if err := demo.Upload(context.Background(), objectStore, cfg.Dataset.Prefix, files); err != nil {
			logger.Error("failed to upload dataset", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("dataset uploaded", slog.String("bucket", cfg.ObjectStore.Bucket), slog.String("prefix", cfg.Dataset.Prefix))
	}
}
