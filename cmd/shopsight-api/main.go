package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopsight/shopsight/internal/api"
	"github.com/shopsight/shopsight/internal/auth"
	"github.com/shopsight/shopsight/internal/config"
	"github.com/shopsight/shopsight/internal/dataset"
	"github.com/shopsight/shopsight/internal/history"
	historypostgres "github.com/shopsight/shopsight/internal/history/postgres"
	"github.com/shopsight/shopsight/internal/insight"
	"github.com/shopsight/shopsight/internal/nlq"
	"github.com/shopsight/shopsight/internal/observability"
	s3store "github.com/shopsight/shopsight/internal/storage/s3"
	"github.com/shopsight/shopsight/internal/store/duckdb"
)

func main() {
	cfg, err := config.LoadFromEnv("shopsight-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	db, err := duckdb.Open(duckdb.Config{Path: cfg.Store.Path, RowLimit: cfg.Store.RowLimit})
	if err != nil {
		logger.Error("failed to open analytical store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	loader := dataset.NewLoader(db, logger)
	switch cfg.Dataset.Source {
	case "s3":
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
		if _, err := loader.LoadObjectStore(context.Background(), objectStore, cfg.Dataset.Prefix); err != nil {
			logger.Error("failed to load dataset from object store", slog.Any("error", err))
			os.Exit(1)
		}
	default:
		if _, err := loader.LoadDir(context.Background(), cfg.Dataset.Dir); err != nil {
			logger.Error("failed to load dataset", slog.Any("error", err), slog.String("dir", cfg.Dataset.Dir))
			os.Exit(1)
		}
	}

	engineOpts := []nlq.Option{}
	var historyRepo history.Repository
	if cfg.History.Enabled {
		historyDB, err := historypostgres.Open(context.Background(), historypostgres.DBConfig{
			DSN:             cfg.History.DSN,
			MaxOpenConns:    cfg.History.MaxOpenConns,
			MaxIdleConns:    cfg.History.MaxIdleConns,
			ConnMaxIdleTime: cfg.History.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.History.ConnMaxLifetime,
		})
		if err != nil {
			logger.Error("failed to open history db", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = historyDB.Close() }()

		repo := historypostgres.NewRepository(historyDB)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			logger.Error("failed to ensure history schema", slog.Any("error", err))
			os.Exit(1)
		}
		historyRepo = repo
		engineOpts = append(engineOpts, nlq.WithRecorder(history.NewEngineRecorder(repo)))
	}

	engine := nlq.NewEngine(db, logger, engineOpts...)

	var insights api.InsightAnalyzer
	if cfg.AI.InsightsEnabled {
		var generator insight.Generator
		switch cfg.AI.Provider {
		case "gemini":
			gen, err := insight.NewGeminiGenerator(context.Background(), insight.GeminiConfig{
				APIKey:          cfg.AI.APIKey,
				Model:           cfg.AI.Model,
				Temperature:     cfg.AI.Temperature,
				MaxOutputTokens: cfg.AI.MaxOutputTokens,
				Timeout:         cfg.AI.Timeout,
			})
			if err != nil {
				logger.Error("failed to initialize gemini generator", slog.Any("error", err))
				os.Exit(1)
			}
			defer func() { _ = gen.Close() }()
			generator = gen
		default:
			gen, err := insight.NewOpenAIGenerator(insight.OpenAIConfig{
				BaseURL:     cfg.AI.BaseURL,
				APIKey:      cfg.AI.APIKey,
				Model:       cfg.AI.Model,
				Temperature: cfg.AI.Temperature,
				MaxTokens:   cfg.AI.MaxOutputTokens,
				Timeout:     cfg.AI.Timeout,
			})
			if err != nil {
				logger.Error("failed to initialize openai generator", slog.Any("error", err))
				os.Exit(1)
			}
			generator = gen
		}
		insights = insight.NewService(generator, logger, cfg.AI.MaxRetries)
	}

	deps := api.Dependencies{
		Logger:            logger,
		Engine:            engine,
		Insights:          insights,
		History:           historyRepo,
		HistoryLimit:      cfg.History.RecentLimit,
		Store:             db,
		Readiness:         api.CombineReadinessChecks(api.CheckStore(db), api.CheckHistory(historyRepo)),
		DependencyTimeout: time.Second,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
