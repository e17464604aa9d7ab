package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsForDevProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{})
	cfg, err := Load("shopsight-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Auth.Required {
		t.Fatal("Auth.Required should default to false in dev")
	}
	if cfg.Store.Path != "" {
		t.Fatalf("Store.Path = %q, want in-memory default", cfg.Store.Path)
	}
	if cfg.Store.RowLimit != 1000 {
		t.Fatalf("Store.RowLimit = %d", cfg.Store.RowLimit)
	}
	if cfg.Dataset.Source != "local" || cfg.Dataset.Dir != "data" {
		t.Fatalf("Dataset = %+v", cfg.Dataset)
	}
	if cfg.History.Enabled {
		t.Fatal("History.Enabled should default to false")
	}
	if cfg.History.RecentLimit != 50 {
		t.Fatalf("History.RecentLimit = %d", cfg.History.RecentLimit)
	}
	if cfg.AI.InsightsEnabled {
		t.Fatal("AI.InsightsEnabled should default to false")
	}
	if cfg.AI.Provider != "gemini" {
		t.Fatalf("AI.Provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.MaxRetries != 2 {
		t.Fatalf("AI.MaxRetries = %d", cfg.AI.MaxRetries)
	}
	if cfg.ObjectStore.Endpoint != "localhost:9000" {
		t.Fatalf("ObjectStore.Endpoint = %q", cfg.ObjectStore.Endpoint)
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	lookup := mapLookup(map[string]string{"SHOPSIGHT_PROFILE": "prod"})
	cfg, err := Load("shopsight-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileProd {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileProd)
	}
	if !cfg.Auth.Required {
		t.Fatal("Auth.Required should default to true in prod")
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.ObjectStore.UseSSL {
		t.Fatal("ObjectStore.UseSSL should default to true in prod")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"SHOPSIGHT_PROFILE":               "test",
		"SHOPSIGHT_HTTP_ADDR":             ":9999",
		"SHOPSIGHT_HTTP_READ_TIMEOUT":     "2s",
		"SHOPSIGHT_LOG_LEVEL":             "error",
		"SHOPSIGHT_AUTH_REQUIRED":         "true",
		"SHOPSIGHT_AUTH_STATIC_KEYS":      "k1:ops:analyst",
		"SHOPSIGHT_STORE_PATH":            "/var/lib/shopsight/analytics.duckdb",
		"SHOPSIGHT_STORE_ROW_LIMIT":       "250",
		"SHOPSIGHT_DATASET_SOURCE":        "s3",
		"SHOPSIGHT_DATASET_DIR":           "/srv/dataset",
		"SHOPSIGHT_DATASET_PREFIX":        "olist",
		"SHOPSIGHT_HISTORY_ENABLED":       "true",
		"SHOPSIGHT_HISTORY_DSN":           "postgres://example",
		"SHOPSIGHT_HISTORY_RECENT_LIMIT":  "25",
		"SHOPSIGHT_OBJECTSTORE_ENDPOINT":  "s3.example.com",
		"SHOPSIGHT_OBJECTSTORE_BUCKET":    "shopsight-prod",
		"SHOPSIGHT_AI_INSIGHTS_ENABLED":   "true",
		"SHOPSIGHT_AI_PROVIDER":           "openai",
		"SHOPSIGHT_AI_BASE_URL":           "https://api.example.com",
		"SHOPSIGHT_AI_API_KEY":            "secret-key",
		"SHOPSIGHT_AI_MODEL":              "gpt-5",
		"SHOPSIGHT_AI_TEMPERATURE":        "0.3",
		"SHOPSIGHT_AI_MAX_OUTPUT_TOKENS":  "128",
		"SHOPSIGHT_AI_TIMEOUT":            "21s",
		"SHOPSIGHT_AI_MAX_RETRIES":        "4",
	})
	cfg, err := Load("shopsight-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.HTTP.ReadTimeout != 2*time.Second {
		t.Fatalf("HTTP.ReadTimeout = %v", cfg.HTTP.ReadTimeout)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.Auth.Required || cfg.Auth.StaticKeys != "k1:ops:analyst" {
		t.Fatalf("Auth = %+v", cfg.Auth)
	}
	if cfg.Store.Path != "/var/lib/shopsight/analytics.duckdb" || cfg.Store.RowLimit != 250 {
		t.Fatalf("Store = %+v", cfg.Store)
	}
	if cfg.Dataset.Source != "s3" || cfg.Dataset.Prefix != "olist" {
		t.Fatalf("Dataset = %+v", cfg.Dataset)
	}
	if !cfg.History.Enabled || cfg.History.DSN != "postgres://example" || cfg.History.RecentLimit != 25 {
		t.Fatalf("History = %+v", cfg.History)
	}
	if !cfg.AI.InsightsEnabled || cfg.AI.Provider != "openai" || cfg.AI.Model != "gpt-5" {
		t.Fatalf("AI = %+v", cfg.AI)
	}
	if cfg.AI.Temperature != 0.3 || cfg.AI.MaxOutputTokens != 128 || cfg.AI.Timeout != 21*time.Second || cfg.AI.MaxRetries != 4 {
		t.Fatalf("AI = %+v", cfg.AI)
	}
}

func TestLoadRejectsInvalidProfile(t *testing.T) {
	_, err := Load("shopsight-api", mapLookup(map[string]string{"SHOPSIGHT_PROFILE": "staging"}))
	if err == nil || !strings.Contains(err.Error(), "SHOPSIGHT_PROFILE") {
		t.Fatalf("expected profile error, got %v", err)
	}
}

func TestLoadRejectsInvalidDatasetSource(t *testing.T) {
	_, err := Load("shopsight-api", mapLookup(map[string]string{"SHOPSIGHT_DATASET_SOURCE": "ftp"}))
	if err == nil || !strings.Contains(err.Error(), "SHOPSIGHT_DATASET_SOURCE") {
		t.Fatalf("expected dataset source error, got %v", err)
	}
}

func TestLoadRejectsInvalidProvider(t *testing.T) {
	_, err := Load("shopsight-api", mapLookup(map[string]string{"SHOPSIGHT_AI_PROVIDER": "llama"}))
	if err == nil || !strings.Contains(err.Error(), "SHOPSIGHT_AI_PROVIDER") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
