package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopsight/shopsight/internal/cli/shopsightctl"
)

func main() {
	timeout := parseDurationWithDefault(strings.TrimSpace(os.Getenv("SHOPSIGHT_CLI_TIMEOUT")), 10*time.Second)
	options := shopsightctl.Options{
		BaseURL: envOr("SHOPSIGHT_API_URL", "http://localhost:8080"),
		APIKey:  strings.TrimSpace(os.Getenv("SHOPSIGHT_API_KEY")),
		Timeout: timeout,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	code := shopsightctl.Run(context.Background(), os.Args[1:], options)
	os.Exit(code)
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func parseDurationWithDefault(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid SHOPSIGHT_CLI_TIMEOUT %q; using %s\n", raw, fallback)
		return fallback
	}
	return parsed
}
