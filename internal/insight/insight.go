// Package insight turns answered questions into short, actionable business
// recommendations. A configured model provider is asked first; any failure
// degrades to a deterministic summary derived from the query result, so the
// feature never blocks an answer.
package insight

import "context"

// Source identifies where an insight came from.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Insight is a set of at most three one-line recommendations.
type Insight struct {
	Bullets []string `json:"bullets"`
	Source  string   `json:"source"`
	Model   string   `json:"model,omitempty"`
}

// Generator produces raw completion text for a prompt. Implementations wrap a
// single model provider and must honor the context deadline.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}
