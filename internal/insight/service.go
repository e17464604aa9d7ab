package insight

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shopsight/shopsight/internal/nlq"
	"github.com/shopsight/shopsight/internal/observability"
)

const (
	maxBullets      = 3
	maxBulletLength = 200
)

// Service asks a model for exactly three one-line recommendations and cleans
// up whatever comes back. Transient provider errors are retried with a short
// backoff; anything else drops straight to the deterministic fallback.
type Service struct {
	gen        Generator
	logger     *slog.Logger
	maxRetries int
	sleep      func(time.Duration)
}

type ServiceOption func(*Service)

// WithSleep overrides the retry backoff sleeper, for tests.
func WithSleep(sleep func(time.Duration)) ServiceOption {
	return func(s *Service) { s.sleep = sleep }
}

func NewService(gen Generator, logger *slog.Logger, maxRetries int, opts ...ServiceOption) *Service {
	if maxRetries < 0 {
		maxRetries = 0
	}
	s := &Service{gen: gen, logger: logger, maxRetries: maxRetries, sleep: time.Sleep}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze produces insight bullets for an answered question. It never returns
// an error: provider failure means fallback, and the Source field records
// which path produced the result.
func (s *Service) Analyze(ctx context.Context, question string, env nlq.Envelope) Insight {
	if s.gen == nil {
		out := Fallback(env)
		observability.ObserveInsight(out.Source)
		return out
	}

	prompt := buildPrompt(question, env.Analysis)
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		text, err := s.gen.Generate(ctx, prompt)
		if err == nil {
			bullets := normalizeBullets(text)
			if len(bullets) < maxBullets {
				bullets = padWithFallback(bullets, env)
			}
			out := Insight{Bullets: bullets[:maxBullets], Source: SourceModel, Model: s.gen.ModelName()}
			observability.ObserveInsight(out.Source)
			return out
		}
		lastErr = err
		if attempt < s.maxRetries && isTransient(err) {
			delay := backoff(attempt)
			s.logger.Warn("insight provider transient error, retrying",
				"attempt", attempt, "delay", delay.String(), "error", err)
			s.sleep(delay)
			continue
		}
		break
	}

	s.logger.Warn("insight provider failed, using fallback", "error", lastErr)
	out := Fallback(env)
	observability.ObserveInsight(out.Source)
	return out
}

func buildPrompt(question, analysis string) string {
	return fmt.Sprintf(`You are an expert e-commerce analyst.

User asked: %q

Database analysis (short):
%s

Task:
- Produce exactly 3 concise, actionable one-line insights or recommendations based only on the data above.
- Each insight must be one sentence and begin with a hyphen and a single space ("- ").
- Use business language and be specific (e.g., "Increase stock for...", "Investigate...", "Promote...").
- No extra commentary, no numbering, no explanation beyond the 3 lines.

Return exactly 3 lines.`, question, analysis)
}

var (
	bulletPrefix  = regexp.MustCompile(`^[-•*]\s*`)
	sentenceSplit = regexp.MustCompile(`(?m)([.!?])\s+`)
)

// normalizeBullets coerces free-form model output into clean "- " lines.
// Lines already bulleted are preferred; otherwise sentences are promoted to
// bullets. Each bullet is collapsed to one line and capped at 200 characters.
func normalizeBullets(text string) []string {
	var candidates []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if bulletPrefix.MatchString(line) {
			candidates = append(candidates, line)
		}
	}
	if len(candidates) == 0 {
		split := sentenceSplit.ReplaceAllString(strings.TrimSpace(text), "$1\n")
		for _, sentence := range strings.Split(split, "\n") {
			sentence = strings.TrimSpace(sentence)
			if sentence != "" {
				candidates = append(candidates, sentence)
			}
		}
	}

	bullets := make([]string, 0, maxBullets)
	for _, c := range candidates {
		clean := strings.Join(strings.Fields(bulletPrefix.ReplaceAllString(c, "")), " ")
		if clean == "" {
			continue
		}
		if len(clean) > maxBulletLength {
			clean = strings.TrimSpace(clean[:maxBulletLength-3]) + "..."
		}
		bullets = append(bullets, "- "+clean)
		if len(bullets) == maxBullets {
			break
		}
	}
	return bullets
}

func padWithFallback(bullets []string, env nlq.Envelope) []string {
	for _, fb := range Fallback(env).Bullets {
		if len(bullets) >= maxBullets {
			break
		}
		bullets = append(bullets, fb)
	}
	for len(bullets) < maxBullets {
		bullets = append(bullets, "- See database analysis.")
	}
	return bullets
}

var transientMarkers = []string{"rate", "timeout", "tempor", "resource_exhausted", "throttl", "connection", "unavailable", "deadline"}

func isTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func backoff(attempt int) time.Duration {
	delay := time.Second
	for i := 0; i < attempt; i++ {
		delay = delay * 3 / 2
	}
	return delay
}
