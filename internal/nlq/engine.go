package nlq

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopsight/shopsight/internal/observability"
	"github.com/shopsight/shopsight/internal/store"
)

// ErrorSuggestion accompanies every error envelope.
const ErrorSuggestion = `Try simpler questions like: "Top selling category?" or "Total revenue?"`

// Recorder persists answered questions. Implementations must be safe for
// concurrent use; recording failures must not affect the answer.
type Recorder interface {
	Record(ctx context.Context, entry HistoryEntry) error
}

// HistoryEntry captures one answered question for the query log.
type HistoryEntry struct {
	AskedAt    time.Time
	Question   string
	Intent     Intent
	Status     Status
	RowCount   int
	DurationMS int64
}

// Engine answers natural-language questions over the analytical store. The
// pipeline is clean, classify, extract, generate, execute, narrate; every stage
// is deterministic, so identical questions at the same reference time produce
// identical SQL.
type Engine struct {
	exec     store.Executor
	gen      *Generator
	logger   *slog.Logger
	recorder Recorder

	mu  sync.Mutex
	log []SessionEntry
}

// SessionEntry is one line of the in-process question log.
type SessionEntry struct {
	At       time.Time `json:"at"`
	Question string    `json:"question"`
}

type Option func(*Engine)

// WithRecorder attaches a persistent query-history sink.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithGenerator overrides the SQL generator, used to pin the reference clock.
func WithGenerator(g *Generator) Option {
	return func(e *Engine) { e.gen = g }
}

func NewEngine(exec store.Executor, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		exec:   exec,
		gen:    NewGenerator(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Query answers one question and always returns a well-formed envelope. Store
// failures surface as a generic error envelope; the raw error is logged but
// never exposed to the caller.
func (e *Engine) Query(ctx context.Context, raw string) Envelope {
	cleaned := CleanQuestion(raw)
	e.appendSession(cleaned)

	intent := ClassifyIntent(cleaned)
	params := ExtractParams(cleaned)
	sqlText := e.gen.Generate(intent, params, cleaned)

	result, err := e.exec.Query(ctx, sqlText)
	if err != nil {
		e.logger.Error("question failed",
			"question", cleaned,
			"intent", string(intent),
			"error", err)
		env := Envelope{
			Status:     StatusError,
			QueryAsked: cleaned,
			Intent:     intent,
			Data:       [][]any{},
			Error:      "query execution failed",
			Suggestion: ErrorSuggestion,
			Analysis:   errorAnalysis("query execution failed"),
		}
		e.finish(ctx, env, 0)
		return env
	}

	if len(result.Rows) == 0 {
		env := Envelope{
			Status:     StatusNoData,
			QueryAsked: cleaned,
			Intent:     intent,
			Params:     params,
			Data:       [][]any{},
			SQL:        sqlText,
			Message:    "No data found for your query.",
		}
		e.finish(ctx, env, result.Duration)
		return env
	}

	env := Envelope{
		Status:     StatusSuccess,
		QueryAsked: cleaned,
		Intent:     intent,
		Params:     params,
		Data:       result.Rows,
		Count:      len(result.Rows),
		Analysis:   generateAnalysis(result.Rows, intent),
		SQL:        sqlText,
	}
	e.logger.Info("question answered",
		"question", cleaned,
		"intent", string(intent),
		"rows", len(result.Rows),
		"duration_ms", result.Duration.Milliseconds())
	e.finish(ctx, env, result.Duration)
	return env
}

// SessionLog returns a copy of the questions asked on this engine instance, in
// arrival order.
func (e *Engine) SessionLog() []SessionEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]SessionEntry, len(e.log))
	copy(out, e.log)
	return out
}

func (e *Engine) appendSession(cleaned string) {
	e.mu.Lock()
	e.log = append(e.log, SessionEntry{At: time.Now().UTC(), Question: cleaned})
	e.mu.Unlock()
}

func (e *Engine) finish(ctx context.Context, env Envelope, elapsed time.Duration) {
	observability.ObserveQuestion(string(env.Intent), string(env.Status), elapsed)
	if e.recorder == nil {
		return
	}
	entry := HistoryEntry{
		AskedAt:    time.Now().UTC(),
		Question:   env.QueryAsked,
		Intent:     env.Intent,
		Status:     env.Status,
		RowCount:   env.Count,
		DurationMS: elapsed.Milliseconds(),
	}
	if err := e.recorder.Record(ctx, entry); err != nil {
		e.logger.Warn("history record failed", "error", err)
	}
}
