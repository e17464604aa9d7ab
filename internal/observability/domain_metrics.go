package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	questionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsight_questions_total",
			Help: "Total number of natural-language questions processed, by intent and envelope status.",
		},
		[]string{"intent", "status"},
	)
	queryDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopsight_query_duration_seconds",
			Help:    "Analytical query execution latency by intent.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"intent"},
	)
	insightsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsight_insights_total",
			Help: "Total number of generated insights, by source (model or fallback).",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(questionsTotal, queryDurationSeconds, insightsTotal)
}

func ObserveQuestion(intent, status string, queryElapsed time.Duration) {
	questionsTotal.WithLabelValues(intent, status).Inc()
	if queryElapsed > 0 {
		queryDurationSeconds.WithLabelValues(intent).Observe(queryElapsed.Seconds())
	}
}

func ObserveInsight(source string) {
	insightsTotal.WithLabelValues(source).Inc()
}
