package insight

import (
	"fmt"
	"strings"

	"github.com/shopsight/shopsight/internal/nlq"
)

// Fallback derives up to three bullets from the query result alone. It is
// deterministic: the same envelope always yields the same bullets.
func Fallback(env nlq.Envelope) Insight {
	var parts []string

	if env.Intent != "" {
		parts = append(parts, intentTitle(env.Intent)+".")
	}
	if line := firstLine(env.Analysis); line != "" {
		parts = append(parts, truncate(line, 300))
	}
	if top := topRowSummary(env.Data); top != "" {
		parts = append(parts, top)
	}
	if rec := recommendationFor(env.Intent); rec != "" {
		parts = append(parts, rec)
	}

	bullets := make([]string, 0, 3)
	for _, p := range parts {
		bullets = append(bullets, "- "+strings.TrimSpace(p))
		if len(bullets) == 3 {
			break
		}
	}
	if len(bullets) == 0 {
		bullets = []string{"- No actionable insight available from data."}
	}
	return Insight{Bullets: bullets, Source: SourceFallback}
}

func intentTitle(intent nlq.Intent) string {
	words := strings.Split(string(intent), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func firstLine(analysis string) string {
	for _, line := range strings.Split(analysis, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func topRowSummary(data [][]any) string {
	if len(data) == 0 {
		return ""
	}
	top := data[0]
	if len(top) >= 3 {
		return fmt.Sprintf("Top: %v with %s orders and %s.",
			top[0], nlq.FormatCount(top[1]), nlq.FormatCurrency(top[2]))
	}
	rendered := make([]string, 0, len(top))
	for _, v := range top {
		rendered = append(rendered, fmt.Sprintf("%v", v))
	}
	return "Top result: " + strings.Join(rendered, " | ") + "."
}

func recommendationFor(intent nlq.Intent) string {
	switch intent {
	case nlq.IntentTopSelling, nlq.IntentTimeSeries, nlq.IntentGeographic:
		return "Consider prioritizing inventory and marketing for top categories or regions."
	case nlq.IntentDeliveryAnalysis:
		return "Investigate carriers or regions with longer delivery times."
	case nlq.IntentPaymentAnalysis:
		return "Optimize checkout UX for the most-used payment methods."
	case nlq.IntentTopCustomers:
		return "Consider loyalty offers for top customers."
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}
