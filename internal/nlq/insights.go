package nlq

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// narrativeRows caps how many result rows each narrative walks.
const narrativeRows = 5

// GrowthUndefined is reported when the oldest period in a time-series window
// has zero revenue, so growth cannot be computed.
const GrowthUndefined = "N/A (oldest period revenue = 0)"

// errorAnalysis gives the presentation layer a renderable narrative on the
// error path, pointing at a known-good question.
func errorAnalysis(message string) string {
	return fmt.Sprintf("Error: %s\n\nTry asking: 'What are the top selling categories?'", message)
}

// generateAnalysis renders a human-readable narrative for a non-empty result.
func generateAnalysis(rows [][]any, intent Intent) string {
	switch intent {
	case IntentTimeSeries:
		return timeSeriesAnalysis(rows)
	case IntentTopSelling:
		return rankedAnalysis(rows, "**Top Selling Categories**", func(row []any) string {
			return fmt.Sprintf("%s: %s orders | %s", labelOf(row, 0), FormatCount(valueOf(row, 1)), FormatCurrency(valueOf(row, 2)))
		})
	case IntentAverageValue:
		return rankedAnalysis(rows, "**Average Order Value by Category**", func(row []any) string {
			return fmt.Sprintf("%s: %s avg | %s orders", labelOf(row, 0), FormatCurrency(valueOf(row, 1)), FormatCount(valueOf(row, 2)))
		})
	case IntentPaymentAnalysis:
		return rankedAnalysis(rows, "**Payment Method Breakdown**", func(row []any) string {
			return fmt.Sprintf("%s: %s orders | %s", labelOf(row, 0), FormatCount(valueOf(row, 1)), FormatCurrency(valueOf(row, 2)))
		})
	case IntentGeographic:
		return rankedAnalysis(rows, "**Orders by State**", func(row []any) string {
			return fmt.Sprintf("%s: %s orders | %s", labelOf(row, 0), FormatCount(valueOf(row, 1)), FormatCurrency(valueOf(row, 2)))
		})
	case IntentOrderStatus:
		return rankedAnalysis(rows, "**Order Status Distribution**", func(row []any) string {
			return fmt.Sprintf("%s: %s orders (%v%%)", labelOf(row, 0), FormatCount(valueOf(row, 1)), valueOf(row, 2))
		})
	case IntentTopCustomers:
		return rankedAnalysis(rows, "**Top Customers by Lifetime Revenue**", func(row []any) string {
			return fmt.Sprintf("%s: %s orders | %s lifetime | %v%% repeat", labelOf(row, 0), FormatCount(valueOf(row, 1)), FormatCurrency(valueOf(row, 2)), valueOf(row, 3))
		})
	case IntentDeliveryAnalysis, IntentTotalValue, IntentCount:
		return metricAnalysis(rows)
	}
	return metricAnalysis(rows)
}

func rankedAnalysis(rows [][]any, headline string, renderRow func([]any) string) string {
	lines := []string{headline, ""}
	for i, row := range rows {
		if i >= narrativeRows {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, renderRow(row)))
	}
	return strings.Join(lines, "\n")
}

func metricAnalysis(rows [][]any) string {
	lines := []string{fmt.Sprintf("**Query Results** (%d items)", len(rows)), ""}
	for i, row := range rows {
		if i >= narrativeRows {
			break
		}
		lines = append(lines, fmt.Sprintf("- %s: %v", labelOf(row, 0), valueOf(row, 1)))
	}
	return strings.Join(lines, "\n")
}

// timeSeriesAnalysis walks every returned period and appends a growth figure
// comparing the most recent period with the oldest one in the window. Rows are
// ordered newest first by the time-series template.
func timeSeriesAnalysis(rows [][]any) string {
	lines := []string{"**Revenue Trends Over Time**", ""}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s: %s orders | %s", periodOf(valueOf(row, 0)), FormatCount(valueOf(row, 1)), FormatCurrency(valueOf(row, 2))))
	}
	lines = append(lines, "", "**Growth Rate (latest vs oldest shown)**: "+growthRate(rows))
	return strings.Join(lines, "\n")
}

func growthRate(rows [][]any) string {
	if len(rows) == 0 {
		return GrowthUndefined
	}
	latest, okLatest := asFloat(valueOf(rows[0], 2))
	oldest, okOldest := asFloat(valueOf(rows[len(rows)-1], 2))
	if !okLatest || !okOldest || oldest == 0 {
		return GrowthUndefined
	}
	growth := (latest - oldest) / oldest * 100.0
	return fmt.Sprintf("%+.1f%%", growth)
}

// FormatCurrency renders a value as Brazilian real with two decimals and
// thousands separators. Non-numeric input degrades to the raw value instead of
// failing.
func FormatCurrency(v any) string {
	f, ok := asFloat(v)
	if !ok {
		return fmt.Sprintf("R$%v", v)
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	whole := int64(f)
	cents := int64((f-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}
	return fmt.Sprintf("R$%s%s.%02d", sign, groupThousands(whole), cents)
}

// FormatCount renders an integer with thousands separators, degrading to the
// raw value for non-numeric input.
func FormatCount(v any) string {
	f, ok := asFloat(v)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	n := int64(f)
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	return groupThousands(n)
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func asFloat(v any) (float64, bool) {
	switch typed := v.(type) {
	case nil:
		return 0, false
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case string:
		f, err := strconv.ParseFloat(typed, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func labelOf(row []any, index int) string {
	v := valueOf(row, index)
	if v == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%v", v)
}

func valueOf(row []any, index int) any {
	if index >= len(row) {
		return nil
	}
	return row[index]
}

func periodOf(v any) string {
	switch typed := v.(type) {
	case time.Time:
		return typed.Format("2006-01-02")
	case nil:
		return "Unknown"
	default:
		s := fmt.Sprintf("%v", typed)
		if len(s) > 10 {
			s = s[:10]
		}
		return s
	}
}
