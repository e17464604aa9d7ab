package nlq

import "strings"

// Intent is the closed set of analytical question categories the engine
// understands.
type Intent string

const (
	IntentTopSelling      Intent = "top_selling"
	IntentTimeSeries      Intent = "time_series"
	IntentAverageValue    Intent = "average_value"
	IntentTotalValue      Intent = "total_value"
	IntentCount           Intent = "count"
	IntentPaymentAnalysis Intent = "payment_analysis"
	IntentGeographic      Intent = "geographic"
	IntentOrderStatus     Intent = "order_status"
	IntentDeliveryAnalysis Intent = "delivery_analysis"
	IntentTopCustomers    Intent = "top_customers"
)

// FallbackIntent is returned when no rule matches. It always maps to a
// runnable query, so classification is total.
const FallbackIntent = IntentTopSelling

// Intents lists every classifiable intent.
func Intents() []Intent {
	return []Intent{
		IntentTopSelling,
		IntentTimeSeries,
		IntentAverageValue,
		IntentTotalValue,
		IntentCount,
		IntentPaymentAnalysis,
		IntentGeographic,
		IntentOrderStatus,
		IntentDeliveryAnalysis,
		IntentTopCustomers,
	}
}

type classificationRule struct {
	intent Intent
	match  func(q string) bool
}

// classificationRules is evaluated in order; the first match wins. Narrow
// vocabularies (customers, delivery) come before broad ranking terms so a
// question like "top delivery performance" lands on delivery_analysis rather
// than top_selling.
var classificationRules = []classificationRule{
	{IntentTopCustomers, containsAny("customer", "customers", "lifetime revenue", "ltv", "top customer", "top customers", "repeat purchase", "repeat rate")},
	{IntentDeliveryAnalysis, containsAny("delivery", "deliver", "shipped", "ship", "fulfill", "fulfillment")},
	{IntentTopSelling, allOf(
		containsAny("highest", "top", "best", "most selling", "leading", "popular"),
		containsAny("category", "categories", "product"),
	)},
	{IntentTimeSeries, containsAny("trend", "growth", "over time", "monthly", "quarterly", "past", "month", "year")},
	{IntentAverageValue, containsAny("average", "avg", "mean", "aov", "average order value")},
	{IntentTotalValue, containsAny("total", "sum", "all", "overall", "total revenue")},
	{IntentCount, containsAny("count", "how many", "number of")},
	{IntentPaymentAnalysis, containsAny("payment", "method", "installment", "pay")},
	{IntentGeographic, containsAny("state", "location", "city", "region", "geographic", "where")},
	{IntentOrderStatus, containsAny("status", "cancelled", "canceled", "delivered", "pending")},
}

// ClassifyIntent maps cleaned question text to exactly one intent. It is
// deterministic and never fails.
func ClassifyIntent(cleaned string) Intent {
	for _, rule := range classificationRules {
		if rule.match(cleaned) {
			return rule.intent
		}
	}
	return FallbackIntent
}

func containsAny(terms ...string) func(string) bool {
	return func(q string) bool {
		for _, term := range terms {
			if strings.Contains(q, term) {
				return true
			}
		}
		return false
	}
}

func allOf(predicates ...func(string) bool) func(string) bool {
	return func(q string) bool {
		for _, predicate := range predicates {
			if !predicate(q) {
				return false
			}
		}
		return true
	}
}
