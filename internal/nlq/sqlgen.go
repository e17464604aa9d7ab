package nlq

import (
	"fmt"
	"regexp"
	"time"
)

// Generator renders one SQL statement per classified question. Templates are
// static; only typed literals computed here are ever interpolated, never raw
// question text. Time windows are resolved to concrete first-of-month DATE
// literals in application code so the statements do not depend on the store's
// date-arithmetic functions.
type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: func() time.Time { return time.Now().UTC() }}
}

// NewGeneratorAt fixes the reference clock, for deterministic cutoff dates in
// tests.
func NewGeneratorAt(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// categoryPattern is the closed allow-list of category name fragments that may
// be matched against product_category_name. Free text outside this vocabulary
// never reaches the SQL string.
var categoryPattern = regexp.MustCompile(`(electronics|beauty|sports|home|fashion|books|toys|informatica)`)

// cutoffDate returns the ISO date of the first day of the month monthsBack
// months before the reference clock. Anchoring to day 1 sidesteps day-of-month
// validity issues such as Jan 31 minus one month.
func (g *Generator) cutoffDate(monthsBack int) string {
	t := g.now().UTC()
	target := time.Date(t.Year(), t.Month()-time.Month(monthsBack), 1, 0, 0, 0, 0, time.UTC)
	return target.Format("2006-01-02")
}

// clampLimit sanitizes a row limit before interpolation: non-positive values
// fall back to the default.
func clampLimit(n, fallback int) int {
	if n < 1 {
		return fallback
	}
	return n
}

// Generate returns the SQL statement for an intent and its extracted
// parameters. Unknown intents produce the default top-categories-by-revenue
// statement so the engine always yields a runnable query.
func (g *Generator) Generate(intent Intent, params Params, cleaned string) string {
	switch intent {
	case IntentTopCustomers:
		return fmt.Sprintf(`
SELECT
  o.customer_id,
  COUNT(DISTINCT o.order_id) AS orders,
  ROUND(SUM(COALESCE(oi.price, 0)), 2) AS lifetime_revenue,
  ROUND(CASE WHEN COUNT(DISTINCT o.order_id) > 0 THEN (COUNT(DISTINCT o.order_id) - 1) * 1.0 / COUNT(DISTINCT o.order_id) ELSE 0 END * 100.0, 2) AS repeat_purchase_pct
FROM orders o
JOIN order_items oi ON o.order_id = oi.order_id
GROUP BY o.customer_id
ORDER BY lifetime_revenue DESC
LIMIT %d`, clampLimit(params.TopN, 10))

	case IntentDeliveryAnalysis:
		return `
SELECT 'Total Delivered Orders' AS metric, COUNT(*) AS value
FROM orders
WHERE order_delivered_customer_date IS NOT NULL
UNION ALL
SELECT 'Total Orders' AS metric, COUNT(*) AS value
FROM orders
UNION ALL
SELECT 'Delivery Rate %' AS metric,
  ROUND(CAST(COUNT(CASE WHEN order_delivered_customer_date IS NOT NULL THEN 1 END) AS FLOAT) * 100.0 / NULLIF(COUNT(*), 0), 1) AS value
FROM orders`

	case IntentTopSelling:
		if params.MonthsBack > 0 {
			return fmt.Sprintf(`
SELECT
  COALESCE(p.product_category_name, 'Unknown') AS category,
  COUNT(DISTINCT oi.order_id) AS orders,
  ROUND(SUM(COALESCE(oi.price, 0)), 2) AS revenue
FROM products p
JOIN order_items oi ON p.product_id = oi.product_id
JOIN orders o ON oi.order_id = o.order_id
WHERE CAST(o.order_purchase_timestamp AS DATE) >= DATE '%s'
GROUP BY p.product_category_name
ORDER BY revenue DESC
LIMIT 10`, g.cutoffDate(params.MonthsBack))
		}
		return `
SELECT
  COALESCE(p.product_category_name, 'Unknown') AS category,
  COUNT(DISTINCT oi.order_id) AS orders,
  ROUND(SUM(COALESCE(oi.price, 0)), 2) AS revenue
FROM products p
JOIN order_items oi ON p.product_id = oi.product_id
GROUP BY p.product_category_name
ORDER BY revenue DESC
LIMIT 10`

	case IntentTimeSeries:
		months := params.MonthsBack
		if months < 1 {
			months = 12
		}
		return fmt.Sprintf(`
SELECT
  DATE_TRUNC('month', CAST(o.order_purchase_timestamp AS TIMESTAMP))::DATE AS period,
  COUNT(DISTINCT o.order_id) AS orders,
  ROUND(SUM(COALESCE(oi.price, 0)), 2) AS revenue
FROM orders o
JOIN order_items oi ON o.order_id = oi.order_id
WHERE CAST(o.order_purchase_timestamp AS DATE) >= DATE '%s'
GROUP BY DATE_TRUNC('month', CAST(o.order_purchase_timestamp AS TIMESTAMP))::DATE
ORDER BY period DESC
LIMIT %d`, g.cutoffDate(months), months)

	case IntentAverageValue:
		if m := categoryPattern.FindStringSubmatch(cleaned); m != nil {
			return fmt.Sprintf(`
SELECT
  COALESCE(p.product_category_name, 'Unknown') AS category,
  ROUND(AVG(COALESCE(oi.price, 0)), 2) AS avg_value,
  COUNT(DISTINCT oi.order_id) AS orders
FROM products p
JOIN order_items oi ON p.product_id = oi.product_id
WHERE LOWER(p.product_category_name) LIKE '%%%s%%'
GROUP BY p.product_category_name
ORDER BY avg_value DESC
LIMIT 10`, m[1])
		}
		return `
SELECT
  COALESCE(p.product_category_name, 'Unknown') AS category,
  ROUND(AVG(COALESCE(oi.price, 0)), 2) AS avg_value,
  COUNT(DISTINCT oi.order_id) AS orders
FROM products p
JOIN order_items oi ON p.product_id = oi.product_id
GROUP BY p.product_category_name
ORDER BY avg_value DESC
LIMIT 10`

	case IntentTotalValue:
		return `
SELECT 'Total Orders' AS metric, CAST(COUNT(*) AS VARCHAR) AS value FROM orders
UNION ALL
SELECT 'Total Revenue (R$)' AS metric, CAST(ROUND(SUM(COALESCE(price, 0)), 2) AS VARCHAR) FROM order_items
UNION ALL
SELECT 'Total Customers' AS metric, CAST(COUNT(DISTINCT customer_id) AS VARCHAR) FROM orders
UNION ALL
SELECT 'Total Products' AS metric, CAST(COUNT(DISTINCT product_id) AS VARCHAR) FROM products`

	case IntentCount:
		switch {
		case containsAny("customer")(cleaned):
			return `SELECT 'Total Customers' AS metric, COUNT(DISTINCT customer_id) AS count FROM orders`
		case containsAny("order")(cleaned):
			return `SELECT 'Total Orders' AS metric, COUNT(*) AS count FROM orders`
		case containsAny("product")(cleaned):
			return `SELECT 'Total Products' AS metric, COUNT(DISTINCT product_id) AS count FROM products`
		default:
			return `SELECT 'Total Orders' AS metric, COUNT(*) AS count FROM orders`
		}

	case IntentPaymentAnalysis:
		return `
SELECT
  COALESCE(payment_type, 'Unknown') AS payment_method,
  COUNT(*) AS total_orders,
  ROUND(SUM(COALESCE(payment_value, 0)), 2) AS total_revenue
FROM payments
GROUP BY payment_type
ORDER BY total_orders DESC`

	case IntentGeographic:
		return `
SELECT
  COALESCE(c.customer_state, 'Unknown') AS state,
  COUNT(DISTINCT o.order_id) AS orders,
  ROUND(SUM(COALESCE(oi.price, 0)), 2) AS revenue
FROM customers c
JOIN orders o ON c.customer_id = o.customer_id
JOIN order_items oi ON o.order_id = oi.order_id
GROUP BY c.customer_state
ORDER BY orders DESC
LIMIT 15`

	case IntentOrderStatus:
		return `
SELECT
  COALESCE(order_status, 'Unknown') AS status,
  COUNT(*) AS order_count,
  ROUND(COUNT(*) * 100.0 / (SELECT COUNT(*) FROM orders), 1) AS percentage
FROM orders
GROUP BY order_status
ORDER BY order_count DESC`
	}

	// Default: top categories by revenue. LEFT JOIN keeps categories without
	// sales visible.
	return `
SELECT
  COALESCE(p.product_category_name, 'Unknown') AS category,
  COUNT(DISTINCT oi.order_id) AS orders,
  ROUND(SUM(COALESCE(oi.price, 0)), 2) AS revenue
FROM products p
LEFT JOIN order_items oi ON p.product_id = oi.product_id
GROUP BY p.product_category_name
ORDER BY revenue DESC
LIMIT 10`
}
