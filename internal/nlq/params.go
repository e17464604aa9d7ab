package nlq

import (
	"regexp"
	"strconv"
	"strings"
)

type Dimension string

const (
	DimensionCategory Dimension = "category"
	DimensionState    Dimension = "state"
	DimensionCity     Dimension = "city"
)

type Metric string

const (
	MetricRevenue Metric = "revenue"
	MetricRating  Metric = "rating"
	MetricPrice   Metric = "price"
)

// Params holds the structured values recognized in a question. Every field is
// optional; zero values mean "not present".
type Params struct {
	TopN       int       `json:"top_n,omitempty"`
	MonthsBack int       `json:"months_back,omitempty"`
	Dimension  Dimension `json:"dimension,omitempty"`
	Metric     Metric    `json:"metric,omitempty"`
}

func (p Params) IsZero() bool {
	return p == Params{}
}

var (
	topNPattern     = regexp.MustCompile(`top\s*(\d+)`)
	quartersPattern = regexp.MustCompile(`(\d+)\s*quarters?`)
	monthsPattern   = regexp.MustCompile(`(\d+)\s*months?`)
)

// ExtractParams pulls structured values out of cleaned question text. It never
// fails: unmatched patterns simply leave their key absent, and non-positive
// integers are discarded rather than propagated.
func ExtractParams(cleaned string) Params {
	var params Params

	if m := topNPattern.FindStringSubmatch(cleaned); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			params.TopN = n
		}
	}
	if params.TopN == 0 && strings.Contains(cleaned, "top customers") {
		params.TopN = 10
	}

	// Time-window rules run in precedence order; a value set by an earlier
	// rule is never overwritten.
	if m := quartersPattern.FindStringSubmatch(cleaned); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			params.MonthsBack = n * 3
		}
	}
	if params.MonthsBack == 0 {
		if m := monthsPattern.FindStringSubmatch(cleaned); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				params.MonthsBack = n
			}
		}
	}
	if params.MonthsBack == 0 && strings.Contains(cleaned, "quarter") {
		params.MonthsBack = 3
	}
	if params.MonthsBack == 0 && strings.Contains(cleaned, "year") {
		params.MonthsBack = 12
	}

	// Last match in rule order wins; there is no conflict detection.
	if strings.Contains(cleaned, "category") {
		params.Dimension = DimensionCategory
	}
	if strings.Contains(cleaned, "state") {
		params.Dimension = DimensionState
	}
	if strings.Contains(cleaned, "city") {
		params.Dimension = DimensionCity
	}

	if strings.Contains(cleaned, "revenue") || strings.Contains(cleaned, "sales") {
		params.Metric = MetricRevenue
	}
	if strings.Contains(cleaned, "rating") || strings.Contains(cleaned, "review") {
		params.Metric = MetricRating
	}
	if strings.Contains(cleaned, "price") {
		params.Metric = MetricPrice
	}

	return params
}
