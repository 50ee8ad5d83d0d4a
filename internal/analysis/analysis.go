// Package analysis holds the aggregations behind every dashboard view. All
// functions are pure reads of a *core.Table and safe to call concurrently on
// the same snapshot.
package analysis

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoData is returned when a profiled startup or investor has no rows.
var ErrNoData = errors.New("no data")

// Default result sizes used by the dashboard.
const (
	TopSectors    = 10
	TopCities     = 10
	TopStartupsN  = 10
	TopInvestorsN = 10
	SimilarN      = 5
	RecentN       = 5
	BiggestN      = 5
)

type (
	// Point is one labelled monetary value.
	Point struct {
		Label string          `json:"label"`
		Value decimal.Decimal `json:"value"`
	}

	// Series is an ordered list of labelled values.
	Series []Point

	// Count is one labelled occurrence count.
	Count struct {
		Label string `json:"label"`
		N     int    `json:"count"`
	}

	// Counts is an ordered list of labelled counts.
	Counts []Count

	// PeriodPoint is the value for one calendar month.
	PeriodPoint struct {
		Year  int             `json:"year"`
		Month int             `json:"month"`
		Value decimal.Decimal `json:"value"`
	}

	// Trend is a chronological list of monthly values.
	Trend []PeriodPoint

	// YearPoint is the value for one calendar year.
	YearPoint struct {
		Year  int             `json:"year"`
		Value decimal.Decimal `json:"value"`
	}

	// Heatmap is a month by year grid. Cells[i][j] holds the total for
	// Months[i] in Years[j]; combinations without rows are zero.
	Heatmap struct {
		Months []int               `json:"months"`
		Years  []int               `json:"years"`
		Cells  [][]decimal.Decimal `json:"cells"`
	}
)

// TrendKind selects the month-on-month reduction.
type TrendKind string

const (
	TrendTotal TrendKind = "total"
	TrendCount TrendKind = "count"
)

// ParseTrend maps a query value to a TrendKind, defaulting to TrendTotal.
func ParseTrend(s string) TrendKind {
	if strings.EqualFold(strings.TrimSpace(s), string(TrendCount)) {
		return TrendCount
	}
	return TrendTotal
}

// Total sums every value in the series.
func (s Series) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range s {
		sum = sum.Add(p.Value)
	}
	return sum
}

// Label formats the period as "M-YYYY".
func (p PeriodPoint) Label() string {
	return strconv.Itoa(p.Month) + "-" + strconv.Itoa(p.Year)
}

// rankSeries orders totals by value descending, then label ascending, and
// keeps at most n entries. n <= 0 keeps everything.
func rankSeries(totals map[string]decimal.Decimal, n int) Series {
	out := make(Series, 0, len(totals))
	for label, v := range totals {
		out = append(out, Point{Label: label, Value: v})
	}
	slices.SortFunc(out, func(a, b Point) int {
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// rankCounts is rankSeries for occurrence counts.
func rankCounts(counts map[string]int, n int) Counts {
	out := make(Counts, 0, len(counts))
	for label, c := range counts {
		out = append(out, Count{Label: label, N: c})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if a.N != b.N {
			return b.N - a.N
		}
		return strings.Compare(a.Label, b.Label)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
