package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"funding/internal/analysis"
	"funding/internal/core"
)

// Title title-cases a display name. A Caser is stateful, so one is built
// per call.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

// TitleText title-cases a defined text and returns "N/A" otherwise.
func TitleText(t core.Text) string {
	if !t.Valid {
		return "N/A"
	}
	return Title(t.Value)
}

// Crore formats an amount rounded to whole crore with grouping, e.g.
// "12,345 Cr".
func Crore(d decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d Cr", d.Round(0).IntPart())
}

// Number formats an integer with grouping.
func Number(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// MonthName returns the short English month name for 1..12.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return time.Month(m).String()[:3]
}

// FromSeries converts a monetary series for charting.
func FromSeries(s analysis.Series) []Value {
	out := make([]Value, len(s))
	for i, p := range s {
		out[i] = Value{Label: p.Label, Value: p.Value.InexactFloat64()}
	}
	return out
}

// FromCounts converts occurrence counts for charting.
func FromCounts(c analysis.Counts) []Value {
	out := make([]Value, len(c))
	for i, p := range c {
		out[i] = Value{Label: p.Label, Value: float64(p.N)}
	}
	return out
}

// FromTrend converts a monthly trend, labelled "M-YYYY".
func FromTrend(t analysis.Trend) []Value {
	out := make([]Value, len(t))
	for i, p := range t {
		out[i] = Value{Label: p.Label(), Value: p.Value.InexactFloat64()}
	}
	return out
}

// FromYears converts yearly totals.
func FromYears(ys []analysis.YearPoint) []Value {
	out := make([]Value, len(ys))
	for i, p := range ys {
		out[i] = Value{Label: strconv.Itoa(p.Year), Value: p.Value.InexactFloat64()}
	}
	return out
}

// Join title-cases and joins names for prose.
func Join(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Title(n)
	}
	return strings.Join(out, ", ")
}
