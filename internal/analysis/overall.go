package analysis

import (
	"slices"

	"github.com/shopspring/decimal"

	"funding/internal/core"
)

// TotalFunding sums every defined amount.
func TotalFunding(t *core.Table) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records(t) {
		if r.Amount.Valid {
			sum = sum.Add(r.Amount.Decimal)
		}
	}
	return sum
}

// MaxFunding takes each startup's largest single amount and returns the
// largest of those. ok is false when no row has both a startup and an amount.
func MaxFunding(t *core.Table) (decimal.Decimal, bool) {
	var (
		best decimal.Decimal
		ok   bool
	)
	for _, r := range records(t) {
		if !r.Startup.Valid || !r.Amount.Valid {
			continue
		}
		if !ok || r.Amount.GreaterThan(best) {
			best, ok = r.Amount.Decimal, true
		}
	}
	return best, ok
}

// AverageFunding is the mean of per-startup totals. Startups whose amounts
// are all undefined count with a total of zero.
func AverageFunding(t *core.Table) decimal.Decimal {
	totals := sumBy(t, func(r core.FundingRecord) core.Text { return r.Startup })
	if len(totals) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range totals {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(totals))))
}

// FundedStartups counts distinct defined startup names.
func FundedStartups(t *core.Table) int {
	seen := make(map[string]struct{})
	for _, r := range records(t) {
		if r.Startup.Valid {
			seen[r.Startup.Value] = struct{}{}
		}
	}
	return len(seen)
}

type period struct{ year, month int }

// MonthOnMonth groups dated rows by calendar month, summing amounts or
// counting rows, in chronological order.
func MonthOnMonth(t *core.Table, kind TrendKind) Trend {
	values := make(map[period]decimal.Decimal)
	for _, r := range records(t) {
		if !r.HasPeriod {
			continue
		}
		k := period{r.Year, r.Month}
		v := values[k]
		switch kind {
		case TrendCount:
			v = v.Add(decimal.NewFromInt(1))
		default:
			if r.Amount.Valid {
				v = v.Add(r.Amount.Decimal)
			}
		}
		values[k] = v
	}

	out := make(Trend, 0, len(values))
	for k, v := range values {
		out = append(out, PeriodPoint{Year: k.year, Month: k.month, Value: v})
	}
	slices.SortFunc(out, func(a, b PeriodPoint) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return a.Month - b.Month
	})
	return out
}

// SectorCounts ranks verticals by number of rows.
func SectorCounts(t *core.Table, n int) Counts {
	return rankCounts(countBy(t, func(r core.FundingRecord) core.Text { return r.Vertical }), n)
}

// SectorTotals ranks verticals by total amount.
func SectorTotals(t *core.Table, n int) Series {
	return rankSeries(sumBy(t, func(r core.FundingRecord) core.Text { return r.Vertical }), n)
}

// RoundCounts ranks every round type by number of rows.
func RoundCounts(t *core.Table) Counts {
	return rankCounts(countBy(t, func(r core.FundingRecord) core.Text { return r.Round }), 0)
}

// CityTotals ranks cities by total amount.
func CityTotals(t *core.Table, n int) Series {
	return rankSeries(sumBy(t, func(r core.FundingRecord) core.Text { return r.City }), n)
}

// TopStartups ranks startups by total amount.
func TopStartups(t *core.Table, n int) Series {
	return rankSeries(sumBy(t, func(r core.FundingRecord) core.Text { return r.Startup }), n)
}

// TopStartupsInYear ranks startups by total amount within one year.
func TopStartupsInYear(t *core.Table, year, n int) Series {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records(t) {
		if !r.HasPeriod || r.Year != year || !r.Startup.Valid {
			continue
		}
		addAmount(totals, r.Startup.Value, r.Amount)
	}
	return rankSeries(totals, n)
}

// Years lists the distinct years present, ascending.
func Years(t *core.Table) []int {
	seen := make(map[int]struct{})
	for _, r := range records(t) {
		if r.HasPeriod {
			seen[r.Year] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// TopInvestors splits every investor cell on commas and credits the row's
// full amount to each named investor.
func TopInvestors(t *core.Table, n int) Series {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records(t) {
		for _, inv := range core.InvestorList(r.Investors) {
			addAmount(totals, inv, r.Amount)
		}
	}
	return rankSeries(totals, n)
}

// FundingHeatmap pivots dated rows into a month by year grid of totals.
func FundingHeatmap(t *core.Table) Heatmap {
	months := make(map[int]struct{})
	years := make(map[int]struct{})
	sums := make(map[period]decimal.Decimal)
	for _, r := range records(t) {
		if !r.HasPeriod {
			continue
		}
		months[r.Month] = struct{}{}
		years[r.Year] = struct{}{}
		k := period{r.Year, r.Month}
		v := sums[k]
		if r.Amount.Valid {
			v = v.Add(r.Amount.Decimal)
		}
		sums[k] = v
	}

	h := Heatmap{Months: sortedKeys(months), Years: sortedKeys(years)}
	h.Cells = make([][]decimal.Decimal, len(h.Months))
	for i, m := range h.Months {
		row := make([]decimal.Decimal, len(h.Years))
		for j, y := range h.Years {
			if v, ok := sums[period{y, m}]; ok {
				row[j] = v
			} else {
				row[j] = decimal.Zero
			}
		}
		h.Cells[i] = row
	}
	return h
}

// Max returns the largest cell, or zero for an empty grid.
func (h Heatmap) Max() decimal.Decimal {
	best := decimal.Zero
	for _, row := range h.Cells {
		for _, v := range row {
			if v.GreaterThan(best) {
				best = v
			}
		}
	}
	return best
}

func records(t *core.Table) []core.FundingRecord {
	if t == nil {
		return nil
	}
	return t.Records
}

// sumBy totals amounts per defined key. Keys whose amounts are all
// undefined are present with zero.
func sumBy(t *core.Table, key func(core.FundingRecord) core.Text) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records(t) {
		k := key(r)
		if !k.Valid {
			continue
		}
		addAmount(totals, k.Value, r.Amount)
	}
	return totals
}

func countBy(t *core.Table, key func(core.FundingRecord) core.Text) map[string]int {
	counts := make(map[string]int)
	for _, r := range records(t) {
		if k := key(r); k.Valid {
			counts[k.Value]++
		}
	}
	return counts
}

func addAmount(totals map[string]decimal.Decimal, key string, a core.Amount) {
	v, ok := totals[key]
	if !ok {
		v = decimal.Zero
	}
	if a.Valid {
		v = v.Add(a.Decimal)
	}
	totals[key] = v
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
