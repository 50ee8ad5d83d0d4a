package services

import (
	"context"
	"errors"
	"fmt"

	"funding/internal/analysis"
	"funding/internal/core"
	"funding/internal/render"
)

// ErrUnknownChart is returned for a chart name the dashboard does not draw.
var ErrUnknownChart = errors.New("unknown chart")

// ChartShape selects how a chart's values are drawn.
type ChartShape int

const (
	ShapeBar ChartShape = iota
	ShapePie
	ShapeLine
)

// Chart is one drawable dashboard chart.
type Chart struct {
	Name   string
	Title  string
	Shape  ChartShape
	Values []render.Value
}

// ChartParams carries the selections a chart depends on. Investor charts
// need Name; the month-on-month chart uses Trend.
type ChartParams struct {
	Trend analysis.TrendKind
	Name  string
}

type chartDef struct {
	shape ChartShape
	build func(t *core.Table, p ChartParams) (string, []render.Value)
}

var chartDefs = map[string]chartDef{
	"mom": {shape: ShapeLine, build: func(t *core.Table, p ChartParams) (string, []render.Value) {
		title := "Month-on-Month Total Funding (Cr)"
		if p.Trend == analysis.TrendCount {
			title = "Month-on-Month Number of Fundings"
		}
		return title, render.FromTrend(analysis.MonthOnMonth(t, p.Trend))
	}},
	"sectors-count": {shape: ShapePie, build: func(t *core.Table, _ ChartParams) (string, []render.Value) {
		return "Top Sectors by Number of Fundings", render.FromCounts(analysis.SectorCounts(t, analysis.TopSectors))
	}},
	"sectors-amount": {shape: ShapePie, build: func(t *core.Table, _ ChartParams) (string, []render.Value) {
		return "Top Sectors by Total Funding", render.FromSeries(analysis.SectorTotals(t, analysis.TopSectors))
	}},
	"rounds": {shape: ShapePie, build: func(t *core.Table, _ ChartParams) (string, []render.Value) {
		return "Type of Funding", render.FromCounts(analysis.RoundCounts(t))
	}},
	"cities": {shape: ShapeBar, build: func(t *core.Table, _ ChartParams) (string, []render.Value) {
		return "City-wise Funding (Cr)", render.FromSeries(analysis.CityTotals(t, analysis.TopCities))
	}},
	"top-startups": {shape: ShapeBar, build: func(t *core.Table, _ ChartParams) (string, []render.Value) {
		return "Top Funded Startups (Cr)", render.FromSeries(analysis.TopStartups(t, analysis.TopStartupsN))
	}},
}

var investorCharts = map[string]struct {
	shape ChartShape
	title string
	pick  func(d analysis.InvestorDetails) []render.Value
}{
	"investor-biggest": {ShapeBar, "Biggest Investments", func(d analysis.InvestorDetails) []render.Value { return render.FromSeries(d.Biggest) }},
	"investor-sectors": {ShapePie, "Sectors Invested In", func(d analysis.InvestorDetails) []render.Value { return render.FromSeries(d.Sectors) }},
	"investor-rounds":  {ShapePie, "Stages Invested In", func(d analysis.InvestorDetails) []render.Value { return render.FromSeries(d.Rounds) }},
	"investor-cities":  {ShapePie, "Cities Invested In", func(d analysis.InvestorDetails) []render.Value { return render.FromSeries(d.Cities) }},
	"investor-yoy":     {ShapeLine, "Year-on-Year Investment", func(d analysis.InvestorDetails) []render.Value { return render.FromYears(d.ByYear) }},
}

// ChartNames lists every chart the dashboard serves.
func ChartNames() []string {
	return []string{
		"mom", "sectors-count", "sectors-amount", "rounds", "cities", "top-startups",
		"investor-biggest", "investor-sectors", "investor-rounds", "investor-cities", "investor-yoy",
	}
}

// Chart computes the values of the named chart. Investor charts return
// analysis.ErrNoData when the investor has no rows.
func (s *DashboardService) Chart(ctx context.Context, name string, p ChartParams) (Chart, error) {
	if err := ctx.Err(); err != nil {
		return Chart{}, err
	}
	def, overall := chartDefs[name]
	inv, investor := investorCharts[name]
	if !overall && !investor {
		return Chart{}, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}

	t, err := s.snapshot()
	if err != nil {
		return Chart{}, err
	}
	if overall {
		if p.Trend == "" {
			p.Trend = analysis.TrendTotal
		}
		title, values := def.build(t, p)
		return Chart{Name: name, Title: title, Shape: def.shape, Values: values}, nil
	}

	details, err := analysis.InvestorProfile(t, p.Name)
	if err != nil {
		return Chart{}, err
	}
	return Chart{Name: name, Title: inv.title, Shape: inv.shape, Values: inv.pick(details)}, nil
}
