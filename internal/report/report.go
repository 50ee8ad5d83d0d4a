// Package report renders dashboard views as markdown for the terminal.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/glamour"

	"funding/internal/analysis"
	"funding/internal/core"
	"funding/internal/render"
	"funding/internal/services"
)

// DefaultWidth is the word wrap used when the caller passes zero.
const DefaultWidth = 100

// Render formats markdown for a terminal with glamour. Styles follow the
// terminal background.
func Render(markdown string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// OverallMarkdown describes the overall view.
func OverallMarkdown(ov services.Overview) string {
	var d doc
	d.H1("Indian Startup Funding")
	d.PlainText(fmt.Sprintf("%s rows from %s, loaded %s.",
		render.Number(ov.Rows), ov.Source, ov.LoadedAt.Format(time.DateTime)))

	maxFunding := "N/A"
	if ov.HasMaxFunding {
		maxFunding = render.Crore(ov.MaxFunding)
	}
	d.Table([]string{"Metric", "Value"}, [][]string{
		{"Total funding", render.Crore(ov.TotalFunding)},
		{"Max funding", maxFunding},
		{"Average funding", render.Crore(ov.AverageFunding)},
		{"Funded startups", render.Number(ov.FundedStartups)},
	})

	d.H2("Top startups")
	d.Table([]string{"Startup", "Funding"}, seriesRows(ov.TopStartups))

	if ov.Year != 0 {
		d.H2(fmt.Sprintf("Top startups in %d", ov.Year))
		d.Table([]string{"Startup", "Funding"}, seriesRows(ov.TopStartupsInYear))
	}

	d.H2("Top investors")
	d.Table([]string{"Investor", "Funding"}, seriesRows(ov.TopInvestors))

	d.H2("Sectors")
	d.Table([]string{"Sector", "Deals"}, countRows(ov.SectorCounts))
	d.Table([]string{"Sector", "Funding"}, seriesRows(ov.SectorTotals))

	d.H2("Rounds")
	d.Table([]string{"Round", "Deals"}, countRows(ov.Rounds))

	d.H2("Cities")
	d.Table([]string{"City", "Funding"}, seriesRows(ov.Cities))

	d.H2("Month on month")
	d.Table([]string{"Month", trendHeader(ov.TrendKind)}, trendRows(ov.Trend, ov.TrendKind))

	d.H2("Funding heatmap")
	d.Table(heatmapHeader(ov.Heatmap), heatmapRows(ov.Heatmap))

	return d.String()
}

// StartupMarkdown describes one startup profile.
func StartupMarkdown(v services.StartupView) string {
	var d doc
	p := v.Details
	d.H1(render.Title(p.Name))

	latest := "Unknown"
	if p.LatestDate.Valid {
		latest = p.LatestDate.String()
	}
	d.Table([]string{"Field", "Value"}, [][]string{
		{"City", render.TitleText(p.City)},
		{"Sector", render.TitleText(p.Vertical)},
		{"Subsector", render.TitleText(p.Subvertical)},
		{"Total funding", render.Crore(p.TotalFunding)},
		{"Latest funding date", latest},
	})

	d.H2("Rounds")
	d.BulletList(titled(p.Rounds)...)

	d.H2("Investors")
	d.BulletList(titled(p.Investors)...)

	d.H2("Recent rounds")
	d.Table(recordHeader, recordRows(p.Recent))

	d.H2("Similar startups")
	d.Table([]string{"Startup", "Rounds"}, countRows(v.Similar))

	return d.String()
}

// InvestorMarkdown describes one investor profile.
func InvestorMarkdown(v services.InvestorView) string {
	var d doc
	p := v.Details
	d.H1(render.Title(p.Name))
	d.PlainText(fmt.Sprintf("Matched %s investments.", render.Number(p.Matches)))

	d.H2("Most recent investments")
	d.Table(recordHeader, recordRows(p.Recent))

	d.H2("Biggest investments")
	d.Table([]string{"Startup", "Funding"}, seriesRows(p.Biggest))

	d.H2("Sectors")
	d.Table([]string{"Sector", "Funding"}, seriesRows(p.Sectors))

	d.H2("Rounds")
	d.Table([]string{"Round", "Funding"}, seriesRows(p.Rounds))

	d.H2("Cities")
	d.Table([]string{"City", "Funding"}, seriesRows(p.Cities))

	d.H2("Year on year")
	rows := make([][]string, len(p.ByYear))
	for i, y := range p.ByYear {
		rows[i] = []string{strconv.Itoa(y.Year), render.Crore(y.Value)}
	}
	d.Table([]string{"Year", "Funding"}, rows)

	d.H2("Similar investors")
	d.Table([]string{"Investor", "Shared startups"}, countRows(v.Similar))

	return d.String()
}

var recordHeader = []string{"Date", "Startup", "Investors", "Sector", "City", "Round", "Amount"}

func recordRows(recs []core.FundingRecord) [][]string {
	out := make([][]string, len(recs))
	for i, r := range recs {
		amount := "Undisclosed"
		if r.Amount.Valid {
			amount = render.Crore(r.Amount.Decimal)
		}
		date := "Unknown"
		if r.Date.Valid {
			date = r.Date.String()
		}
		out[i] = []string{
			date,
			render.TitleText(r.Startup),
			render.TitleText(r.Investors),
			render.TitleText(r.Vertical),
			render.TitleText(r.City),
			render.TitleText(r.Round),
			amount,
		}
	}
	return out
}

func seriesRows(s analysis.Series) [][]string {
	out := make([][]string, len(s))
	for i, p := range s {
		out[i] = []string{render.Title(p.Label), render.Crore(p.Value)}
	}
	return out
}

func countRows(c analysis.Counts) [][]string {
	out := make([][]string, len(c))
	for i, p := range c {
		out[i] = []string{render.Title(p.Label), render.Number(p.N)}
	}
	return out
}

func trendHeader(kind analysis.TrendKind) string {
	if kind == analysis.TrendCount {
		return "Deals"
	}
	return "Funding"
}

func trendRows(t analysis.Trend, kind analysis.TrendKind) [][]string {
	out := make([][]string, len(t))
	for i, p := range t {
		value := render.Crore(p.Value)
		if kind == analysis.TrendCount {
			value = p.Value.String()
		}
		out[i] = []string{p.Label(), value}
	}
	return out
}

func heatmapHeader(h analysis.Heatmap) []string {
	out := []string{"Month"}
	for _, y := range h.Years {
		out = append(out, strconv.Itoa(y))
	}
	return out
}

func heatmapRows(h analysis.Heatmap) [][]string {
	out := make([][]string, len(h.Months))
	for i, m := range h.Months {
		row := []string{render.MonthName(m)}
		for _, v := range h.Cells[i] {
			row = append(row, render.Crore(v))
		}
		out[i] = row
	}
	return out
}

func titled(names []string) []string {
	if len(names) == 0 {
		return []string{"N/A"}
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = render.Title(n)
	}
	return out
}
