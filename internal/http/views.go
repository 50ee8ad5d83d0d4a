package http

import (
	"net/url"
	"strconv"

	"funding/internal/analysis"
	"funding/internal/core"
	"funding/internal/render"
	"funding/internal/services"
)

// Template models. Every value is preformatted for display so templates
// stay free of logic.

type modeLink struct {
	Href   string
	Title  string
	Active bool
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type metric struct {
	Label string
	Value string
}

type amountRow struct {
	Rank   int
	Label  string
	Amount string
}

type countRow struct {
	Label string
	Count string
}

type recordRow struct {
	Date      string
	Startup   string
	Investors string
	Vertical  string
	City      string
	Round     string
	Amount    string
}

type pickerView struct {
	Action  string
	Label   string
	Button  string
	Options []option
}

type overallView struct {
	Metrics      []metric
	TrendOptions []option
	TrendChart   string
	YearOptions  []option
	Year         int
	YearStartups []amountRow
	TopInvestors []amountRow
	Heat         render.HeatGrid
}

type startupView struct {
	Name      string
	Facts     []metric
	Investors string
	Recent    []recordRow
	Similar   []countRow
}

type investorView struct {
	Name    string
	Matches string
	Recent  []recordRow
	Similar []countRow
	Charts  []chartLink
}

type chartLink struct {
	Src   string
	Title string
}

type pageData struct {
	Title    string
	Modes    []modeLink
	Source   string
	Rows     string
	LoadedAt string

	Overall  *overallView
	Picker   *pickerView
	Startup  *startupView
	Investor *investorView

	// NoData names the entity whose lookup missed.
	NoData     bool
	NoDataName string
	Message    string
}

func newPage(mode services.Mode) *pageData {
	p := &pageData{Title: mode.Title()}
	for _, m := range services.Modes() {
		href := "/?mode=" + string(m)
		p.Modes = append(p.Modes, modeLink{Href: href, Title: m.Title(), Active: m == mode})
	}
	return p
}

func newPicker(mode services.Mode, names []string, selected string) *pickerView {
	v := &pickerView{Action: "/" + string(mode)}
	switch mode {
	case services.ModeInvestor:
		v.Label, v.Button = "Select Investor", "Find Investor Details"
	default:
		v.Label, v.Button = "Select StartUp", "Find StartUp Details"
	}
	for _, n := range names {
		v.Options = append(v.Options, option{Value: n, Label: render.Title(n), Selected: n == selected})
	}
	return v
}

func newOverallView(ov services.Overview) *overallView {
	maxFunding := "N/A"
	if ov.HasMaxFunding {
		maxFunding = render.Crore(ov.MaxFunding)
	}
	v := &overallView{
		Metrics: []metric{
			{"Total", render.Crore(ov.TotalFunding)},
			{"Max", maxFunding},
			{"Avg", render.Crore(ov.AverageFunding)},
			{"Funded Startups", render.Number(ov.FundedStartups)},
		},
		TrendChart:   "/charts/mom?trend=" + string(ov.TrendKind),
		Year:         ov.Year,
		YearStartups: amountRows(ov.TopStartupsInYear),
		TopInvestors: amountRows(ov.TopInvestors),
		Heat:         render.NewHeatGrid(ov.Heatmap),
	}
	for _, k := range []analysis.TrendKind{analysis.TrendTotal, analysis.TrendCount} {
		label := "Total"
		if k == analysis.TrendCount {
			label = "Count"
		}
		v.TrendOptions = append(v.TrendOptions, option{Value: string(k), Label: label, Selected: k == ov.TrendKind})
	}
	for _, y := range ov.Years {
		s := strconv.Itoa(y)
		v.YearOptions = append(v.YearOptions, option{Value: s, Label: s, Selected: y == ov.Year})
	}
	return v
}

func newStartupView(sv services.StartupView) *startupView {
	d := sv.Details
	latest := "Unknown"
	if d.LatestDate.Valid {
		latest = d.LatestDate.String()
	}
	return &startupView{
		Name: render.Title(d.Name),
		Facts: []metric{
			{"City", render.TitleText(d.City)},
			{"Vertical", render.TitleText(d.Vertical)},
			{"Subvertical", render.TitleText(d.Subvertical)},
			{"Total Funding", render.Crore(d.TotalFunding)},
			{"Rounds", joinOrNA(d.Rounds)},
			{"Latest Funding", latest},
		},
		Investors: joinOrNA(d.Investors),
		Recent:    recordRows(d.Recent),
		Similar:   countRows(sv.Similar),
	}
}

func newInvestorView(iv services.InvestorView) *investorView {
	d := iv.Details
	v := &investorView{
		Name:    render.Title(d.Name),
		Matches: render.Number(d.Matches),
		Recent:  recordRows(d.Recent),
		Similar: countRows(iv.Similar),
	}
	titles := map[string]string{
		"investor-biggest": "Biggest Investments",
		"investor-sectors": "Sectors Invested In",
		"investor-rounds":  "Stages Invested In",
		"investor-cities":  "Cities Invested In",
		"investor-yoy":     "Year-on-Year Investment",
	}
	for _, name := range []string{"investor-biggest", "investor-sectors", "investor-rounds", "investor-cities", "investor-yoy"} {
		src := "/charts/" + name + "?name=" + url.QueryEscape(d.Name)
		v.Charts = append(v.Charts, chartLink{Src: src, Title: titles[name]})
	}
	return v
}

func joinOrNA(names []string) string {
	if len(names) == 0 {
		return "N/A"
	}
	return render.Join(names)
}

func amountRows(s analysis.Series) []amountRow {
	out := make([]amountRow, len(s))
	for i, p := range s {
		out[i] = amountRow{Rank: i + 1, Label: render.Title(p.Label), Amount: render.Crore(p.Value)}
	}
	return out
}

func countRows(c analysis.Counts) []countRow {
	out := make([]countRow, len(c))
	for i, p := range c {
		out[i] = countRow{Label: render.Title(p.Label), Count: render.Number(p.N)}
	}
	return out
}

func recordRows(recs []core.FundingRecord) []recordRow {
	out := make([]recordRow, len(recs))
	for i, r := range recs {
		amount := "Undisclosed"
		if r.Amount.Valid {
			amount = render.Crore(r.Amount.Decimal)
		}
		date := "Unknown"
		if r.Date.Valid {
			date = r.Date.String()
		}
		out[i] = recordRow{
			Date:      date,
			Startup:   render.TitleText(r.Startup),
			Investors: render.TitleText(r.Investors),
			Vertical:  render.TitleText(r.Vertical),
			City:      render.TitleText(r.City),
			Round:     render.TitleText(r.Round),
			Amount:    amount,
		}
	}
	return out
}
