package analysis

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"funding/internal/core"
)

// StartupDetails summarises every row recorded for one startup.
type StartupDetails struct {
	Name        string
	City        core.Text
	Vertical    core.Text
	Subvertical core.Text

	TotalFunding decimal.Decimal
	Rounds       []string
	Investors    []string
	// LatestDate is undefined when none of the startup's rows are dated.
	LatestDate core.Date
	Recent     []core.FundingRecord
}

// StartupProfile builds the profile of the startup named exactly name.
// It returns ErrNoData when no row matches.
func StartupProfile(t *core.Table, name string) (StartupDetails, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return StartupDetails{}, ErrNoData
	}
	var rows []core.FundingRecord
	for _, r := range records(t) {
		if r.Startup.Valid && r.Startup.Value == name {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return StartupDetails{}, ErrNoData
	}

	byDate := newestFirst(rows)
	latest := byDate[0]
	p := StartupDetails{
		Name:         name,
		City:         latest.City,
		Vertical:     latest.Vertical,
		Subvertical:  latest.Subvertical,
		TotalFunding: decimal.Zero,
		LatestDate:   latest.Date,
		Recent:       head(byDate, RecentN),
	}
	for _, r := range rows {
		if r.Amount.Valid {
			p.TotalFunding = p.TotalFunding.Add(r.Amount.Decimal)
		}
		if r.Round.Valid {
			p.Rounds = appendUnique(p.Rounds, r.Round.Value)
		}
		if r.Investors.Valid {
			p.Investors = appendUnique(p.Investors, r.Investors.Value)
		}
	}
	return p, nil
}

// SimilarStartups ranks other startups sharing the profile's vertical or
// subvertical by how many such rows they have.
func SimilarStartups(t *core.Table, p StartupDetails, n int) Counts {
	counts := make(map[string]int)
	for _, r := range records(t) {
		if !r.Startup.Valid || r.Startup.Value == p.Name {
			continue
		}
		if r.Vertical.Equal(p.Vertical) || r.Subvertical.Equal(p.Subvertical) {
			counts[r.Startup.Value]++
		}
	}
	return rankCounts(counts, n)
}

// InvestorDetails summarises the rows whose investor cell contains name.
type InvestorDetails struct {
	Name    string
	Matches int

	Recent  []core.FundingRecord
	Biggest Series
	Sectors Series
	Rounds  Series
	Cities  Series
	ByYear  []YearPoint
}

// InvestorProfile builds the profile of investor name. Rows are matched by
// substring containment on the whole investor cell, so "accel" also matches
// "accelerate". It returns ErrNoData when no row matches.
func InvestorProfile(t *core.Table, name string) (InvestorDetails, error) {
	rows := investorRows(t, name)
	if len(rows) == 0 {
		return InvestorDetails{}, ErrNoData
	}

	sub := &core.Table{Records: rows}
	p := InvestorDetails{
		Name:    strings.TrimSpace(name),
		Matches: len(rows),
		Recent:  head(newestFirst(rows), RecentN),
		Biggest: rankSeries(sumBy(sub, func(r core.FundingRecord) core.Text { return r.Startup }), BiggestN),
		Sectors: rankSeries(sumBy(sub, func(r core.FundingRecord) core.Text { return r.Vertical }), 0),
		Rounds:  rankSeries(sumBy(sub, func(r core.FundingRecord) core.Text { return r.Round }), 0),
		Cities:  rankSeries(sumBy(sub, func(r core.FundingRecord) core.Text { return r.City }), 0),
	}

	byYear := make(map[int]decimal.Decimal)
	for _, r := range rows {
		if !r.HasPeriod {
			continue
		}
		v, ok := byYear[r.Year]
		if !ok {
			v = decimal.Zero
		}
		if r.Amount.Valid {
			v = v.Add(r.Amount.Decimal)
		}
		byYear[r.Year] = v
	}
	for y, v := range byYear {
		p.ByYear = append(p.ByYear, YearPoint{Year: y, Value: v})
	}
	slices.SortFunc(p.ByYear, func(a, b YearPoint) int { return a.Year - b.Year })
	return p, nil
}

// SimilarInvestors counts, for every other investor, how many rows they
// appear on for startups that name has backed.
func SimilarInvestors(t *core.Table, name string, n int) Counts {
	name = strings.TrimSpace(name)
	backed := make(map[string]struct{})
	for _, r := range investorRows(t, name) {
		if r.Startup.Valid {
			backed[r.Startup.Value] = struct{}{}
		}
	}
	if len(backed) == 0 {
		return Counts{}
	}

	counts := make(map[string]int)
	for _, r := range records(t) {
		if !r.Startup.Valid {
			continue
		}
		if _, ok := backed[r.Startup.Value]; !ok {
			continue
		}
		for _, inv := range core.InvestorList(r.Investors) {
			if inv != name {
				counts[inv]++
			}
		}
	}
	return rankCounts(counts, n)
}

// StartupNames lists distinct startup names, sorted.
func StartupNames(t *core.Table) []string {
	seen := make(map[string]struct{})
	for _, r := range records(t) {
		if r.Startup.Valid {
			seen[r.Startup.Value] = struct{}{}
		}
	}
	return sortedStrings(seen)
}

// InvestorNames lists distinct individual investor names, sorted.
func InvestorNames(t *core.Table) []string {
	seen := make(map[string]struct{})
	for _, r := range records(t) {
		for _, inv := range core.InvestorList(r.Investors) {
			seen[inv] = struct{}{}
		}
	}
	return sortedStrings(seen)
}

func investorRows(t *core.Table, name string) []core.FundingRecord {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	var rows []core.FundingRecord
	for _, r := range records(t) {
		if r.Investors.Valid && strings.Contains(r.Investors.Value, name) {
			rows = append(rows, r)
		}
	}
	return rows
}

// newestFirst returns a copy of rows ordered by date descending. Undefined
// dates sort last and ties keep table order.
func newestFirst(rows []core.FundingRecord) []core.FundingRecord {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b core.FundingRecord) int {
		switch {
		case a.Date.After(b.Date):
			return -1
		case b.Date.After(a.Date):
			return 1
		default:
			return 0
		}
	})
	return out
}

func head(rows []core.FundingRecord, n int) []core.FundingRecord {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
