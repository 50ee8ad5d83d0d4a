package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"funding/internal/analysis"
	"funding/internal/core"
)

// TableProvider hands out the current funding table snapshot.
type TableProvider interface {
	Table() (*core.Table, error)
}

// OverallOptions carries the user's overall-view selections.
type OverallOptions struct {
	Trend analysis.TrendKind
	// Year for the year-wise top startups. Zero, or a year absent from the
	// data, selects the earliest year.
	Year int
}

// Overview holds every section of the overall view.
type Overview struct {
	Source   string
	Rows     int
	LoadedAt time.Time

	TotalFunding   decimal.Decimal
	MaxFunding     decimal.Decimal
	HasMaxFunding  bool
	AverageFunding decimal.Decimal
	FundedStartups int

	TrendKind analysis.TrendKind
	Trend     analysis.Trend

	SectorCounts analysis.Counts
	SectorTotals analysis.Series
	Rounds       analysis.Counts
	Cities       analysis.Series

	TopStartups       analysis.Series
	Years             []int
	Year              int
	TopStartupsInYear analysis.Series

	TopInvestors analysis.Series
	Heatmap      analysis.Heatmap
}

// StartupView is a startup profile with its similar startups.
type StartupView struct {
	Details analysis.StartupDetails
	Similar analysis.Counts
}

// InvestorView is an investor profile with its co-investors.
type InvestorView struct {
	Details analysis.InvestorDetails
	Similar analysis.Counts
}

// DashboardService computes the dashboard views from the current snapshot.
type DashboardService struct {
	tables TableProvider
}

func NewDashboardService(tables TableProvider) *DashboardService {
	return &DashboardService{tables: tables}
}

func (s *DashboardService) snapshot() (*core.Table, error) {
	if s.tables == nil {
		return nil, fmt.Errorf("dashboard service has no table provider")
	}
	return s.tables.Table()
}

// Overall computes the overall view. Sections are independent and run
// concurrently against the same snapshot.
func (s *DashboardService) Overall(ctx context.Context, opts OverallOptions) (Overview, error) {
	t, err := s.snapshot()
	if err != nil {
		return Overview{}, err
	}
	if opts.Trend == "" {
		opts.Trend = analysis.TrendTotal
	}

	ov := Overview{
		Source:    t.Source,
		Rows:      t.Len(),
		LoadedAt:  t.LoadedAt,
		TrendKind: opts.Trend,
		Years:     analysis.Years(t),
	}
	ov.Year = pickYear(ov.Years, opts.Year)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	section := func(fn func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	section(func() {
		ov.TotalFunding = analysis.TotalFunding(t)
		ov.MaxFunding, ov.HasMaxFunding = analysis.MaxFunding(t)
		ov.AverageFunding = analysis.AverageFunding(t)
		ov.FundedStartups = analysis.FundedStartups(t)
	})
	section(func() { ov.Trend = analysis.MonthOnMonth(t, opts.Trend) })
	section(func() {
		ov.SectorCounts = analysis.SectorCounts(t, analysis.TopSectors)
		ov.SectorTotals = analysis.SectorTotals(t, analysis.TopSectors)
	})
	section(func() { ov.Rounds = analysis.RoundCounts(t) })
	section(func() { ov.Cities = analysis.CityTotals(t, analysis.TopCities) })
	section(func() {
		ov.TopStartups = analysis.TopStartups(t, analysis.TopStartupsN)
		if ov.Year != 0 {
			ov.TopStartupsInYear = analysis.TopStartupsInYear(t, ov.Year, analysis.TopStartupsN)
		}
	})
	section(func() { ov.TopInvestors = analysis.TopInvestors(t, analysis.TopInvestorsN) })
	section(func() { ov.Heatmap = analysis.FundingHeatmap(t) })

	if err := g.Wait(); err != nil {
		return Overview{}, fmt.Errorf("overall view: %w", err)
	}
	slog.DebugContext(ctx, "Overall view computed",
		"rows", ov.Rows,
		"duration_ms", time.Since(start).Milliseconds())
	return ov, nil
}

// Startup computes the profile of a confirmed startup name. A miss returns
// analysis.ErrNoData and nothing else is computed.
func (s *DashboardService) Startup(ctx context.Context, name string) (StartupView, error) {
	if err := ctx.Err(); err != nil {
		return StartupView{}, err
	}
	t, err := s.snapshot()
	if err != nil {
		return StartupView{}, err
	}
	details, err := analysis.StartupProfile(t, name)
	if err != nil {
		return StartupView{}, err
	}
	return StartupView{
		Details: details,
		Similar: analysis.SimilarStartups(t, details, analysis.SimilarN),
	}, nil
}

// Investor computes the profile of a confirmed investor name. A miss returns
// analysis.ErrNoData and nothing else is computed.
func (s *DashboardService) Investor(ctx context.Context, name string) (InvestorView, error) {
	if err := ctx.Err(); err != nil {
		return InvestorView{}, err
	}
	t, err := s.snapshot()
	if err != nil {
		return InvestorView{}, err
	}
	details, err := analysis.InvestorProfile(t, name)
	if err != nil {
		return InvestorView{}, err
	}
	return InvestorView{
		Details: details,
		Similar: analysis.SimilarInvestors(t, details.Name, analysis.SimilarN),
	}, nil
}

// Entities returns the picker list for mode. The overall view has none.
func (s *DashboardService) Entities(ctx context.Context, mode Mode) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	switch mode {
	case ModeStartup:
		return analysis.StartupNames(t), nil
	case ModeInvestor:
		return analysis.InvestorNames(t), nil
	default:
		return nil, nil
	}
}

func pickYear(years []int, want int) int {
	if len(years) == 0 {
		return 0
	}
	if slices.Contains(years, want) {
		return want
	}
	return years[0]
}
