package services

import (
	"context"
	"errors"
	"testing"

	"funding/internal/analysis"
	"funding/internal/core"
	"funding/internal/dataset"
)

type countingProvider struct {
	table *core.Table
	calls int
}

func (p *countingProvider) Table() (*core.Table, error) {
	p.calls++
	if p.table == nil {
		return nil, dataset.ErrNotLoaded
	}
	return p.table, nil
}

func sampleTable() *core.Table {
	raw := []core.RawRecord{
		{Date: "2015-01-05", Startup: "ola", Investors: "sequoia, accel", Vertical: "transport", City: "bangalore", Round: "series a", Amount: "5"},
		{Date: "2015-01-20", Startup: "ola", Investors: "softbank", Vertical: "transport", City: "bangalore", Round: "series b", Amount: "7"},
		{Date: "2016-02-02", Startup: "flipkart", Investors: "tiger global, accel", Vertical: "ecommerce", City: "bangalore", Round: "series c", Amount: "3"},
		{Date: "2016-03-10", Startup: "uber", Investors: "benchmark", Vertical: "transport", City: "delhi", Round: "seed", Amount: "1"},
	}
	return dataset.Build(raw, nil, "test", core.NewDate(2020, 1, 1).Time)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeOverall},
		{"overall", ModeOverall},
		{" Startup ", ModeStartup},
		{"INVESTOR", ModeInvestor},
		{"nonsense", ModeOverall},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if len(Modes()) != 3 || ModeStartup.Title() != "StartUp" {
		t.Errorf("unexpected modes %v", Modes())
	}
}

func TestOverall(t *testing.T) {
	svc := NewDashboardService(dataset.NewStaticStore(sampleTable()))

	ov, err := svc.Overall(context.Background(), OverallOptions{Trend: analysis.TrendCount, Year: 2016})
	if err != nil {
		t.Fatalf("overall: %v", err)
	}
	if ov.Rows != 4 || ov.FundedStartups != 3 || ov.TotalFunding.String() != "16" {
		t.Fatalf("unexpected headline: %+v", ov)
	}
	if !ov.HasMaxFunding || ov.MaxFunding.String() != "7" {
		t.Fatalf("unexpected max: %s", ov.MaxFunding)
	}
	if len(ov.Trend) != 3 || ov.Trend[0].Value.String() != "2" {
		t.Fatalf("unexpected trend: %+v", ov.Trend)
	}
	if ov.Year != 2016 || len(ov.TopStartupsInYear) != 2 {
		t.Fatalf("unexpected year-wise ranking: year=%d %v", ov.Year, ov.TopStartupsInYear)
	}
	if ov.TopInvestors[0].Label != "accel" || ov.TopInvestors[0].Value.String() != "8" {
		t.Fatalf("unexpected investors: %v", ov.TopInvestors)
	}
	if len(ov.Heatmap.Years) != 2 {
		t.Fatalf("unexpected heatmap: %+v", ov.Heatmap)
	}
}

func TestOverallDefaultsYearAndTrend(t *testing.T) {
	svc := NewDashboardService(dataset.NewStaticStore(sampleTable()))
	ov, err := svc.Overall(context.Background(), OverallOptions{Year: 1999})
	if err != nil {
		t.Fatalf("overall: %v", err)
	}
	if ov.Year != 2015 || ov.TrendKind != analysis.TrendTotal {
		t.Fatalf("expected earliest year and total trend, got %d %s", ov.Year, ov.TrendKind)
	}
}

func TestOverallCancelled(t *testing.T) {
	svc := NewDashboardService(dataset.NewStaticStore(sampleTable()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Overall(ctx, OverallOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNotLoaded(t *testing.T) {
	svc := NewDashboardService(&countingProvider{})
	if _, err := svc.Overall(context.Background(), OverallOptions{}); !errors.Is(err, dataset.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestStartupView(t *testing.T) {
	svc := NewDashboardService(dataset.NewStaticStore(sampleTable()))
	v, err := svc.Startup(context.Background(), "ola")
	if err != nil {
		t.Fatalf("startup: %v", err)
	}
	if v.Details.TotalFunding.String() != "12" {
		t.Fatalf("unexpected total %s", v.Details.TotalFunding)
	}
	if len(v.Similar) != 1 || v.Similar[0].Label != "uber" {
		t.Fatalf("unexpected similar %v", v.Similar)
	}
}

func TestMissTriggersNoFurtherWork(t *testing.T) {
	p := &countingProvider{table: sampleTable()}
	svc := NewDashboardService(p)

	if _, err := svc.Startup(context.Background(), "nobody"); !errors.Is(err, analysis.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := svc.Investor(context.Background(), ""); !errors.Is(err, analysis.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if p.calls != 2 {
		t.Fatalf("expected one snapshot per lookup, got %d", p.calls)
	}
}

func TestInvestorView(t *testing.T) {
	svc := NewDashboardService(dataset.NewStaticStore(sampleTable()))
	v, err := svc.Investor(context.Background(), "accel")
	if err != nil {
		t.Fatalf("investor: %v", err)
	}
	if v.Details.Matches != 2 {
		t.Fatalf("unexpected matches %d", v.Details.Matches)
	}
	// accel backed ola and flipkart.
	want := map[string]int{"sequoia": 1, "softbank": 1, "tiger global": 1}
	if len(v.Similar) != len(want) {
		t.Fatalf("unexpected similar %v", v.Similar)
	}
	for _, c := range v.Similar {
		if want[c.Label] != c.N {
			t.Fatalf("unexpected similar %v", v.Similar)
		}
	}
}

func TestEntities(t *testing.T) {
	svc := NewDashboardService(dataset.NewStaticStore(sampleTable()))
	ctx := context.Background()

	startups, err := svc.Entities(ctx, ModeStartup)
	if err != nil || len(startups) != 3 || startups[0] != "flipkart" {
		t.Fatalf("startups: %v err=%v", startups, err)
	}
	investors, _ := svc.Entities(ctx, ModeInvestor)
	if len(investors) != 5 || investors[0] != "accel" {
		t.Fatalf("investors: %v", investors)
	}
	if none, _ := svc.Entities(ctx, ModeOverall); none != nil {
		t.Fatalf("overall should have no picker entries, got %v", none)
	}
}
