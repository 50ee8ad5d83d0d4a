package report

import (
	"context"
	"strings"
	"testing"

	"funding/internal/core"
	"funding/internal/dataset"
	"funding/internal/services"
)

func sampleService() *services.DashboardService {
	raw := []core.RawRecord{
		{Date: "2015-01-05", Startup: "ola", Investors: "sequoia, accel", Vertical: "transport", City: "bangalore", Round: "series a", Amount: "5"},
		{Date: "2015-01-20", Startup: "ola", Investors: "softbank", Vertical: "transport", City: "bangalore", Round: "series b", Amount: "7"},
		{Date: "2016-02-02", Startup: "flipkart", Investors: "tiger global, accel", Vertical: "ecommerce", City: "bangalore", Round: "series c", Amount: "3"},
		{Startup: "uber", Investors: "benchmark", Vertical: "transport", City: "delhi", Round: "seed"},
	}
	t := dataset.Build(raw, nil, "test", core.NewDate(2020, 1, 1).Time)
	return services.NewDashboardService(dataset.NewStaticStore(t))
}

func TestOverallMarkdown(t *testing.T) {
	ov, err := sampleService().Overall(context.Background(), services.OverallOptions{})
	if err != nil {
		t.Fatalf("Overall() error = %v", err)
	}
	md := OverallMarkdown(ov)

	for _, want := range []string{
		"# Indian Startup Funding",
		"| Total funding | 15 Cr |",
		"| Funded startups | 3 |",
		"## Top startups in 2015",
		"| Ola | 12 Cr |",
		"| Accel | 8 Cr |",
		"| 1-2015 |",
		"## Funding heatmap",
		"| Month | 2015 | 2016 |",
		"| Jan | 12 Cr | 0 Cr |",
		"| Feb | 0 Cr | 3 Cr |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("overall markdown missing %q:\n%s", want, md)
		}
	}
}

func TestStartupMarkdown(t *testing.T) {
	v, err := sampleService().Startup(context.Background(), "uber")
	if err != nil {
		t.Fatalf("Startup() error = %v", err)
	}
	md := StartupMarkdown(v)

	for _, want := range []string{
		"# Uber",
		"| City | Delhi |",
		"| Latest funding date | Unknown |",
		"- Benchmark",
		"Undisclosed",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("startup markdown missing %q:\n%s", want, md)
		}
	}
}

func TestInvestorMarkdown(t *testing.T) {
	v, err := sampleService().Investor(context.Background(), "accel")
	if err != nil {
		t.Fatalf("Investor() error = %v", err)
	}
	md := InvestorMarkdown(v)

	for _, want := range []string{
		"# Accel",
		"Matched 2 investments.",
		"| Ola | 5 Cr |",
		"| 2016 | 3 Cr |",
		"| Sequoia |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("investor markdown missing %q:\n%s", want, md)
		}
	}
}

func TestDocTable(t *testing.T) {
	var d doc
	d.Table([]string{"A"}, nil)
	d.Table([]string{"A", "B"}, [][]string{{"x|y", "line\nbreak"}})
	got := d.String()

	if !strings.Contains(got, "_No data._") {
		t.Errorf("empty table not reported:\n%s", got)
	}
	if !strings.Contains(got, `| x\|y | line break |`) {
		t.Errorf("cells not escaped:\n%s", got)
	}
}

func TestRender(t *testing.T) {
	out, err := Render("# Funding\n\nFlipkart raised money.\n", 0)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Flipkart") {
		t.Errorf("Render() = %q, want text preserved", out)
	}
}
