package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"funding/internal/analysis"
	"funding/internal/backend"
	"funding/internal/config"
	"funding/internal/dataset"
	"funding/internal/normalize"
	"funding/internal/report"
	"funding/internal/services"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a dashboard view as a terminal report",
}

var reportArgs struct {
	trend string
	year  int
	raw   bool
}

func init() {
	flags := reportCmd.PersistentFlags()

	flags.IntVar(
		&args.width,
		"width",
		report.DefaultWidth,
		"Word wrap width",
	)
	flags.BoolVar(
		&reportArgs.raw,
		"markdown",
		false,
		"Print markdown instead of styled output",
	)

	overall := &cobra.Command{
		Use:   "overall",
		Short: "Overall funding analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return withDashboard(cmd, func(ctx context.Context, svc *services.DashboardService, _ *normalize.Normalizer) (string, error) {
				ov, err := svc.Overall(ctx, services.OverallOptions{
					Trend: analysis.ParseTrend(reportArgs.trend),
					Year:  reportArgs.year,
				})
				if err != nil {
					return "", err
				}
				return report.OverallMarkdown(ov), nil
			})
		},
	}
	overall.Flags().StringVar(&reportArgs.trend, "trend", "total", "Month on month trend: total or count")
	overall.Flags().IntVar(&reportArgs.year, "year", 0, "Year for the year-wise top startups (default earliest)")

	startup := &cobra.Command{
		Use:   "startup NAME",
		Short: "Profile of one startup",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return withDashboard(cmd, func(ctx context.Context, svc *services.DashboardService, norm *normalize.Normalizer) (string, error) {
				name := lookupName(argv, norm.Startup)
				v, err := svc.Startup(ctx, name)
				if err != nil {
					return "", fmt.Errorf("startup %q: %w", name, err)
				}
				return report.StartupMarkdown(v), nil
			})
		},
	}

	investor := &cobra.Command{
		Use:   "investor NAME",
		Short: "Profile of one investor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return withDashboard(cmd, func(ctx context.Context, svc *services.DashboardService, norm *normalize.Normalizer) (string, error) {
				name := lookupName(argv, norm.Investors)
				v, err := svc.Investor(ctx, name)
				if err != nil {
					return "", fmt.Errorf("investor %q: %w", name, err)
				}
				return report.InvestorMarkdown(v), nil
			})
		},
	}

	reportCmd.AddCommand(overall, startup, investor)
}

// lookupName joins the NAME arguments and canonicalizes them the way the
// dataset's names were, so "Flipkart.com" finds "flipkart".
func lookupName(argv []string, canonical func(string) string) string {
	return strings.TrimSpace(canonical(strings.Join(argv, " ")))
}

// withDashboard loads the configured dataset once and prints the markdown
// that view builds from it.
func withDashboard(cmd *cobra.Command, view func(context.Context, *services.DashboardService, *normalize.Normalizer) (string, error)) error {
	ctx := cmd.Context()
	backendCfg, err := backend.FromAppConfig(config.Load())
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer res.Close()

	store := dataset.NewStore(res.Source, res.Normalizer)
	if _, err := store.Load(ctx); err != nil {
		return err
	}

	md, err := view(ctx, services.NewDashboardService(store), res.Normalizer)
	if err != nil {
		return err
	}
	if reportArgs.raw {
		_, err = fmt.Fprint(cmd.OutOrStdout(), md)
		return err
	}
	out, err := report.Render(md, args.width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
