package main

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"fatecdata/internal/demand"
	"fatecdata/internal/pipeline"
)

func newDemandScrapeCmd(a *app) *cobra.Command {
	var (
		out         string
		periods     []string
		periodsFrom string
	)
	cmd := &cobra.Command{
		Use:   "demand:scrape",
		Short: "Collect entrance-exam demand for every period and unit.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = filepath.Join(a.cfg.OutputDir, "todas_fatecs_demanda.csv")
			}
			if err := a.cfg.Require("DEMAND_URL", a.cfg.DemandURL); err != nil {
				return err
			}
			if periodsFrom != "static" && periodsFrom != "browser" {
				return fmt.Errorf("--periods-from must be static or browser, got %q", periodsFrom)
			}
			chrome := demand.NewChrome(demand.ChromeConfig{
				URL:               a.cfg.DemandURL,
				Headless:          a.cfg.DemandHeadless,
				UserAgent:         a.cfg.DemandUserAgent,
				NavigationTimeout: a.cfg.DemandNavTimeout,
				Settle:            a.cfg.DemandSettle,
			})
			defer chrome.Close()

			var source demand.PeriodSource = chrome
			if periodsFrom == "static" {
				source = demand.PeriodLister{UserAgent: a.cfg.DemandUserAgent, Timeout: a.cfg.DemandNavTimeout}
			}

			scraper := &demand.Scraper{
				URL:     a.cfg.DemandURL,
				Periods: source,
				Form:    chrome,
				Limiter: demand.NewRateLimiter(a.cfg.DemandMinInterval),
				Logger:  a.logger,
			}
			res, err := pipeline.NewDemandService(a.db, a.logger, scraper).Scrape(cmd.Context(), periods, out)
			if res.Rows > 0 {
				a.table(table.Row{"Periods", "Units", "Rows", "Failures", "Output"},
					[]table.Row{{res.Periods, res.Units, res.Rows, len(res.Failures), out}})
			}
			if len(res.Failures) > 0 {
				rows := make([]table.Row, 0, len(res.Failures))
				for _, f := range res.Failures {
					rows = append(rows, table.Row{f.Period, f.Unit, f.Err})
				}
				a.table(table.Row{"Period", "Unit", "Error"}, rows)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output csv or xlsx (default $OUTPUT_DIR/todas_fatecs_demanda.csv)")
	cmd.Flags().StringSliceVar(&periods, "period", nil, "period codes such as 20251; all listed periods when omitted")
	cmd.Flags().StringVar(&periodsFrom, "periods-from", "static", "where to discover periods: static|browser")
	return cmd
}
