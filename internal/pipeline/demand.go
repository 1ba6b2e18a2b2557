package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fatecdata/internal/demand"
	"fatecdata/internal/tabular"
)

type DemandScraper interface {
	Scrape(ctx context.Context, periods []string) (demand.Result, error)
}

type DemandService struct {
	ledger  Ledger
	logger  *zap.Logger
	scraper DemandScraper
}

func NewDemandService(ledger Ledger, logger *zap.Logger, scraper DemandScraper) *DemandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DemandService{ledger: ledger, logger: logger, scraper: scraper}
}

type DemandResult struct {
	TraceID  string
	Periods  int
	Units    int
	Rows     int
	Failures []demand.Failure
}

// Scrape collects every period (or the given ones) and writes the rows
// scraped so far, even when the run is interrupted.
func (s *DemandService) Scrape(ctx context.Context, periods []string, output string) (res DemandResult, err error) {
	r := startRun(s.ledger, s.logger, "demand:scrape")
	res.TraceID = r.traceID
	defer func() { r.finish(statusFor(res.Rows), err) }()

	t := time.Now()
	scraped, scrapeErr := s.scraper.Scrape(ctx, periods)
	t = r.step("scrape", t)

	res.Periods = len(scraped.Periods)
	res.Units = scraped.Units
	res.Rows = len(scraped.Rows)
	res.Failures = scraped.Failures
	r.count("periods", res.Periods)
	r.count("units", res.Units)
	r.count("rows", res.Rows)
	r.count("failures", len(res.Failures))

	if len(scraped.Rows) > 0 || scrapeErr == nil {
		if err := tabular.Write(output, demand.ToRecordSet(scraped.Rows), tabular.WriteOptions{}); err != nil {
			return res, err
		}
		r.step("write", t)
	}
	if scrapeErr != nil {
		return res, scrapeErr
	}
	r.mark("demand.last_scrape", time.Now())
	return res, nil
}
