// Package demand collects entrance-exam demand figures per period and unit.
package demand

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

type PeriodSource interface {
	Periods(ctx context.Context, url string) ([]string, error)
}

// FormDriver submits the demand form. An empty unit stops after the period
// step, whose page lists the units.
type FormDriver interface {
	Submit(ctx context.Context, period, unit string) (string, error)
}

type Failure struct {
	Period string
	Unit   string
	Err    error
}

type Result struct {
	Periods  []string
	Units    int
	Rows     []Row
	Failures []Failure
}

type Scraper struct {
	URL     string
	Periods PeriodSource
	Form    FormDriver
	Limiter *RateLimiter
	Logger  *zap.Logger
}

// Scrape walks every unit of every period. Failures of a single period or
// unit are recorded and skipped; only cancellation and period discovery
// abort the run.
func (s *Scraper) Scrape(ctx context.Context, periods []string) (Result, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if s.Form == nil {
		return Result{}, errors.New("demand scraper has no form driver")
	}

	if len(periods) == 0 {
		if s.Periods == nil {
			return Result{}, errors.New("no periods given and no period source configured")
		}
		found, err := s.Periods.Periods(ctx, s.URL)
		if err != nil {
			return Result{}, fmt.Errorf("discover periods: %w", err)
		}
		periods = found
	}

	res := Result{Periods: append([]string(nil), periods...)}
	for _, period := range periods {
		if _, _, err := SplitPeriod(period); err != nil {
			res.Failures = append(res.Failures, Failure{Period: period, Err: err})
			logger.Warn("skipping period", zap.String("period", period), zap.Error(err))
			continue
		}
		if err := s.Limiter.Wait(ctx); err != nil {
			return res, err
		}
		html, err := s.Form.Submit(ctx, period, "")
		if err == nil {
			var units []string
			units, err = ParseUnits(html)
			if err == nil {
				res.Units += len(units)
				if err := s.scrapeUnits(ctx, logger, period, units, &res); err != nil {
					return res, err
				}
				continue
			}
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Failures = append(res.Failures, Failure{Period: period, Err: err})
		logger.Warn("failed to list units", zap.String("period", period), zap.Error(err))
	}
	return res, nil
}

func (s *Scraper) scrapeUnits(ctx context.Context, logger *zap.Logger, period string, units []string, res *Result) error {
	for _, unit := range units {
		if err := s.Limiter.Wait(ctx); err != nil {
			return err
		}
		html, err := s.Form.Submit(ctx, period, unit)
		var rows []Row
		if err == nil {
			rows, err = ParseTable(html, period, unit)
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			res.Failures = append(res.Failures, Failure{Period: period, Unit: unit, Err: err})
			logger.Warn("failed to scrape unit", zap.String("period", period), zap.String("unit", unit), zap.Error(err))
			continue
		}
		res.Rows = append(res.Rows, rows...)
		logger.Info("unit scraped", zap.String("period", period), zap.String("unit", unit), zap.Int("rows", len(rows)))
	}
	return nil
}
