package demand

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

type ChromeConfig struct {
	URL               string
	Headless          bool
	UserAgent         string
	NavigationTimeout time.Duration
	// Settle is the pause after the final submit before the table is read.
	Settle time.Duration
}

// Chrome drives the demand form in a fresh tab per submission.
type Chrome struct {
	cfg         ChromeConfig
	allocator   context.Context
	allocCancel context.CancelFunc
}

func NewChrome(cfg ChromeConfig) *Chrome {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 30 * time.Second
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &Chrome{cfg: cfg, allocator: allocCtx, allocCancel: allocCancel}
}

func (c *Chrome) Close() {
	c.allocCancel()
}

const clickSubmit = `(() => {
  const btn = document.querySelector("button.btn.btn-primary[type='send']");
  if (!btn) { return false; }
  btn.click();
  return true;
})()`

// Submit selects period (and unit when non-empty), submits the form and
// returns the resulting page HTML.
func (c *Chrome) Submit(ctx context.Context, period, unit string) (string, error) {
	taskCtx, taskCancel := chromedp.NewContext(c.allocator)
	defer taskCancel()
	taskCtx, cancel := context.WithTimeout(taskCtx, c.cfg.NavigationTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var (
		html    string
		clicked bool
	)
	actions := []chromedp.Action{
		chromedp.Navigate(c.cfg.URL),
		chromedp.WaitVisible(PeriodSelector, chromedp.ByQuery),
		chromedp.SetValue(PeriodSelector, period, chromedp.ByQuery),
		chromedp.Evaluate(clickSubmit, &clicked),
		chromedp.WaitVisible(UnitSelector, chromedp.ByQuery),
	}
	if unit != "" {
		actions = append(actions,
			chromedp.SetValue(UnitSelector, unit, chromedp.ByQuery),
			chromedp.Evaluate(clickSubmit, &clicked),
			chromedp.Sleep(c.cfg.Settle),
			chromedp.WaitVisible(TableSelector, chromedp.ByQuery),
		)
	}
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("chromedp run: %w", err)
	}
	if !clicked {
		return "", fmt.Errorf("submit button not found")
	}
	return html, nil
}

// Periods reads the period options after scripts have run, for when the
// static page does not carry them.
func (c *Chrome) Periods(ctx context.Context, url string) ([]string, error) {
	taskCtx, taskCancel := chromedp.NewContext(c.allocator)
	defer taskCancel()
	taskCtx, cancel := context.WithTimeout(taskCtx, c.cfg.NavigationTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(PeriodSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("chromedp run: %w", err)
	}
	return ParsePeriods(html)
}
