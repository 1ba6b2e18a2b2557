package demand

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// PeriodLister reads the period options from the static landing page.
type PeriodLister struct {
	UserAgent string
	Timeout   time.Duration
}

func (p PeriodLister) Periods(ctx context.Context, url string) ([]string, error) {
	c := colly.NewCollector(colly.StdlibContext(ctx))
	if p.UserAgent != "" {
		c.UserAgent = p.UserAgent
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c.SetRequestTimeout(timeout)

	var (
		values   []string
		fetchErr error
	)
	c.OnHTML(PeriodSelector+" option", func(e *colly.HTMLElement) {
		if v := strings.TrimSpace(e.Attr("value")); v != "" {
			values = append(values, v)
		}
	})
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- c.Visit(url)
	}()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list periods canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("list periods: %w", err)
		}
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("list periods: %w", fetchErr)
	}
	return DropPlaceholder(values), nil
}
