package demand

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePeriods struct {
	periods []string
	err     error
}

func (f fakePeriods) Periods(context.Context, string) ([]string, error) {
	return f.periods, f.err
}

type fakeForm struct {
	pages map[string]string
	calls []string
}

func (f *fakeForm) Submit(_ context.Context, period, unit string) (string, error) {
	key := period + "|" + unit
	f.calls = append(f.calls, key)
	page, ok := f.pages[key]
	if !ok {
		return "", errors.New("timeout waiting for table")
	}
	return page, nil
}

func TestScrapeWalksPeriodsAndUnits(t *testing.T) {
	form := &fakeForm{pages: map[string]string{
		"20251|":               unitsPage,
		"20251|Fatec Itaquera": tablePage,
		"20251|Fatec Osasco":   tablePage,
	}}
	core, logs := observer.New(zap.WarnLevel)
	s := &Scraper{
		Periods: fakePeriods{periods: []string{"20251"}},
		Form:    form,
		Limiter: NewRateLimiter(0),
		Logger:  zap.New(core),
	}

	res, err := s.Scrape(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"20251"}, res.Periods)
	assert.Equal(t, 2, res.Units)
	assert.Len(t, res.Rows, 4)
	assert.Empty(t, res.Failures)
	assert.Zero(t, logs.Len())
	assert.Equal(t, []string{"20251|", "20251|Fatec Itaquera", "20251|Fatec Osasco"}, form.calls)
}

func TestScrapeSkipsFailedUnits(t *testing.T) {
	form := &fakeForm{pages: map[string]string{
		"20242|":               unitsPage,
		"20242|Fatec Itaquera": tablePage,
	}}
	core, logs := observer.New(zap.WarnLevel)
	s := &Scraper{Form: form, Logger: zap.New(core)}

	res, err := s.Scrape(context.Background(), []string{"20242", "bad", "20231"})
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	require.Len(t, res.Failures, 3)
	assert.Equal(t, "Fatec Osasco", res.Failures[0].Unit)
	assert.Equal(t, "bad", res.Failures[1].Period)
	assert.Equal(t, "20231", res.Failures[2].Period)
	assert.Equal(t, 3, logs.Len())
}

func TestScrapeNeedsPeriods(t *testing.T) {
	_, err := (&Scraper{Form: &fakeForm{}}).Scrape(context.Background(), nil)
	assert.Error(t, err)

	_, err = (&Scraper{Form: &fakeForm{}, Periods: fakePeriods{err: errors.New("boom")}}).Scrape(context.Background(), nil)
	assert.ErrorContains(t, err, "boom")
}

func TestScrapeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Scraper{Form: &fakeForm{}, Limiter: NewRateLimiter(time.Hour)}
	_, err := s.Scrape(ctx, []string{"20251"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimiterSpacesCalls(t *testing.T) {
	rl := NewRateLimiter(20 * time.Millisecond)
	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewRateLimiter(time.Hour).Wait(ctx), context.Canceled)
}
