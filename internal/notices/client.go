package notices

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"fatecdata/internal"
	"fatecdata/internal/tabular"
)

type ClientConfig struct {
	URL       string
	Timeout   time.Duration
	Retries   int
	UserAgent string
	// RetryWait is the initial backoff; it doubles up to ten times its value.
	RetryWait time.Duration
}

type Client struct {
	cfg  ClientConfig
	http *resty.Client
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 250 * time.Millisecond
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(10*cfg.RetryWait).
		SetHeader("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5").
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return isRetryableStatus(resp.StatusCode())
		})
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Client{cfg: cfg, http: client}
}

// Download returns the raw CSV bytes of the published sheet.
func (c *Client) Download(ctx context.Context) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("download notices: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("download notices: status=%d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// Fetch downloads the sheet and returns it under the canonical header.
func (c *Client) Fetch(ctx context.Context) (internal.RecordSet, []byte, error) {
	raw, err := c.Download(ctx)
	if err != nil {
		return internal.RecordSet{}, nil, err
	}
	set, err := Parse(raw)
	if err != nil {
		return internal.RecordSet{}, raw, err
	}
	return set, raw, nil
}

// Parse reads sheet CSV bytes and renames the columns.
func Parse(raw []byte) (internal.RecordSet, error) {
	set, err := tabular.Parse(raw, "notices.csv", tabular.Options{Delimiter: ','})
	if err != nil {
		return internal.RecordSet{}, err
	}
	return Rename(set)
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
