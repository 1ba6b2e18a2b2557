package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"fatecdata/internal"
	"fatecdata/internal/filter"
	"fatecdata/internal/notices"
	"fatecdata/internal/report"
	"fatecdata/internal/tabular"
)

type NoticeFetcher interface {
	Fetch(ctx context.Context) (internal.RecordSet, []byte, error)
}

type NoticeService struct {
	ledger  Ledger
	logger  *zap.Logger
	fetcher NoticeFetcher
	now     func() time.Time
}

func NewNoticeService(ledger Ledger, logger *zap.Logger, fetcher NoticeFetcher) *NoticeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{ledger: ledger, logger: logger, fetcher: fetcher, now: time.Now}
}

// WithClock replaces the wall clock used for the deadline gate and report stamp.
func (s *NoticeService) WithClock(now func() time.Time) *NoticeService {
	s.now = now
	return s
}

type FetchResult struct {
	TraceID string
	Rows    int
	Output  string
}

// Fetch downloads the sheet and stores the raw CSV at output.
func (s *NoticeService) Fetch(ctx context.Context, output string) (res FetchResult, err error) {
	r := startRun(s.ledger, s.logger, "notices:fetch")
	res.TraceID = r.traceID
	defer func() { r.finish(statusFor(res.Rows), err) }()

	if s.fetcher == nil {
		return res, fmt.Errorf("no notices source configured")
	}
	t := time.Now()
	set, raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return res, err
	}
	t = r.step("download", t)

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return res, err
	}
	if err := os.WriteFile(output, raw, 0o644); err != nil {
		return res, err
	}
	r.step("write", t)
	r.mark("notices.last_fetch", s.now())

	res.Rows = set.Len()
	res.Output = output
	r.count("rows", set.Len())
	return res, nil
}

type ReportRequest struct {
	// Input is a saved sheet; ignored when Fetch is set.
	Input   string
	Fetch   bool
	Filter  filter.Spec
	Today   time.Time
	PDFPath string
	// TablePath receives the selected rows as CSV or XLSX.
	TablePath string
	Report    report.Options
	Read      tabular.Options
}

type ReportResult struct {
	TraceID  string
	Total    int
	Deadline filter.DeadlineStats
	Matched  int
	Selected internal.RecordSet
}

func (r ReportResult) Empty() bool {
	return r.Matched == 0
}

// Report loads notices, keeps the open ones that satisfy the filter and
// renders them. An empty selection still produces both artifacts.
func (s *NoticeService) Report(ctx context.Context, req ReportRequest) (res ReportResult, err error) {
	r := startRun(s.ledger, s.logger, "notices:report")
	res.TraceID = r.traceID
	defer func() { r.finish(statusFor(res.Matched), err) }()

	t := time.Now()
	set, err := s.load(ctx, req)
	if err != nil {
		return res, err
	}
	res.Total = set.Len()
	t = r.step("load", t)

	today := req.Today
	if today.IsZero() {
		today = s.now()
	}
	open, stats, err := filter.ApplyDeadline(set, filter.Deadline{Column: notices.ColDeadline}, today)
	if err != nil {
		return res, err
	}
	res.Deadline = stats
	if stats.Malformed > 0 {
		r.logger.Warn("notices with unreadable deadline treated as closed", zap.Int("count", stats.Malformed))
	}

	selected, err := filter.Apply(open, req.Filter)
	if err != nil {
		return res, err
	}
	res.Selected = selected
	res.Matched = selected.Len()
	t = r.step("filter", t)

	if res.Empty() {
		r.logger.Warn(report.NoResultsMessage)
	}

	if req.PDFPath != "" {
		opts := req.Report
		if opts.GeneratedAt.IsZero() {
			opts.GeneratedAt = s.now()
		}
		if err := report.RenderFile(req.PDFPath, notices.FromRecordSet(selected), opts); err != nil {
			return res, err
		}
	}
	if req.TablePath != "" {
		if err := tabular.Write(req.TablePath, selected, tabular.WriteOptions{BOM: true}); err != nil {
			return res, err
		}
	}
	r.step("render", t)

	r.count("total", res.Total)
	r.count("open", stats.Eligible)
	r.count("expired", stats.Expired)
	r.count("malformed", stats.Malformed)
	r.count("matched", res.Matched)
	return res, nil
}

func (s *NoticeService) load(ctx context.Context, req ReportRequest) (internal.RecordSet, error) {
	if req.Fetch {
		if s.fetcher == nil {
			return internal.RecordSet{}, fmt.Errorf("no notices source configured")
		}
		set, _, err := s.fetcher.Fetch(ctx)
		return set, err
	}
	raw, err := tabular.Read(req.Input, req.Read)
	if err != nil {
		return internal.RecordSet{}, err
	}
	return notices.Rename(raw)
}
