package pipeline

import (
	"time"

	"go.uber.org/zap"

	"fatecdata/internal"
	"fatecdata/internal/logging"
	"fatecdata/internal/storage"
)

// Ledger is the part of the storage layer the services write to.
type Ledger interface {
	InsertRun(run internal.RunRecord) (int64, error)
	SetMetadata(key, value string) error
}

type run struct {
	ledger  Ledger
	logger  *zap.Logger
	command string
	traceID string
	start   time.Time
	timings map[string]float64
	counts  map[string]int
}

func startRun(ledger Ledger, logger *zap.Logger, command string) *run {
	traceID := storage.NewTraceID()
	return &run{
		ledger:  ledger,
		logger:  logging.ForRun(logger, command, traceID),
		command: command,
		traceID: traceID,
		start:   time.Now(),
		timings: map[string]float64{},
		counts:  map[string]int{},
	}
}

// step records the milliseconds since from under name.
func (r *run) step(name string, from time.Time) time.Time {
	now := time.Now()
	r.timings[name+"Ms"] = float64(now.Sub(from).Milliseconds())
	return now
}

func (r *run) count(name string, n int) {
	r.counts[name] = n
}

func (r *run) finish(status string, err error) {
	r.timings["totalMs"] = float64(time.Since(r.start).Milliseconds())
	if err != nil {
		status = storage.StatusFailed
		r.logger.Error("run failed", zap.Error(err), zap.Any("counts", r.counts))
	} else {
		r.logger.Info("run finished", zap.String("status", status), zap.Any("counts", r.counts), zap.Any("timings", r.timings))
	}
	if r.ledger == nil {
		return
	}
	if _, lerr := r.ledger.InsertRun(internal.RunRecord{
		TraceID: r.traceID,
		Command: r.command,
		Status:  status,
		Timings: r.timings,
		Counts:  r.counts,
	}); lerr != nil {
		r.logger.Warn("failed to record run", zap.Error(lerr))
	}
}

func (r *run) mark(key string, at time.Time) {
	if r.ledger == nil {
		return
	}
	if err := r.ledger.SetMetadata(key, at.UTC().Format(time.RFC3339)); err != nil {
		r.logger.Warn("failed to store metadata", zap.String("key", key), zap.Error(err))
	}
}

func statusFor(n int) string {
	if n == 0 {
		return storage.StatusEmpty
	}
	return storage.StatusOK
}
