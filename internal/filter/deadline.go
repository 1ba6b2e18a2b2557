package filter

import (
	"fmt"
	"time"

	"fatecdata/internal"
	"fatecdata/internal/util"
)

// Deadline keeps records whose date column is today or later.
type Deadline struct {
	Column  string
	Layouts []string
}

type DeadlineStats struct {
	Eligible  int
	Expired   int
	Malformed int
}

// MalformedDateError is recovered locally: the record is treated as expired.
type MalformedDateError struct {
	Column string
	Value  string
	Err    error
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("column %q: cannot parse date %q: %v", e.Column, e.Value, e.Err)
}

func (e *MalformedDateError) Unwrap() error {
	return e.Err
}

// Check returns whether rec is still open on today's calendar day.
// A non-nil error is always a *MalformedDateError and means not eligible.
func (d Deadline) Check(rec internal.Record, today time.Time) (bool, error) {
	raw := rec[d.Column]
	deadline, err := util.ParseDate(raw, d.Layouts)
	if err != nil {
		return false, &MalformedDateError{Column: d.Column, Value: raw, Err: err}
	}
	return !deadline.Before(util.Day(today)), nil
}

func (d Deadline) Eligible(rec internal.Record, today time.Time) bool {
	ok, _ := d.Check(rec, today)
	return ok
}

func ApplyDeadline(set internal.RecordSet, d Deadline, today time.Time) (internal.RecordSet, DeadlineStats, error) {
	var stats DeadlineStats
	if !set.HasColumn(d.Column) {
		return internal.RecordSet{}, stats, &internal.MissingColumnError{Column: d.Column}
	}
	out := make([]internal.Record, 0, len(set.Records))
	for _, rec := range set.Records {
		ok, err := d.Check(rec, today)
		switch {
		case err != nil:
			stats.Malformed++
		case ok:
			stats.Eligible++
			out = append(out, rec.Clone())
		default:
			stats.Expired++
		}
	}
	return set.WithRecords(out), stats, nil
}
