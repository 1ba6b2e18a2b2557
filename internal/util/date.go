package util

import (
	"errors"
	"strings"
	"time"
)

var DefaultDateLayouts = []string{"2/1/2006", "2006-01-02"}

var ErrEmptyDate = errors.New("empty date")

// ParseDate tries each layout in order and returns the calendar day in UTC.
func ParseDate(input string, layouts []string) (time.Time, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		return time.Time{}, ErrEmptyDate
	}
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return Day(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Day truncates t to midnight UTC of its own calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "---"
	}
	return t.Format("02/01/2006")
}
