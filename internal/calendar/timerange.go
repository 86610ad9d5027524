package calendar

import (
	"errors"
	"time"
)

var ErrInvalidTimeRange = errors.New("invalid time range")

// TimeRange is the half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange requires both bounds and End strictly after Start.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && t.Before(tr.End)
}

// DayOf returns the calendar day of t as seen in loc, pinned to UTC midnight.
// All day values in this package use that representation.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AtMidnight converts a day back to the instant it starts in loc.
func AtMidnight(day time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ClampNotAfter returns now when t lies in the future.
func ClampNotAfter(t, now time.Time) time.Time {
	if t.After(now) {
		return now
	}
	return t
}
