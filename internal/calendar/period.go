package calendar

import (
	"strings"
	"time"
)

type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
	PeriodYear  PeriodKind = "year"
)

// ParsePeriodKind maps a range keyword to a kind; anything unknown is a day.
func ParsePeriodKind(s string) PeriodKind {
	switch PeriodKind(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodWeek:
		return PeriodWeek
	case PeriodMonth:
		return PeriodMonth
	case PeriodYear:
		return PeriodYear
	default:
		return PeriodDay
	}
}

// Period is a reporting window of whole calendar days, both ends inclusive.
type Period struct {
	Kind  PeriodKind
	First time.Time // first day, UTC midnight
	Last  time.Time // last day, UTC midnight
	Loc   *time.Location
	Now   time.Time // the instant the period was resolved at, in Loc
}

// ResolvePeriod anchors kind at the day of now in loc:
//   - day: [today, today]
//   - week: [Monday on or before today, that Monday + 6]
//   - month: [1st, last day of the month]
//   - year: [Jan 1, Dec 31]
func ResolvePeriod(kind PeriodKind, now time.Time, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	today := DayOf(now, loc)

	p := Period{Kind: kind, Loc: loc, Now: now}
	switch kind {
	case PeriodWeek:
		offset := (int(today.Weekday()) + 6) % 7 // Monday = 0
		p.First = today.AddDate(0, 0, -offset)
		p.Last = p.First.AddDate(0, 0, 6)
	case PeriodMonth:
		p.First = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		p.Last = p.First.AddDate(0, 1, -1)
	case PeriodYear:
		p.First = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		p.Last = time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		p.Kind = PeriodDay
		p.First = today
		p.Last = today
	}
	return p
}

// Days is the number of calendar days covered.
func (p Period) Days() int {
	return int(p.Last.Sub(p.First).Hours()/24) + 1
}

// DateBounds is the half-open range for date-only columns (UTC midnights).
func (p Period) DateBounds() TimeRange {
	return TimeRange{Start: p.First, End: p.Last.AddDate(0, 0, 1)}
}

// InstantBounds is the half-open range for timestamp columns, local midnights
// expressed in UTC.
func (p Period) InstantBounds() TimeRange {
	return TimeRange{
		Start: AtMidnight(p.First, p.Loc).UTC(),
		End:   AtMidnight(p.Last.AddDate(0, 0, 1), p.Loc).UTC(),
	}
}

// ContainsDay reports whether day (UTC midnight) falls inside the period.
func (p Period) ContainsDay(day time.Time) bool {
	return p.DateBounds().Contains(day)
}
