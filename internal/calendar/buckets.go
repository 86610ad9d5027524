package calendar

import (
	"fmt"
	"time"
)

// Opening hours covered by the hourly layout, inclusive.
const (
	FirstHour = 9
	LastHour  = 18
)

var (
	shortWeekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	shortMonths   = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// Bucket is one point of a chart series.
type Bucket struct {
	Label string
	First time.Time // first day covered
	Last  time.Time // last day covered
	Hour  int       // hour of day for hourly buckets, -1 otherwise
}

// Buckets lays out the series for p: hourly 9am..6pm for a day, Mon..Sun for a
// week, every calendar day for a month, Jan..Dec for a year.
func Buckets(p Period) []Bucket {
	switch p.Kind {
	case PeriodWeek:
		out := make([]Bucket, 0, 7)
		for i := 0; i < 7; i++ {
			d := p.First.AddDate(0, 0, i)
			out = append(out, Bucket{Label: shortWeekdays[i], First: d, Last: d, Hour: -1})
		}
		return out
	case PeriodMonth:
		n := p.Days()
		out := make([]Bucket, 0, n)
		for i := 0; i < n; i++ {
			d := p.First.AddDate(0, 0, i)
			out = append(out, Bucket{Label: fmt.Sprintf("%02d", d.Day()), First: d, Last: d, Hour: -1})
		}
		return out
	case PeriodYear:
		out := make([]Bucket, 0, 12)
		for m := 0; m < 12; m++ {
			first := time.Date(p.First.Year(), time.Month(m+1), 1, 0, 0, 0, 0, time.UTC)
			out = append(out, Bucket{Label: shortMonths[m], First: first, Last: first.AddDate(0, 1, -1), Hour: -1})
		}
		return out
	default:
		out := make([]Bucket, 0, LastHour-FirstHour+1)
		for h := FirstHour; h <= LastHour; h++ {
			out = append(out, Bucket{Label: HourLabel(h), First: p.First, Last: p.First, Hour: h})
		}
		return out
	}
}

// BucketIndex places an entry of the given day (and hour, -1 when the entry
// has no time of day) into Buckets(p). It returns -1 when the entry belongs to
// no bucket. Hourly layouts require an hour inside opening hours.
func BucketIndex(p Period, day time.Time, hour int) int {
	if !p.ContainsDay(day) {
		return -1
	}
	switch p.Kind {
	case PeriodWeek, PeriodMonth:
		return int(day.Sub(p.First).Hours() / 24)
	case PeriodYear:
		return int(day.Month()) - 1
	default:
		if hour < FirstHour || hour > LastHour {
			return -1
		}
		return hour - FirstHour
	}
}

// ClampHour forces h into opening hours.
func ClampHour(h int) int {
	if h < FirstHour {
		return FirstHour
	}
	if h > LastHour {
		return LastHour
	}
	return h
}

// HourLabel formats 9 as "9am", 12 as "12pm", 13 as "1pm".
func HourLabel(h int) string {
	switch {
	case h == 0:
		return "12am"
	case h < 12:
		return fmt.Sprintf("%dam", h)
	case h == 12:
		return "12pm"
	default:
		return fmt.Sprintf("%dpm", h-12)
	}
}
