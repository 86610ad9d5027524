package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a date-only column. It is stored through datatypes.Date and
// serialized as YYYY-MM-DD.
type Date struct {
	datatypes.Date
}

// NewDate truncates t to its calendar day. The day is taken in t's own
// location and pinned to UTC midnight so stored values compare uniformly.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return NewDate(t), nil
}

func (d Date) Time() time.Time { return time.Time(d.Date) }

func (d Date) IsZero() bool { return d.Time().IsZero() }

func (d Date) String() string { return d.Time().Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD as well as a full RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = NewDate(t)
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
