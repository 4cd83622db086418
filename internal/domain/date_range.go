package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day. The zero value means "unset".
type Date struct {
	t time.Time
}

// ParseDate parses a yyyy-mm-dd string.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, NewValidationError("date", "is required")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, NewValidationError("date", fmt.Sprintf("%q must be formatted as yyyy-mm-dd", s))
	}
	return Date{t: t}, nil
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) IsZero() bool           { return d.t.IsZero() }
func (d Date) Time() time.Time        { return d.t }
func (d Date) String() string         { return d.t.Format(DateLayout) }
func (d Date) Before(o Date) bool     { return d.t.Before(o.t) }
func (d Date) After(o Date) bool      { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool      { return d.t.Equal(o.t) }
func (d Date) AddDays(n int) Date     { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 0, 0, 0, 0, loc)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = DateOf(v)
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// DateRange is a closed interval of calendar days: both Start and End are
// part of the range.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

func NewDateRange(start, end Date) (DateRange, error) {
	if start.IsZero() {
		return DateRange{}, NewValidationError("start", "is required")
	}
	if end.IsZero() {
		return DateRange{}, NewValidationError("end", "is required")
	}
	if end.Before(start) {
		return DateRange{}, NewValidationError("end", "must not be before start")
	}
	return DateRange{Start: start, End: end}, nil
}

func ParseDateRange(startStr, endStr string) (DateRange, error) {
	start, err := ParseDate(startStr)
	if err != nil {
		return DateRange{}, NewValidationError("start", err.(*ValidationError).Reason)
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return DateRange{}, NewValidationError("end", err.(*ValidationError).Reason)
	}
	return NewDateRange(start, end)
}

// Contains reports whether d falls within the range, boundaries included.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports a conflict between two ranges. A shared boundary day is a
// conflict.
func (r DateRange) Overlaps(other DateRange) bool {
	return other.Contains(r.Start) ||
		other.Contains(r.End) ||
		(!r.Start.After(other.Start) && !r.End.Before(other.End))
}

// Days is the number of billable days, start and end included.
func (r DateRange) Days() int {
	const secondsPerDay = 24 * 60 * 60
	// Dates sit on UTC midnight, so whole days divide evenly.
	return int((r.End.Time().Unix()-r.Start.Time().Unix())/secondsPerDay) + 1
}

// ActiveOn reports whether now falls inside the range as seen from loc. now is
// pinned to midday so a sample taken close to midnight does not flicker
// between days.
func (r DateRange) ActiveOn(now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	midday := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, loc)
	start := r.Start.In(loc)
	end := r.End.In(loc).Add(24*time.Hour - time.Millisecond)
	return !midday.Before(start) && !midday.After(end)
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}
