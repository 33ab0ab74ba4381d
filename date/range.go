package date

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange returns the period range containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// ParseRange parses a flexible date: a day (YYYY-MM-DD), a month (YYYY-MM) or
// a year (YYYY), and returns the range it covers.
func ParseRange(str string) (Range, Period, error) {
	str = strings.TrimSpace(str)

	if d, err := Parse(str); err == nil {
		return NewRange(d, Daily), Daily, nil
	}
	if on, err := time.Parse("2006-01", str); err == nil {
		return NewRange(New(on.Date()), Monthly), Monthly, nil
	}
	if year, err := strconv.Atoi(str); err == nil {
		return NewRange(New(year, time.January, 1), Yearly), Yearly, nil
	}
	return Range{}, Daily, fmt.Errorf("%w %q, expected YYYY-MM-DD, YYYY-MM, or YYYY", ErrInvalid, str)
}

// ParseFrom parses a flexible date used as a lower bound: months and years
// resolve to their first day.
func ParseFrom(str string) (Date, error) {
	r, _, err := ParseRange(str)
	return r.From, err
}

// ParseTo parses a flexible date used as an upper bound: months and years
// resolve to their last day.
func ParseTo(str string) (Date, error) {
	r, _, err := ParseRange(str)
	return r.To, err
}

// ParseYearMonth splits a YYYY-MM text in its numeric year and month.
//
// Only the shape is checked: "2025-13" is accepted and matches no date.
func ParseYearMonth(str string) (year int, month time.Month, err error) {
	parts := strings.Split(str, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid month %q, want format YYYY-MM", str)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in month %q: %w", str, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in %q: %w", str, err)
	}
	return year, time.Month(m), nil
}
