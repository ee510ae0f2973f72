package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the zero-padded ISO layout used for every bucket key.
const DateLayout = "2006-01-02"

// Calendar abstracts the date arithmetic used by the bucketing engine.
type Calendar interface {
	Parse(s string) (time.Time, error)
	Format(t time.Time) string
	AlignToIntervalStart(t time.Time, interval Interval) time.Time
	EnumerateIntervalStarts(start, end time.Time, interval Interval) []time.Time
	DiffInIntervals(from, to time.Time, interval Interval) int
}

// Gregorian is the default Calendar. Dates are plain calendar days held as UTC midnight.
type Gregorian struct{}

// Default is the calendar used by the package level helpers.
var Default Calendar = Gregorian{}

var inputLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Parse reads an ISO-like date string and truncates it to its calendar day.
func (Gregorian) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (Gregorian) Format(t time.Time) string {
	return t.Format(DateLayout)
}

// AlignToIntervalStart snaps t to the first day of its interval.
// Weeks start on Sunday.
func (Gregorian) AlignToIntervalStart(t time.Time, interval Interval) time.Time {
	switch interval {
	case Year:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case Week:
		// time.Sunday == 0, so the weekday is already the distance back to Sunday
		daysToSubtract := int(t.Weekday()) % 7
		return time.Date(t.Year(), t.Month(), t.Day()-daysToSubtract, 0, 0, 0, 0, t.Location())
	default: // day
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// EndOfInterval returns the last nanosecond of the interval containing t.
func (g Gregorian) EndOfInterval(t time.Time, interval Interval) time.Time {
	return g.next(g.AlignToIntervalStart(t, interval), interval).Add(-time.Nanosecond)
}

// EnumerateIntervalStarts lists every interval start from the interval containing start
// through the interval containing end. The result is empty when end precedes start.
func (g Gregorian) EnumerateIntervalStarts(start, end time.Time, interval Interval) []time.Time {
	current := g.AlignToIntervalStart(start, interval)
	last := g.EndOfInterval(end, interval)

	var starts []time.Time
	for current.Before(last) {
		starts = append(starts, current)
		current = g.next(current, interval)
	}
	return starts
}

// DiffInIntervals counts the whole intervals between the interval starts of from and to.
// It is negative when to precedes from.
func (g Gregorian) DiffInIntervals(from, to time.Time, interval Interval) int {
	a := g.AlignToIntervalStart(from, interval)
	b := g.AlignToIntervalStart(to, interval)

	switch interval {
	case Year:
		return b.Year() - a.Year()
	case Month:
		return (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
	case Week:
		return daysBetween(a, b) / 7
	default: // day
		return daysBetween(a, b)
	}
}

func (Gregorian) next(t time.Time, interval Interval) time.Time {
	switch interval {
	case Year:
		return t.AddDate(1, 0, 0)
	case Month:
		return t.AddDate(0, 1, 0)
	case Week:
		return t.AddDate(0, 0, 7)
	default: // day
		return t.AddDate(0, 0, 1)
	}
}

// daysBetween counts whole days from Unix seconds; both values are midnight UTC.
// time.Duration saturates after about 292 years, so b.Sub(a) cannot be used.
func daysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / 86400)
}
