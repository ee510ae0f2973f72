package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// Interval is the bucket granularity of a chart's X axis.
type Interval string

const (
	Day   Interval = "day"
	Week  Interval = "week"
	Month Interval = "month"
	Year  Interval = "year"
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidInterval = errors.New("invalid interval")
)

// ParseInterval accepts the singular and plural unit names ("week", "weeks").
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "days":
		return Day, nil
	case "week", "weeks":
		return Week, nil
	case "month", "months":
		return Month, nil
	case "year", "years":
		return Year, nil
	}
	return "", fmt.Errorf("%w: %q (expected day, week, month or year)", ErrInvalidInterval, s)
}

// Canonical validates i, accepting the same spellings as ParseInterval.
func (i Interval) Canonical() (Interval, error) {
	return ParseInterval(string(i))
}

func (i Interval) String() string {
	return string(i)
}
