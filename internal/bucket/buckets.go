package bucket

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"vizr-mcp/internal/calendar"
)

// Bucket is the cumulative count at one interval start.
type Bucket struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// BucketMap is an ascending, gap-free sequence of cumulative buckets.
type BucketMap []Bucket

// Keys returns the interval start dates in order.
func (m BucketMap) Keys() []string {
	keys := make([]string, len(m))
	for i, b := range m {
		keys[i] = b.Date
	}
	return keys
}

// Get returns the cumulative count stored for date.
func (m BucketMap) Get(date string) (int, bool) {
	for _, b := range m {
		if b.Date == date {
			return b.Count, true
		}
	}
	return 0, false
}

// TotalCount returns the count at the greatest key, or 0 for an empty map.
func TotalCount(m BucketMap) int {
	if len(m) == 0 {
		return 0
	}
	last := m[0]
	for _, b := range m[1:] {
		// keys are zero-padded ISO dates, so string order is date order
		if b.Date > last.Date {
			last = b
		}
	}
	return last.Count
}

// ComputeBuckets counts the records whose dateField falls inside [start, end] into
// interval buckets and returns the cumulative series over every interval of the range.
// Records with a blank date are skipped; a non-blank date that does not parse is an error.
func ComputeBuckets(records []Record, dateField, start, end string, interval calendar.Interval) (BucketMap, error) {
	return computeBuckets(calendar.Default, records, dateField, start, end, interval)
}

func computeBuckets(cal calendar.Calendar, records []Record, dateField, start, end string, interval calendar.Interval) (BucketMap, error) {
	interval, err := interval.Canonical()
	if err != nil {
		return nil, err
	}
	startDate, err := parseBound(cal, "start", start)
	if err != nil {
		return nil, err
	}
	endDate, err := parseBound(cal, "end", end)
	if err != nil {
		return nil, err
	}

	// 1. Raw counts per interval start
	counts := make(map[string]int)
	for i, r := range records {
		raw := FieldString(r, dateField)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		d, err := cal.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d field %q: %w", i, dateField, err)
		}
		if d.Before(startDate) || d.After(endDate) {
			continue
		}
		counts[cal.Format(cal.AlignToIntervalStart(d, interval))]++
	}

	// 2. Definitive key sequence
	starts := cal.EnumerateIntervalStarts(startDate, endDate, interval)
	keys := make([]string, 0, len(starts))
	for _, s := range starts {
		keys = append(keys, cal.Format(s))
	}
	// accumulation below depends on ascending order
	slices.Sort(keys)

	// 3. Running sum
	buckets := make(BucketMap, 0, len(keys))
	total := 0
	for _, key := range keys {
		total += counts[key]
		buckets = append(buckets, Bucket{Date: key, Count: total})
	}
	return buckets, nil
}

// parseBound parses one bound of a date range; name ends up in the error.
func parseBound(cal calendar.Calendar, name, value string) (time.Time, error) {
	t, err := cal.Parse(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s date is invalid: %w", ErrInvalidDateRange, name, err)
	}
	return t, nil
}

// BlankCount returns how many records have no value for dateField.
func BlankCount(records []Record, dateField string) int {
	n := 0
	for _, r := range records {
		if strings.TrimSpace(FieldString(r, dateField)) == "" {
			n++
		}
	}
	return n
}
