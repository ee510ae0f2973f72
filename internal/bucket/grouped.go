package bucket

import (
	"strings"

	"vizr-mcp/internal/calendar"
)

// Series is the cumulative bucket map of one group.
type Series struct {
	Group   string    `json:"group"`
	Buckets BucketMap `json:"buckets"`
}

// GroupedBuckets holds one series per group. Every series shares the same keys.
type GroupedBuckets struct {
	Grouped bool     `json:"grouped"`
	Start   string   `json:"start,omitempty"`
	Series  []Series `json:"series"`
}

// Lookup returns the bucket map of a group.
func (g GroupedBuckets) Lookup(group string) (BucketMap, bool) {
	for _, s := range g.Series {
		if s.Group == group {
			return s.Buckets, true
		}
	}
	return nil, false
}

// Keys returns the shared interval keys, or nil when there are no buckets.
func (g GroupedBuckets) Keys() []string {
	if len(g.Series) == 0 {
		return nil
	}
	return g.Series[0].Buckets.Keys()
}

// EarliestDate returns the smallest non-blank dateField value. Values are compared as
// strings, which orders zero-padded ISO dates chronologically.
func EarliestDate(records []Record, dateField string) (string, bool) {
	earliest := ""
	found := false
	for _, r := range records {
		v := strings.TrimSpace(FieldString(r, dateField))
		if v == "" {
			continue
		}
		if !found || v < earliest {
			earliest = v
			found = true
		}
	}
	return earliest, found
}

// GroupedByInterval buckets each group over one shared range. When start is blank it is
// derived from the earliest record date across all groups. Without any dated record the
// groups are returned with empty bucket maps. The bounds and interval are validated up
// front, so an empty record set still reports them.
func GroupedByInterval(records []Record, dateField, start, end string, interval calendar.Interval, groupField string) (GroupedBuckets, error) {
	interval, err := interval.Canonical()
	if err != nil {
		return GroupedBuckets{}, err
	}
	if strings.TrimSpace(start) != "" {
		if _, err := parseBound(calendar.Default, "start", start); err != nil {
			return GroupedBuckets{}, err
		}
	}
	if _, err := parseBound(calendar.Default, "end", end); err != nil {
		return GroupedBuckets{}, err
	}

	result := GroupedBuckets{Grouped: groupField != ""}

	if strings.TrimSpace(start) == "" {
		earliest, ok := EarliestDate(records, dateField)
		if !ok {
			for _, g := range GroupBy(records, groupField) {
				result.Series = append(result.Series, Series{Group: g.Key, Buckets: BucketMap{}})
			}
			return result, nil
		}
		start = earliest
	}
	result.Start = start

	for _, g := range GroupBy(records, groupField) {
		buckets, err := ComputeBuckets(g.Records, dateField, start, end, interval)
		if err != nil {
			return GroupedBuckets{}, err
		}
		result.Series = append(result.Series, Series{Group: g.Key, Buckets: buckets})
	}
	return result, nil
}
