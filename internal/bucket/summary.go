package bucket

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// TargetMap maps a group label to its target. A nil value means no target was set.
type TargetMap map[string]*float64

// ParseTargets converts loosely typed target configuration (JSON, YAML or form values)
// into a TargetMap. Null and blank values are kept as unset; anything non-numeric fails.
func ParseTargets(raw map[string]any) (TargetMap, error) {
	targets := make(TargetMap, len(raw))
	for label, v := range raw {
		t, err := parseTarget(v)
		if err != nil {
			return nil, fmt.Errorf("%w for %q: %w", ErrInvalidTarget, label, err)
		}
		targets[label] = t
	}
	return targets, nil
}

func parseTarget(v any) (*float64, error) {
	var f float64
	switch val := v.(type) {
	case nil:
		return nil, nil
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return nil, err
		}
		f = parsed
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", val)
		}
		f = parsed
	default:
		return nil, fmt.Errorf("unsupported value %v (%T)", v, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%v is not a finite number", f)
	}
	return &f, nil
}

// GroupSummary is the final count and target of one group.
type GroupSummary struct {
	Label  string   `json:"label"`
	Count  int      `json:"count"`
	Target *float64 `json:"target"`
}

// SummarizeGroups pairs each series' total count with its target (0 when unset). Labels
// that only appear in targets follow the data groups, sorted, with a count of 0.
func SummarizeGroups(data GroupedBuckets, targets TargetMap) []GroupSummary {
	summaries := make([]GroupSummary, 0, len(data.Series)+len(targets))
	seen := make(map[string]bool, len(data.Series))

	for _, s := range data.Series {
		target := 0.0
		if t := targets[s.Group]; t != nil {
			target = *t
		}
		summaries = append(summaries, GroupSummary{Label: s.Group, Count: TotalCount(s.Buckets), Target: &target})
		seen[s.Group] = true
	}

	var targetOnly []string
	for label := range targets {
		if !seen[label] {
			targetOnly = append(targetOnly, label)
		}
	}
	sort.Strings(targetOnly)
	for _, label := range targetOnly {
		summaries = append(summaries, GroupSummary{Label: label, Count: 0, Target: targets[label]})
	}

	return summaries
}

// SummaryRow is one rendered line of a statistics table.
type SummaryRow struct {
	Label           string `json:"label"`
	Count           string `json:"count"`
	Target          string `json:"target"`
	PercentOfTarget string `json:"percentOfTarget"`
	PercentOfTotal  string `json:"percentOfTotal"`
}

// Cells returns the row in column order.
func (r SummaryRow) Cells() []string {
	return []string{r.Label, r.Count, r.Target, r.PercentOfTarget, r.PercentOfTotal}
}

// StatisticsTable is the per-group breakdown with its header.
type StatisticsTable struct {
	Header []string     `json:"header"`
	Rows   []SummaryRow `json:"rows"`
}

// Statistics renders one row per group, sorted by label. Percentages are blank when the
// denominator is zero or unset.
func Statistics(summaries []GroupSummary, groupHeader string) StatisticsTable {
	sorted := make([]GroupSummary, len(summaries))
	copy(sorted, summaries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Label < sorted[j].Label })

	total := float64(lo.SumBy(sorted, func(s GroupSummary) int { return s.Count }))

	table := StatisticsTable{
		Header: []string{groupHeader, "Results Count", "Target", "Percent", "Percent of Total"},
		Rows:   make([]SummaryRow, 0, len(sorted)),
	}
	for _, s := range sorted {
		count := float64(s.Count)
		table.Rows = append(table.Rows, SummaryRow{
			Label:           Label(s.Label),
			Count:           strconv.Itoa(s.Count),
			Target:          formatTarget(s.Target),
			PercentOfTarget: percent(count, s.Target),
			PercentOfTotal:  percent(count, &total),
		})
	}
	return table
}

// TotalRow is the single-row overall summary.
type TotalRow struct {
	Header  []string `json:"header"`
	Count   string   `json:"count"`
	Target  string   `json:"target"`
	Percent string   `json:"percent"`

	CountValue  int     `json:"countValue"`
	TargetValue float64 `json:"targetValue"`
}

// Cells returns the row in column order.
func (r TotalRow) Cells() []string {
	return []string{r.Count, r.Target, r.Percent}
}

// Totals sums counts and targets over every summary entry. Unset targets count as 0.
func Totals(summaries []GroupSummary) TotalRow {
	count := lo.SumBy(summaries, func(s GroupSummary) int { return s.Count })
	target := lo.SumBy(summaries, func(s GroupSummary) float64 {
		if s.Target == nil {
			return 0
		}
		return *s.Target
	})

	return TotalRow{
		Header:      []string{"Results Count", "Target", "Percent"},
		Count:       strconv.Itoa(count),
		Target:      formatNumber(target),
		Percent:     percent(float64(count), &target),
		CountValue:  count,
		TargetValue: target,
	}
}

// formatTarget leaves unset and zero targets blank.
func formatTarget(target *float64) string {
	if target == nil || *target == 0 {
		return ""
	}
	return formatNumber(*target)
}

// formatNumber prints integers without decimals and anything else to two places.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return fixed2(v)
}

func percent(num float64, denom *float64) string {
	if denom == nil || *denom == 0 || math.IsNaN(*denom) || math.IsNaN(num) {
		return ""
	}
	return fixed2(num/(*denom)*100) + "%"
}

// fixed2 rounds the exact binary value of v to two places, half away from zero, the way
// JavaScript's toFixed(2) does: 1.005 is stored just below 1.005 and prints as "1.00".
func fixed2(v float64) string {
	return decimal.NewFromFloatWithExponent(v, -2).StringFixed(2)
}
