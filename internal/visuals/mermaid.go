package visuals

import (
	"fmt"
	"math"
	"strings"

	"vizr-mcp/internal/bucket"
)

// maxMermaidPoints is where xychart labels start to overlap.
const maxMermaidPoints = 60

// GenerateCumulativeChart creates a Mermaid xychart-beta with the cumulative total across
// all groups as bars and the target trend as a line.
func GenerateCumulativeChart(title string, series bucket.GroupedBuckets, trend []bucket.TrendPoint) string {
	keys := series.Keys()
	if len(keys) == 0 {
		return ""
	}

	totals := make([]int, len(keys))
	for _, s := range series.Series {
		for i, b := range s.Buckets {
			if i < len(totals) {
				totals[i] += b.Count
			}
		}
	}
	targets := trendAt(keys, trend)

	subsampleRate := 1
	if len(keys) > maxMermaidPoints {
		subsampleRate = int(math.Ceil(float64(len(keys)) / float64(maxMermaidPoints)))
	}

	var labels, bars, line []string
	maxY := 0.0
	for i, key := range keys {
		if float64(totals[i]) > maxY {
			maxY = float64(totals[i])
		}
		if targets != nil && targets[i] > maxY {
			maxY = targets[i]
		}
		if i%subsampleRate != 0 && i != len(keys)-1 {
			continue
		}
		labels = append(labels, fmt.Sprintf("\"%s\"", key))
		bars = append(bars, fmt.Sprintf("%d", totals[i]))
		if targets != nil {
			line = append(line, fmt.Sprintf("%.2f", targets[i]))
		}
	}

	if title == "" {
		title = "Cumulative Results"
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", escapeQuotes(title)))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Results Count\" 0 --> %d\n", int(math.Max(1, math.Ceil(maxY*1.1)))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(bars, ", ")))
	if len(line) > 0 {
		sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(line, ", ")))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateGroupPie creates a Mermaid pie chart of the final count per group.
func GenerateGroupPie(summary []bucket.GroupSummary) string {
	total := 0
	for _, s := range summary {
		total += s.Count
	}
	if total == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Results by Group\n")
	for _, s := range summary {
		if s.Count == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", escapeQuotes(bucket.Label(s.Label)), s.Count))
	}
	sb.WriteString("```")
	return sb.String()
}

// trendAt lines the trend up with the bucket keys. Keys before the first trend point are
// 0 and keys past the last point carry its value.
func trendAt(keys []string, trend []bucket.TrendPoint) []float64 {
	if len(trend) == 0 {
		return nil
	}

	values := make([]float64, len(keys))
	j := 0
	current := 0.0
	for i, key := range keys {
		for j < len(trend) && trend[j].X <= key {
			current = trend[j].Y
			j++
		}
		values[i] = current
	}
	return values
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
