package chart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"vizr-mcp/internal/bucket"
	"vizr-mcp/internal/calendar"
	"vizr-mcp/internal/visuals"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	warnNoData     = "The filter returned 0 records."
	warnBlankDates = "Ignored %d records with blank date field."
)

// Option configures a Builder.
type Option func(*Builder)

// WithClock replaces time.Now as the source of the default chart end.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithDefaultInterval sets the interval used when a definition has none.
func WithDefaultInterval(interval calendar.Interval) Option {
	return func(b *Builder) { b.defaultInterval = interval }
}

// WithMermaid attaches a Mermaid chart to every result.
func WithMermaid(enabled bool) Option {
	return func(b *Builder) { b.mermaid = enabled }
}

// WithConcurrency bounds the number of charts BuildAll computes at once.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// Builder turns chart definitions and records into chart data.
type Builder struct {
	now             func() time.Time
	defaultInterval calendar.Interval
	mermaid         bool
	concurrency     int
}

// NewBuilder creates a Builder with weekly intervals and the wall clock.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		now:             time.Now,
		defaultInterval: calendar.Week,
		concurrency:     4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Result is everything the rendering side needs for one chart.
type Result struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Interval    calendar.Interval       `json:"interval"`
	Start       string                  `json:"start"`
	ChartEnd    string                  `json:"chartEnd"`
	TargetEnd   string                  `json:"targetEnd"`
	HideLegend  bool                    `json:"hideLegend,omitempty"`
	Series      bucket.GroupedBuckets   `json:"series"`
	Trend       []bucket.TrendPoint     `json:"trend"`
	Summary     []bucket.GroupSummary   `json:"summary"`
	Total       bucket.TotalRow         `json:"total"`
	GroupTable  *bucket.StatisticsTable `json:"groupTable,omitempty"`
	Warnings    []string                `json:"warnings,omitempty"`
	MermaidText string                  `json:"mermaid,omitempty"`
}

// Build computes buckets, summaries and the target trend for one chart.
func (b *Builder) Build(def Definition, recs []bucket.Record) (*Result, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	// 1. Resolve configuration defaults
	interval := b.defaultInterval
	if strings.TrimSpace(def.DateInterval) != "" {
		iv, err := calendar.ParseInterval(def.DateInterval)
		if err != nil {
			return nil, fmt.Errorf("chart %q: %w", def.ID, err)
		}
		interval = iv
	}

	chartEnd := strings.TrimSpace(def.ChartEnd)
	if chartEnd == "" {
		chartEnd = b.now().Format(calendar.DateLayout)
	}

	targets, err := bucket.ParseTargets(def.Targets)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", def.ID, err)
	}

	// 2. Bucket every group over the shared range. Records without a date take no part
	// in the chart, so a group made only of them gets no series.
	dated := lo.Filter(recs, func(r bucket.Record, _ int) bool {
		return strings.TrimSpace(bucket.FieldString(r, def.Field)) != ""
	})
	grouped, err := bucket.GroupedByInterval(dated, def.Field, def.Start, chartEnd, interval, def.Group)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", def.ID, err)
	}

	// 3. Summaries
	summary := bucket.SummarizeGroups(grouped, targets)
	res := &Result{
		ID:         def.ID,
		Title:      def.Title,
		Interval:   interval,
		Start:      grouped.Start,
		ChartEnd:   chartEnd,
		HideLegend: def.HideLegend,
		Series:     grouped,
		Summary:    summary,
		Total:      bucket.Totals(summary),
	}
	if res.Title == "" {
		res.Title = Title(def.Field)
	}
	if def.Group != "" {
		table := bucket.Statistics(summary, Title(def.Group))
		res.GroupTable = &table
	}

	// 4. Target trend
	res.TargetEnd = strings.TrimSpace(def.End)
	if res.TargetEnd == "" {
		res.TargetEnd = chartEnd
	}
	if res.Start != "" {
		trend, err := b.trend(res.Start, res.TargetEnd, interval, res.Total.TargetValue)
		if err != nil {
			return nil, fmt.Errorf("chart %q: %w", def.ID, err)
		}
		res.Trend = trend
	}

	// 5. Warnings
	if len(recs) == 0 {
		res.Warnings = append(res.Warnings, warnNoData)
	}
	if blanks := bucket.BlankCount(recs, def.Field); blanks > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(warnBlankDates, blanks))
	}

	if b.mermaid {
		res.MermaidText = visuals.GenerateCumulativeChart(res.Title, res.Series, res.Trend)
	}

	log.Debug().
		Str("chart", def.ID).
		Str("field", def.Field).
		Str("interval", interval.String()).
		Int("records", len(recs)).
		Int("series", len(grouped.Series)).
		Msg("Chart built")

	return res, nil
}

// trend collapses a degenerate range to a single point at the target.
func (b *Builder) trend(start, end string, interval calendar.Interval, target float64) ([]bucket.TrendPoint, error) {
	pts, err := bucket.TrendPoints(start, end, interval, target)
	if errors.Is(err, bucket.ErrDegenerateRange) {
		x, alignErr := calendar.AlignToIntervalStart(start, interval)
		if alignErr != nil {
			return nil, alignErr
		}
		log.Debug().Str("start", start).Str("end", end).Msg("Degenerate trend range, using a single target point")
		return []bucket.TrendPoint{{X: x, Y: target}}, nil
	}
	return pts, err
}

// BuildAll builds every definition against the same records. Results keep definition
// order; the first failure cancels the remaining builds.
func (b *Builder) BuildAll(ctx context.Context, defs []Definition, recs []bucket.Record) ([]*Result, error) {
	results := make([]*Result, len(defs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, def := range defs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := b.Build(def, recs)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Int("charts", len(defs)).Int("records", len(recs)).Msg("Charts built")
	return results, nil
}

// Title turns a field name into a column header: "study_clinic" -> "Study Clinic".
func Title(field string) string {
	words := strings.Fields(strings.ReplaceAll(field, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
