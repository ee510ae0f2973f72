package bucket

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"vizr-mcp/internal/calendar"
)

type scenario struct {
	records []Record
	buckets BucketMap
	err     error

	trend    []TrendPoint
	trendErr error

	grouped GroupedBuckets
	targets TargetMap
	summary []GroupSummary
	table   StatisticsTable
}

func (s *scenario) screeningSample(n int) error {
	s.records = sampleRecords()
	if len(s.records) != n {
		return fmt.Errorf("sample has %d records, not %d", len(s.records), n)
	}
	return nil
}

func (s *scenario) bucketField(field, start, end, interval string) error {
	iv, err := calendar.ParseInterval(interval)
	if err != nil {
		return err
	}
	s.buckets, s.err = ComputeBuckets(s.records, field, start, end, iv)
	return nil
}

func (s *scenario) bucketCount(n int) error {
	if s.err != nil {
		return s.err
	}
	if len(s.buckets) != n {
		return fmt.Errorf("expected %d buckets, got %d", n, len(s.buckets))
	}
	return nil
}

func (s *scenario) firstBucket(date string, count int) error {
	if len(s.buckets) == 0 {
		return errors.New("no buckets")
	}
	return expectBucket(s.buckets[0], date, count)
}

func (s *scenario) lastBucket(date string, count int) error {
	if len(s.buckets) == 0 {
		return errors.New("no buckets")
	}
	return expectBucket(s.buckets[len(s.buckets)-1], date, count)
}

func expectBucket(b Bucket, date string, count int) error {
	if b.Date != date || b.Count != count {
		return fmt.Errorf("expected %s=%d, got %s=%d", date, count, b.Date, b.Count)
	}
	return nil
}

func (s *scenario) neverDecrease() error {
	for i := 1; i < len(s.buckets); i++ {
		if s.buckets[i].Count < s.buckets[i-1].Count {
			return fmt.Errorf("count drops at %s", s.buckets[i].Date)
		}
	}
	return nil
}

func (s *scenario) bucketingFails(bound string) error {
	if !errors.Is(s.err, ErrInvalidDateRange) {
		return fmt.Errorf("expected an invalid date range, got %v", s.err)
	}
	if !strings.Contains(s.err.Error(), bound+" date is invalid") {
		return fmt.Errorf("error does not name the %s date: %v", bound, s.err)
	}
	return nil
}

func (s *scenario) drawTrend(interval, start, end string, target float64) error {
	iv, err := calendar.ParseInterval(interval)
	if err != nil {
		return err
	}
	s.trend, s.trendErr = TrendPoints(start, end, iv, target)
	return nil
}

func (s *scenario) trendDates(list string) error {
	if s.trendErr != nil {
		return s.trendErr
	}
	got := make([]string, len(s.trend))
	for i, p := range s.trend {
		got[i] = p.X
	}
	if strings.Join(got, ",") != list {
		return fmt.Errorf("expected %s, got %s", list, strings.Join(got, ","))
	}
	return nil
}

func (s *scenario) trendValues(list string) error {
	got := make([]string, len(s.trend))
	for i, p := range s.trend {
		got[i] = strconv.FormatFloat(p.Y, 'f', -1, 64)
	}
	if strings.Join(got, ",") != list {
		return fmt.Errorf("expected %s, got %s", list, strings.Join(got, ","))
	}
	return nil
}

func (s *scenario) trendRejected() error {
	if !errors.Is(s.trendErr, ErrDegenerateRange) {
		return fmt.Errorf("expected a degenerate range, got %v", s.trendErr)
	}
	return nil
}

func (s *scenario) groupEndsAt(group string, count int) error {
	s.grouped.Grouped = true
	s.grouped.Series = append(s.grouped.Series, Series{
		Group:   group,
		Buckets: BucketMap{{Date: "2016-10-02", Count: 0}, {Date: "2016-10-09", Count: count}},
	})
	return nil
}

func (s *scenario) theTargets(table *godog.Table) error {
	raw := make(map[string]any)
	for _, row := range table.Rows[1:] {
		raw[row.Cells[0].Value] = row.Cells[1].Value
	}
	targets, err := ParseTargets(raw)
	if err != nil {
		return err
	}
	s.targets = targets
	return nil
}

func (s *scenario) targetRatio(group string, num, denom int) error {
	if s.targets == nil {
		s.targets = TargetMap{}
	}
	v := float64(num) / float64(denom)
	s.targets[group] = &v
	return nil
}

func (s *scenario) summarize() error {
	s.summary = SummarizeGroups(s.grouped, s.targets)
	return nil
}

func (s *scenario) summaryFor(group string, count int, target float64) error {
	for _, e := range s.summary {
		if e.Label != group {
			continue
		}
		if e.Count != count || e.Target == nil || *e.Target != target {
			return fmt.Errorf("%s: expected %d/%v, got %+v", group, count, target, e)
		}
		return nil
	}
	return fmt.Errorf("no summary for %s", group)
}

func (s *scenario) buildTable(header string) error {
	s.table = Statistics(s.summary, header)
	return nil
}

func (s *scenario) row(group string) (SummaryRow, error) {
	for _, r := range s.table.Rows {
		if r.Label == group {
			return r, nil
		}
	}
	return SummaryRow{}, fmt.Errorf("no row for %s", group)
}

func (s *scenario) targetShown(group, want string) error {
	r, err := s.row(group)
	if err != nil {
		return err
	}
	if r.Target != want {
		return fmt.Errorf("expected target %q, got %q", want, r.Target)
	}
	return nil
}

func (s *scenario) percentShown(group, want string) error {
	r, err := s.row(group)
	if err != nil {
		return err
	}
	if r.PercentOfTarget != want {
		return fmt.Errorf("expected percent %q, got %q", want, r.PercentOfTarget)
	}
	return nil
}

func initializeScenario(ctx *godog.ScenarioContext) {
	s := &scenario{}
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*s = scenario{}
		return ctx, nil
	})

	ctx.Step(`^the screening sample of (\d+) records$`, s.screeningSample)
	ctx.Step(`^I bucket the "([^"]*)" field from "([^"]*)" to "([^"]*)" by "([^"]*)"$`, s.bucketField)
	ctx.Step(`^there are (\d+) buckets$`, s.bucketCount)
	ctx.Step(`^the first bucket is "([^"]*)" with a count of (\d+)$`, s.firstBucket)
	ctx.Step(`^the last bucket is "([^"]*)" with a count of (\d+)$`, s.lastBucket)
	ctx.Step(`^the bucket counts never decrease$`, s.neverDecrease)
	ctx.Step(`^bucketing fails naming the "([^"]*)" date$`, s.bucketingFails)

	ctx.Step(`^I draw a "([^"]*)" trend from "([^"]*)" to "([^"]*)" towards (\d+)$`, s.drawTrend)
	ctx.Step(`^the trend dates are "([^"]*)"$`, s.trendDates)
	ctx.Step(`^the trend values are "([^"]*)"$`, s.trendValues)
	ctx.Step(`^the trend is rejected as a degenerate range$`, s.trendRejected)

	ctx.Step(`^the group "([^"]*)" ends at (\d+)$`, s.groupEndsAt)
	ctx.Step(`^the targets:$`, s.theTargets)
	ctx.Step(`^the target for "([^"]*)" is (\d+) divided by (\d+)$`, s.targetRatio)
	ctx.Step(`^I summarize the groups$`, s.summarize)
	ctx.Step(`^the summary for "([^"]*)" has count (\d+) and target (\d+)$`, s.summaryFor)
	ctx.Step(`^I build the statistics table under "([^"]*)"$`, s.buildTable)
	ctx.Step(`^the target shown for "([^"]*)" is "([^"]*)"$`, s.targetShown)
	ctx.Step(`^the percent of target shown for "([^"]*)" is "([^"]*)"$`, s.percentShown)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
