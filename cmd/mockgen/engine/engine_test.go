package engine

import (
	"path/filepath"
	"sort"
	"testing"
	"time"

	"vizr-mcp/internal/bucket"
	"vizr-mcp/internal/calendar"
	"vizr-mcp/internal/chart"
	"vizr-mcp/internal/records"
)

func TestGenerate_Scenarios(t *testing.T) {
	now := time.Date(2017, 2, 20, 12, 0, 0, 0, time.UTC)

	for _, scenario := range []string{"mild", "burst", "drift"} {
		for _, dist := range []string{"uniform", "weibull"} {
			recs := Generate(GeneratorConfig{Scenario: scenario, Distribution: dist, Count: 120, Seed: 7, Now: now})
			if len(recs) != 120 {
				t.Fatalf("%s/%s: expected 120 records, got %d", scenario, dist, len(recs))
			}

			var dates []string
			for _, r := range recs {
				if d := bucket.FieldString(r, DateField); d != "" {
					dates = append(dates, d)
				}
			}
			if !sort.StringsAreSorted(dates) {
				t.Errorf("%s/%s: dates should be ascending", scenario, dist)
			}
			if last := dates[len(dates)-1]; last > now.Format(calendar.DateLayout) {
				t.Errorf("%s/%s: last date %s is after now", scenario, dist, last)
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := GeneratorConfig{Scenario: "mild", Count: 30, Seed: 42, BlankRatio: 0.2, Now: time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)}
	a, b := Generate(cfg), Generate(cfg)
	for i := range a {
		if bucket.FieldString(a[i], DateField) != bucket.FieldString(b[i], DateField) {
			t.Fatalf("record %d differs between runs with the same seed", i)
		}
	}
}

func TestSave_RoundTripBuildsCharts(t *testing.T) {
	now := time.Date(2017, 2, 20, 9, 0, 0, 0, time.UTC)
	recs := Generate(GeneratorConfig{Scenario: "drift", Count: 80, BlankRatio: 0.1, Seed: 3, Now: now})
	dir := t.TempDir()

	if err := Save(dir, "VIZRTEST_0", recs, Definitions(80)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := records.Load(filepath.Join(dir, "VIZRTEST_0.jsonl"))
	if err != nil {
		t.Fatalf("failed to reload records: %v", err)
	}
	defs, err := chart.LoadDefinitions(filepath.Join(dir, "VIZRTEST_0_charts.yaml"))
	if err != nil {
		t.Fatalf("failed to reload charts: %v", err)
	}
	if len(loaded) != 80 || len(defs) != 2 {
		t.Fatalf("expected 80 records and 2 charts, got %d and %d", len(loaded), len(defs))
	}

	dated := len(loaded) - bucket.BlankCount(loaded, DateField)
	b := chart.NewBuilder(chart.WithClock(func() time.Time { return now }))
	for _, def := range defs {
		res, err := b.Build(def, loaded)
		if err != nil {
			t.Fatalf("chart %s: %v", def.ID, err)
		}
		if res.Total.CountValue != dated {
			t.Errorf("chart %s: expected %d counted records, got %d", def.ID, dated, res.Total.CountValue)
		}
	}
}
