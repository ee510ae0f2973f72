package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"vizr-mcp/internal/bucket"
	"vizr-mcp/internal/calendar"
	"vizr-mcp/internal/chart"

	"gopkg.in/yaml.v3"
)

const (
	DateField  = "screen_date"
	GroupField = "study_clinic"
)

var clinics = []string{"Bend", "Eugene", "Portland", "Salem"}

type GeneratorConfig struct {
	Scenario     string
	Distribution string // "uniform" or "weibull"
	Count        int
	BlankRatio   float64 // share of records without a date
	Seed         int64
	Now          time.Time
}

// Generate creates Count screening records whose dates end at Now. Gaps between
// consecutive records follow the distribution; the scenario shapes the arrival rate.
func Generate(cfg GeneratorConfig) []bucket.Record {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	// 1. Sample gaps in days
	gaps := make([]float64, cfg.Count)
	total := 0.0
	for i := range gaps {
		mean := 1.0 // Mild: one screening per day on average
		switch cfg.Scenario {
		case "burst":
			// Screening days: most records land on the same day as the previous one
			if rng.Float64() < 0.8 {
				mean = 0
			} else {
				mean = 5
			}
		case "drift":
			ratio := float64(i) / float64(cfg.Count)
			mean = 2.0 - (1.5 * ratio) // Enrollment accelerates 2.0 -> 0.5 days
		}

		var gap float64
		if cfg.Distribution == "weibull" {
			gap = mean * weibullSample(rng, 1.5, 1.0)
		} else {
			gap = mean * 2 * rng.Float64()
		}
		gaps[i] = gap
		total += gap
	}

	// 2. Lay out dates so the last record lands on Now
	cursor := cfg.Now.AddDate(0, 0, -int(math.Ceil(total)))
	recs := make([]bucket.Record, 0, cfg.Count)
	for i, gap := range gaps {
		cursor = cursor.Add(time.Duration(gap * 24 * float64(time.Hour)))

		date := cursor.Format(calendar.DateLayout)
		if rng.Float64() < cfg.BlankRatio {
			date = ""
		}
		clinic := clinics[rng.Intn(len(clinics))]
		if rng.Float64() < 0.05 {
			clinic = "" // optional form field left blank
		}

		recs = append(recs, bucket.Record{
			"record_id": i + 1,
			DateField:   date,
			GroupField:  clinic,
		})
	}
	return recs
}

// Definitions returns a grouped and an ungrouped chart over the generated records with
// targets scaled to count.
func Definitions(count int) []chart.Definition {
	perClinic := float64(count) / float64(len(clinics))

	grouped := chart.NewDefinition()
	grouped.ID = "screenings-by-clinic"
	grouped.Title = "Screenings by Clinic"
	grouped.Field = DateField
	grouped.Group = GroupField
	grouped.DateInterval = string(calendar.Week)
	grouped.Targets = chart.TargetsWithGroups(clinics)
	for _, c := range clinics {
		grouped.Targets[c] = math.Round(perClinic*1.1*100) / 100
	}

	total := chart.NewDefinition()
	total.ID = "screenings"
	total.Title = "Screenings"
	total.Field = DateField
	total.DateInterval = string(calendar.Month)
	total.Targets[string(bucket.NoGroups)] = count

	return []chart.Definition{grouped, total}
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// Save writes <name>.jsonl with the records and <name>_charts.yaml with the definitions.
func Save(outDir string, name string, recs []bucket.Record, defs []chart.Definition) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	jsonlPath := filepath.Join(outDir, fmt.Sprintf("%s.jsonl", name))
	chartsPath := filepath.Join(outDir, fmt.Sprintf("%s_charts.yaml", name))

	// Save Records
	f, err := os.Create(jsonlPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	// Save Chart Definitions
	fc, err := os.Create(chartsPath)
	if err != nil {
		return err
	}
	defer fc.Close()

	encY := yaml.NewEncoder(fc)
	encY.SetIndent(2)
	if err := encY.Encode(chart.File{Charts: defs}); err != nil {
		return err
	}
	return encY.Close()
}
