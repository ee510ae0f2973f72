package config

import (
	"errors"
	"path/filepath"
	"testing"

	"vizr-mcp/internal/calendar"
)

func TestFromEnv_Defaults(t *testing.T) {
	dataPath := t.TempDir()
	t.Setenv("DATA_PATH", dataPath)
	t.Setenv("DEFAULT_INTERVAL", "week")
	t.Setenv("BUILD_CONCURRENCY", "4")
	t.Setenv("ENABLE_MERMAID_CHARTS", "")
	t.Setenv("RECORDS_FILE", "")
	t.Setenv("CHARTS_FILE", "")
	t.Setenv("LOGS_FOLDER", filepath.Join(dataPath, "logs"))

	cfg, err := fromEnv("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultInterval != calendar.Week {
		t.Errorf("expected weekly default, got %s", cfg.DefaultInterval)
	}
	if cfg.BuildConcurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.BuildConcurrency)
	}
	if cfg.EnableMermaidCharts {
		t.Errorf("mermaid charts should be off for an unparsable value")
	}
	if cfg.PreviewDir != filepath.Join(dataPath, "preview") {
		t.Errorf("unexpected preview dir %s", cfg.PreviewDir)
	}
	if cfg.RecordsFile != "" || cfg.ChartsFile != "" {
		t.Errorf("expected no default input files, got %q %q", cfg.RecordsFile, cfg.ChartsFile)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	dataPath := t.TempDir()
	t.Setenv("DATA_PATH", dataPath)
	t.Setenv("DEFAULT_INTERVAL", "Months")
	t.Setenv("BUILD_CONCURRENCY", "0")
	t.Setenv("ENABLE_MERMAID_CHARTS", "true")
	t.Setenv("RECORDS_FILE", "records.jsonl")
	t.Setenv("CHARTS_FILE", "/etc/vizr/charts.yaml")

	cfg, err := fromEnv("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultInterval != calendar.Month {
		t.Errorf("expected monthly default, got %s", cfg.DefaultInterval)
	}
	if cfg.BuildConcurrency != 4 {
		t.Errorf("expected invalid concurrency to fall back to 4, got %d", cfg.BuildConcurrency)
	}
	if !cfg.EnableMermaidCharts {
		t.Errorf("expected mermaid charts to be enabled")
	}
	if cfg.RecordsFile != filepath.Join(dataPath, "records.jsonl") {
		t.Errorf("expected relative records file under the data path, got %s", cfg.RecordsFile)
	}
	if cfg.ChartsFile != "/etc/vizr/charts.yaml" {
		t.Errorf("expected absolute charts file unchanged, got %s", cfg.ChartsFile)
	}
}

func TestFromEnv_InvalidInterval(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("DEFAULT_INTERVAL", "fortnight")

	if _, err := fromEnv(""); !errors.Is(err, calendar.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}
