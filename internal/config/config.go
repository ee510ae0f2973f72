package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"vizr-mcp/internal/calendar"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	LogDir              string
	PreviewDir          string
	DefaultInterval     calendar.Interval
	EnableMermaidCharts bool
	BuildConcurrency    int
	RecordsFile         string
	ChartsFile          string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return fromEnv(exeDir)
}

// fromEnv resolves the configuration from the process environment only.
func fromEnv(exeDir string) (*AppConfig, error) {
	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs"))
	previewDir := filepath.Join(dataPath, "preview")

	// Ensure directories exist
	if err := os.MkdirAll(previewDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", previewDir).Msg("Failed to create preview directory")
	}

	interval, err := calendar.ParseInterval(getEnv("DEFAULT_INTERVAL", string(calendar.Week)))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_INTERVAL: %w", err)
	}

	concurrency, err := strconv.Atoi(getEnv("BUILD_CONCURRENCY", "4"))
	if err != nil || concurrency < 1 {
		log.Warn().Str("value", os.Getenv("BUILD_CONCURRENCY")).Msg("Invalid BUILD_CONCURRENCY, using 4")
		concurrency = 4
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		PreviewDir:          previewDir,
		DefaultInterval:     interval,
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
		BuildConcurrency:    concurrency,
		RecordsFile:         resolvePath(dataPath, getEnv("RECORDS_FILE", "")),
		ChartsFile:          resolvePath(dataPath, getEnv("CHARTS_FILE", "")),
	}

	return cfg, nil
}

// resolvePath anchors relative input paths in the data directory.
func resolvePath(dataPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataPath, p)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
