package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the rotating log file inside the log directory.
const LogFileName = "vizr-mcp.log"

// Init initializes the global logger with dual sinks: os.Stderr and a rotating file.
// Nothing is written to stdout, which carries the MCP stream and build output.
func Init(verbose bool) {
	logDir := ResolveLogDir()

	// Ensure log directory exists and is writable
	if err := ensureWritable(logDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Logger = New(verbose, os.Stderr, logDir)
}

// ResolveLogDir returns LOGS_FOLDER, or the logs directory next to the binary.
func ResolveLogDir() string {
	// Init runs before config.Load, so pick up LOGS_FOLDER from the binary's .env here.
	exePath, err := os.Executable()
	if err == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		if err == nil {
			logDir = filepath.Join(filepath.Dir(exePath), "logs")
		} else {
			logDir = "logs"
		}
	}
	return logDir
}

// New builds a logger that writes to console and to LogFileName in logDir.
func New(verbose bool, console *os.File, logDir string) zerolog.Logger {
	// 1. Determine log level
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	// 2. Setup Console Writer
	isTerminal := isatty.IsTerminal(console.Fd()) || isatty.IsCygwinTerminal(console.Fd())
	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	// 3. Setup File Writer (Rotating)
	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, LogFileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}

	// 4. Combine Writers
	multi := zerolog.MultiLevelWriter(io.Writer(consoleWriter), fileWriter)

	return zerolog.New(multi).
		With().
		Timestamp().
		Logger()
}

func ensureWritable(logDir string) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}

	// MkdirAll can succeed on a read-only mount
	testFile := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("log directory %q is not writable: %w", logDir, err)
	}
	_ = os.Remove(testFile)
	return nil
}
