// Package logging provides pre-configured component loggers for quill
// tools. Configuration comes from the "logging" section of quill.yml and a
// few QUILL_* environment variables.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/quill/config"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific
// component. Loggers are cached per component.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()

	// Load the logging section from quill.yml when one is present.
	var logCfg Config
	if cfg, err := config.LoadDefault(); err == nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	// Configure Level
	levelStr := "info"
	if os.Getenv("QUILL_LOG_LEVEL") != "" {
		levelStr = os.Getenv("QUILL_LOG_LEVEL")
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Configure Caller Reporting
	if os.Getenv("QUILL_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	// Configure Formatter
	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	// Configure Output Sinks
	var writers []io.Writer

	if path := logFilePath(component, logCfg); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			if logCfg.File.Enabled {
				logger.Warnf("Failed to create log directory %s: %v", filepath.Dir(path), err)
			}
		} else {
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err == nil {
				writers = append(writers, file)
			} else if logCfg.File.Enabled {
				logger.Warnf("Failed to open log file %s: %v", path, err)
			}
		}
	}

	if shouldLogToStderr(logger, logCfg) {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		// Suppressing output entirely is intentional for interactive
		// terminals in auto mode.
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// logFilePath picks the file sink path: the configured one, or a dated file
// under .quill/logs in the working directory.
func logFilePath(component string, logCfg Config) string {
	if logCfg.File.Enabled && logCfg.File.Path != "" {
		return expandPath(logCfg.File.Path)
	}

	dateStr := time.Now().Format("2006-01-02")
	name := fmt.Sprintf("%s-%s.log", component, dateStr)

	cwd, err := os.Getwd()
	if err == nil {
		return filepath.Join(cwd, ".quill", "logs", name)
	}
	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".quill", "logs", name)
	}
	return ""
}

func shouldLogToStderr(logger *logrus.Logger, logCfg Config) bool {
	mode := logCfg.Format.StructuredToStderr
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		// "auto": log to stderr when debugging, or when output is piped
		// or running in CI; suppress in normal interactive use.
		isDebug := os.Getenv("QUILL_DEBUG") == "1" || logger.GetLevel() == logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		return isDebug || !isInteractive
	}
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
