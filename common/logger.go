package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
	LogFatal
)

var logLevelNames = map[LogLevel]string{
	LogDebug: "DEBUG",
	LogInfo:  "INFO",
	LogWarn:  "WARN",
	LogError: "ERROR",
	LogFatal: "FATAL",
}

var logLevelColors = map[LogLevel]*color.Color{
	LogDebug: color.New(color.FgHiBlack),
	LogInfo:  color.New(color.FgBlue),
	LogWarn:  color.New(color.FgYellow),
	LogError: color.New(color.FgRed),
	LogFatal: color.New(color.FgRed, color.Bold),
}

func (l LogLevel) String() string {
	if name, ok := logLevelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLogLevel parses a level name such as "debug" or "WARN"
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogDebug, nil
	case "", "info":
		return LogInfo, nil
	case "warn", "warning":
		return LogWarn, nil
	case "error":
		return LogError, nil
	case "fatal":
		return LogFatal, nil
	}
	return LogInfo, NewError(ErrValidation, fmt.Sprintf("unknown log level %q", s))
}

// Logger provides leveled logging
type Logger struct {
	level   LogLevel
	file    *os.File
	logger  *log.Logger
	colored bool
	mu      sync.Mutex
	metrics *LogMetrics
	exit    func(int)
}

// LogMetrics tracks logging statistics
type LogMetrics struct {
	mu      sync.RWMutex
	counts  map[LogLevel]int64
	lastLog time.Time
}

// GlobalLogger is the default logger instance
var GlobalLogger *Logger

func newLogger(w io.Writer, level LogLevel) *Logger {
	return &Logger{
		level:   level,
		logger:  log.New(w, "", 0),
		colored: !color.NoColor && (w == os.Stdout || w == os.Stderr),
		metrics: &LogMetrics{
			counts: make(map[LogLevel]int64),
		},
		exit: os.Exit,
	}
}

// InitLogger points the global logger at w
func InitLogger(w io.Writer, level LogLevel) {
	GlobalLogger = newLogger(w, level)
}

// InitFileLogger initializes the global logger to append to filename
func InitFileLogger(filename string, level LogLevel) error {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	GlobalLogger = newLogger(file, level)
	GlobalLogger.file = file
	return nil
}

// Close closes the log file
func (l *Logger) Close() error {
	if l != nil && l.file != nil {
		return l.file.Close()
	}
	return nil
}

// log writes a log message
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.metrics.mu.Lock()
	l.metrics.counts[level]++
	l.metrics.lastLog = time.Now()
	l.metrics.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	levelStr := level.String()
	if l.colored {
		levelStr = logLevelColors[level].Sprint(levelStr)
	}
	message := fmt.Sprintf(format, args...)

	l.logger.Printf("[%s] [%s] %s", timestamp, levelStr, message)

	// Errors also reach the console when logging to a file
	if l.file != nil && level >= LogError {
		log.Printf("[%s] %s", level, message)
	}

	if level == LogFatal {
		l.exit(1)
	}
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	if GlobalLogger != nil {
		GlobalLogger.log(LogDebug, format, args...)
	}
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	if GlobalLogger != nil {
		GlobalLogger.log(LogInfo, format, args...)
	}
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	if GlobalLogger != nil {
		GlobalLogger.log(LogWarn, format, args...)
	}
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	if GlobalLogger != nil {
		GlobalLogger.log(LogError, format, args...)
	}
}

// Fatal logs a fatal message and exits
func Fatal(format string, args ...interface{}) {
	if GlobalLogger != nil {
		GlobalLogger.log(LogFatal, format, args...)
		return
	}
	log.Fatalf(format, args...)
}

// GetMetrics returns logging metrics
func GetMetrics() map[string]interface{} {
	if GlobalLogger == nil || GlobalLogger.metrics == nil {
		return nil
	}

	GlobalLogger.metrics.mu.RLock()
	defer GlobalLogger.metrics.mu.RUnlock()

	metrics := make(map[string]interface{})
	for level, count := range GlobalLogger.metrics.counts {
		metrics[level.String()] = count
	}
	metrics["last_log"] = GlobalLogger.metrics.lastLog

	return metrics
}
