package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	defer func() { GlobalLogger = nil }()

	var out bytes.Buffer
	InitLogger(&out, LogWarn)
	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	Error("error %d", 4)

	text := out.String()
	if strings.Contains(text, "debug 1") || strings.Contains(text, "info 2") {
		t.Fatalf("messages below the level were written:\n%s", text)
	}
	if !strings.Contains(text, "[WARN] warn 3") || !strings.Contains(text, "[ERROR] error 4") {
		t.Fatalf("expected warn and error lines, got:\n%s", text)
	}

	metrics := GetMetrics()
	if metrics["WARN"] != int64(1) || metrics["ERROR"] != int64(1) {
		t.Fatalf("unexpected metrics: %v", metrics)
	}
	if _, ok := metrics["DEBUG"]; ok {
		t.Fatalf("filtered messages must not be counted")
	}
}

func TestLoggerFatalExits(t *testing.T) {
	defer func() { GlobalLogger = nil }()

	var out bytes.Buffer
	InitLogger(&out, LogInfo)
	code := -1
	GlobalLogger.exit = func(c int) { code = c }
	Fatal("boom")
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestFileLogger(t *testing.T) {
	defer func() { GlobalLogger = nil }()

	path := filepath.Join(t.TempDir(), "warehouse.log")
	if err := InitFileLogger(path, LogInfo); err != nil {
		t.Fatalf("init: %v", err)
	}
	Info("stored %d orders", 3)
	if err := GlobalLogger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] stored 3 orders") {
		t.Fatalf("unexpected log file contents: %q", data)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{"debug": LogDebug, "INFO": LogInfo, "": LogInfo, "warning": LogWarn, "Error": LogError}
	for input, want := range cases {
		got, err := ParseLogLevel(input)
		if err != nil || got != want {
			t.Fatalf("%q: expected %v, got %v (err %v)", input, want, got, err)
		}
	}
	if _, err := ParseLogLevel("loud"); !IsType(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetMetricsWithoutLogger(t *testing.T) {
	GlobalLogger = nil
	if GetMetrics() != nil {
		t.Fatalf("expected nil metrics without a logger")
	}
	Info("dropped")
}

func TestGenerateRunID(t *testing.T) {
	a, b := GenerateRunID(), GenerateRunID()
	if a == "" || a == b {
		t.Fatalf("expected distinct run ids, got %q and %q", a, b)
	}
}
