package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newFileLogger(t *testing.T) (*DefaultLogger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	l, err := NewDefaultLogger(&Config{
		LogFilePath:   path,
		MaxFileSize:   1 << 20,
		Level:         LevelDebug,
		EnableConsole: false,
	})
	if err != nil {
		t.Fatalf("NewDefaultLogger() error = %v", err)
	}
	return l, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestLoggerWritesFields(t *testing.T) {
	l, path := newFileLogger(t)
	l.Info("presentation translated",
		String("lang", "es"),
		Int("runs", 42),
		Bool("resized", true))
	l.Close()

	content := readLog(t, path)
	for _, want := range []string{"presentation translated", "lang=es", "runs=42", "resized=true", "[INFO]"} {
		if !strings.Contains(content, want) {
			t.Errorf("log missing %q, got: %s", want, content)
		}
	}
}

func TestLoggerErrorIncludesCause(t *testing.T) {
	l, path := newFileLogger(t)
	l.Error("conversion failed", errors.New("exit status 1"))
	l.Close()

	content := readLog(t, path)
	if !strings.Contains(content, "conversion failed") || !strings.Contains(content, "exit status 1") {
		t.Errorf("log missing error detail, got: %s", content)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	l, path := newFileLogger(t)
	l.SetLevel(LevelWarn)
	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Close()

	content := readLog(t, path)
	if strings.Contains(content, "debug message") || strings.Contains(content, "info message") {
		t.Errorf("messages below level not filtered, got: %s", content)
	}
	if !strings.Contains(content, "warn message") {
		t.Errorf("warn message missing, got: %s", content)
	}
}

func TestGlobalLoggerFallback(t *testing.T) {
	SetGlobalLogger(nil)
	// Without initialization the package-level helpers must not panic.
	Info("no logger configured")
	Warn("still no logger")
}
