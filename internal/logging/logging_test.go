package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("info %d", 1)
	l.Warn("warn")
	l.Error("error")
	l.Step("step")
	l.EchoToConsole()
	l.Close()
	if l.Path() != "" {
		t.Errorf("nil logger Path() = %q, want empty", l.Path())
	}
	if l.Content() != "" {
		t.Errorf("nil logger Content() = %q, want empty", l.Content())
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir, "companion")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	l.Info("hello %s", "world")
	l.Error("something broke")

	data, err := os.ReadFile(filepath.Join(dir, "companion.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "INFO: hello world") {
		t.Errorf("log missing info line:\n%s", text)
	}
	if !strings.Contains(text, "ERROR: something broke") {
		t.Errorf("log missing error line:\n%s", text)
	}
}

func TestContentBuffersAllLines(t *testing.T) {
	l, err := New(t.TempDir(), "test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	l.Info("first")
	l.Warn("second")
	l.Step("third")

	content := l.Content()
	for _, want := range []string{"INFO: first", "WARN: second", "STEP: third"} {
		if !strings.Contains(content, want) {
			t.Errorf("Content() missing %q:\n%s", want, content)
		}
	}
}

func TestNewAppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	l1, err := New(dir, "app")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l1.Info("run one")
	l1.Close()

	l2, err := New(dir, "app")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l2.Info("run two")
	l2.Close()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "run one") || !strings.Contains(text, "run two") {
		t.Errorf("log did not accumulate across runs:\n%s", text)
	}
}

func TestNewSessionUsesTimestampedName(t *testing.T) {
	dir := t.TempDir()
	l, err := NewSession(dir, "setup")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer l.Close()

	base := filepath.Base(l.Path())
	if !strings.HasPrefix(base, "setup-") || !strings.HasSuffix(base, ".log") {
		t.Errorf("session log name = %q, want setup-<timestamp>.log", base)
	}
	if base == "setup-.log" {
		t.Errorf("session log name missing timestamp: %q", base)
	}
}
