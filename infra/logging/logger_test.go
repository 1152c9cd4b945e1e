package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestHelpers_NoopBeforeInit(t *testing.T) {
	Close()
	// Must not panic without a logger.
	Info("ignored")
	Debug("ignored")
	Warn("ignored")
	Error("ignored")
}

func TestSetOutput_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, false)
	t.Cleanup(Close)

	Debug("hidden detail")
	Info("page loaded", "page", 2)

	out := buf.String()
	if strings.Contains(out, "hidden detail") {
		t.Fatalf("debug must be filtered at info level: %q", out)
	}
	if !strings.Contains(out, "page loaded") || !strings.Contains(out, "page=2") {
		t.Fatalf("expected structured info line: %q", out)
	}
}

func TestInit_WritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir, true); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	Debug("debug visible", "epoch", 3)
	Close()

	name := "terminalgallery-" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, "logs", name))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "debug visible") {
		t.Fatalf("expected debug line in file: %q", string(data))
	}
}
