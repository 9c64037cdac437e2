package logging

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type captureWriter struct {
	lines []string
}

func (w *captureWriter) Write(p []byte) (int, error) {
	w.lines = append(w.lines, string(p))
	return len(p), nil
}

func newTestConsoleLogger() (*slog.Logger, *captureWriter) {
	writer := &captureWriter{}
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)
	return slog.New(newConsoleHandler(writer, levelVar)), writer
}

func TestConsoleHandlerPromotesComponent(t *testing.T) {
	logger, writer := newTestConsoleLogger()
	logger = WithComponent(logger, "engine")

	logger.Info("item done", String(FieldEra, "1950s"))

	if len(writer.lines) != 1 {
		t.Fatalf("expected one line, got %d", len(writer.lines))
	}
	line := writer.lines[0]
	if !strings.Contains(line, "INFO engine: item done") {
		t.Fatalf("component not promoted into prefix: %q", line)
	}
	if !strings.Contains(line, "era=1950s") {
		t.Fatalf("missing attribute: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	logger, writer := newTestConsoleLogger()
	logger.Warn("mirror write failed", String("reason", "database is locked"))

	if len(writer.lines) != 1 {
		t.Fatalf("expected one line, got %d", len(writer.lines))
	}
	if !strings.Contains(writer.lines[0], `reason="database is locked"`) {
		t.Fatalf("value not quoted: %q", writer.lines[0])
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	logger, writer := newTestConsoleLogger()
	logger.Info("batch", slog.Group("progress", slog.Int("done", 3), slog.Int("total", 12)))

	line := writer.lines[0]
	if !strings.Contains(line, "progress.done=3") || !strings.Contains(line, "progress.total=12") {
		t.Fatalf("group attrs not flattened: %q", line)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("bogus"); got != slog.LevelInfo {
		t.Fatalf("expected info for unknown level, got %v", got)
	}
	if got := parseLevel("debug"); got != slog.LevelDebug {
		t.Fatalf("expected debug, got %v", got)
	}
}

func TestNoopHandlerDisabled(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("noop logger should report disabled")
	}
	// Must not panic.
	logger.Error("ignored", Duration("elapsed", time.Second))
}
