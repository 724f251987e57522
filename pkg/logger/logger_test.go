package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	// Re-init must be safe
	err = Init()
	if err != nil {
		t.Fatalf("failed to re-initialize logger: %v", err)
	}

	logger = Get()
	if logger == nil {
		t.Fatal("logger is nil after re-initialization")
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Info(ctx, "files discovered", Int("count", 3), String("dir", "exports"))

	out := buf.String()
	if !strings.Contains(out, "files discovered") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "count=3") {
		t.Errorf("output missing field: %q", out)
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf), WithJSON()); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Info(ctx, "recompute finished", Duration("took", 12*time.Millisecond))

	out := buf.String()
	if !strings.Contains(out, `"msg":"recompute finished"`) {
		t.Errorf("output not JSON-encoded as expected: %q", out)
	}
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("ingest")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	ctx := context.Background()
	namedLogger.Info(ctx, "test message")
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	if err := SetLevelString("warn"); err != nil {
		t.Fatalf("failed to set level: %v", err)
	}
	ctx := context.Background()
	Get().Debug(ctx, "suppressed")
	Get().Warn(ctx, "kept")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("debug line emitted at warn level: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn line missing: %q", out)
	}

	if err := SetLevelString("nope"); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := SetLevelString(""); err != nil {
		t.Errorf("empty level should default to info: %v", err)
	}
}
