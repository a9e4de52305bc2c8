package slog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/leofalp/genailite/providers/observability"
)

func newBufferedObserver(level slog.Level) (*Observer, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level}))
	return New(logger), &buf
}

func TestSlogObserver_New_NilLoggerUsesDefault(t *testing.T) {
	if New(nil) == nil {
		t.Fatal("New() returned nil")
	}
}

func TestSlogObserver_StartSpan_AttachesSpanToContext(t *testing.T) {
	obs, buf := newBufferedObserver(slog.LevelDebug)

	ctx, span := obs.StartSpan(context.Background(), "test-span",
		observability.String("key", "value"),
		observability.Int("count", 42),
	)

	if observability.SpanFromContext(ctx) != span {
		t.Error("expected returned context to carry the span")
	}
	output := buf.String()
	if !strings.Contains(output, "test-span") || !strings.Contains(output, "span.start") {
		t.Errorf("expected span start log line, got: %s", output)
	}
	if !strings.Contains(output, "count=42") {
		t.Errorf("expected attributes in output, got: %s", output)
	}
}

func TestSlogObserver_Span_EndIncludesStatusAndDuration(t *testing.T) {
	obs, buf := newBufferedObserver(slog.LevelDebug)

	_, span := obs.StartSpan(context.Background(), "test-span")
	span.SetStatus(observability.StatusError, "boom")
	buf.Reset()
	span.End()

	output := buf.String()
	for _, want := range []string{"span.end", "duration", "status=error", "status_description=boom"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestSlogObserver_Span_RecordError(t *testing.T) {
	obs, buf := newBufferedObserver(slog.LevelDebug)

	_, span := obs.StartSpan(context.Background(), "test-span")
	buf.Reset()
	span.RecordError(nil)
	if buf.Len() != 0 {
		t.Errorf("RecordError(nil) should not log, got: %s", buf.String())
	}

	span.RecordError(errors.New("kaput"))
	if !strings.Contains(buf.String(), "kaput") || !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("expected error log line, got: %s", buf.String())
	}
}

func TestSlogObserver_TraceFilteredAtDebug(t *testing.T) {
	obs, buf := newBufferedObserver(slog.LevelDebug)

	obs.Trace(context.Background(), "very verbose")
	if buf.Len() != 0 {
		t.Errorf("trace should be filtered at debug level, got: %s", buf.String())
	}

	obs.Info(context.Background(), "visible", observability.Bool("ok", true))
	if !strings.Contains(buf.String(), "visible") || !strings.Contains(buf.String(), "ok=true") {
		t.Errorf("expected info line, got: %s", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGetLogLevelFromEnv(t *testing.T) {
	t.Setenv("GENAILITE_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "warn")
	if got := GetLogLevelFromEnv(); got != slog.LevelWarn {
		t.Errorf("expected LOG_LEVEL fallback, got %v", got)
	}

	t.Setenv("GENAILITE_LOG_LEVEL", "debug")
	if got := GetLogLevelFromEnv(); got != slog.LevelDebug {
		t.Errorf("expected GENAILITE_LOG_LEVEL to win, got %v", got)
	}
}
