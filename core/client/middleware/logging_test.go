package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/leofalp/genailite/core/aierr"
	"github.com/leofalp/genailite/providers/ai"
	"github.com/leofalp/genailite/providers/image"
)

// ========== Test logger helpers ==========

// testLogger creates an slog.Logger that writes to a *bytes.Buffer so tests
// can inspect emitted log lines without capturing os.Stderr.
func testLogger(buf *bytes.Buffer) *slog.Logger {
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler)
}

// logContains returns true if the log buffer contains the given substring.
func logContains(buf *bytes.Buffer, substr string) bool {
	return strings.Contains(buf.String(), substr)
}

// ========== Send tests ==========

// TestLoggingMiddleware_Send_Minimal verifies that at LogLevelMinimal only the
// model, duration and token attributes appear in the success log.
func TestLoggingMiddleware_Send_Minimal(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := NewLoggingMiddleware(testLogger(buf), LogLevelMinimal)

	next := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		return &ai.ChatResponse{
			Model:        "test-model",
			Content:      "hello world",
			FinishReason: "stop",
			Usage:        &ai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		}, nil
	}

	_, err := mw.Send(next)(context.Background(), ai.ChatRequest{Model: "test-model", Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !logContains(buf, "test-model") {
		t.Errorf("expected model in log, got:\n%s", output)
	}
	if !logContains(buf, "prompt_tokens") {
		t.Errorf("expected prompt_tokens in log, got:\n%s", output)
	}
	for _, unexpected := range []string{"message_count", "finish_reason", "response_content"} {
		if logContains(buf, unexpected) {
			t.Errorf("did not expect %s at LogLevelMinimal, got:\n%s", unexpected, output)
		}
	}
}

// TestLoggingMiddleware_Send_Standard verifies that at LogLevelStandard the log
// includes message_count and finish_reason in addition to Minimal fields.
func TestLoggingMiddleware_Send_Standard(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := NewLoggingMiddleware(testLogger(buf), LogLevelStandard)

	next := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		return &ai.ChatResponse{Model: "test-model", Content: "hello", FinishReason: "stop"}, nil
	}

	_, err := mw.Send(next)(context.Background(), ai.ChatRequest{
		Model:    "test-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !logContains(buf, "message_count") {
		t.Errorf("expected message_count in log, got:\n%s", buf.String())
	}
	if !logContains(buf, "finish_reason") {
		t.Errorf("expected finish_reason in log, got:\n%s", buf.String())
	}
	if logContains(buf, "response_content") {
		t.Errorf("did not expect response_content at LogLevelStandard, got:\n%s", buf.String())
	}
}

// TestLoggingMiddleware_Send_Verbose verifies that at LogLevelVerbose the log
// includes the truncated response content and first message content.
func TestLoggingMiddleware_Send_Verbose(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := NewLoggingMiddleware(testLogger(buf), LogLevelVerbose)

	next := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		return &ai.ChatResponse{Model: "test-model", Content: "verbose response", Reasoning: "hmm", FinishReason: "stop"}, nil
	}

	_, err := mw.Send(next)(context.Background(), ai.ChatRequest{
		Model:    "test-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "verbose request"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, expected := range []string{"first_message_content", "response_content", "reasoning_length=3"} {
		if !logContains(buf, expected) {
			t.Errorf("expected %s in log, got:\n%s", expected, buf.String())
		}
	}
}

// TestLoggingMiddleware_Send_ErrorPath verifies that when the provider returns
// an error the middleware logs an error entry with its kind and propagates it.
func TestLoggingMiddleware_Send_ErrorPath(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := NewLoggingMiddleware(testLogger(buf), LogLevelStandard)

	providerErr := aierr.New(aierr.KindRateLimit, "provider unavailable")
	next := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		return nil, providerErr
	}

	_, err := mw.Send(next)(context.Background(), ai.ChatRequest{Model: "test-model"})
	if !errors.Is(err, providerErr) {
		t.Errorf("expected providerErr, got %v", err)
	}
	if !logContains(buf, "ERROR") {
		t.Errorf("expected ERROR level log on failure, got:\n%s", buf.String())
	}
	if !logContains(buf, "provider unavailable") {
		t.Errorf("expected error message in log, got:\n%s", buf.String())
	}
	if !logContains(buf, "error_kind=rate_limit") {
		t.Errorf("expected error kind in log, got:\n%s", buf.String())
	}
}

// ========== Generate tests ==========

func generateParams() image.GenerateParams {
	return image.GenerateParams{
		Request:        image.Request{ProviderID: "openai", ModelID: "dall-e-3", Prompt: "a {{subject}}", Count: 1},
		ResolvedPrompt: "a red fox",
		Settings:       image.DefaultSettings,
		APIKey:         "sk-secret-key-that-must-not-leak",
	}
}

func TestLoggingMiddleware_Generate_Standard(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := NewLoggingMiddleware(testLogger(buf), LogLevelStandard)

	next := func(_ context.Context, params image.GenerateParams) (*image.Response, error) {
		return &image.Response{
			ProviderID: params.Request.ProviderID,
			ModelID:    params.Request.ModelID,
			Images:     []image.GeneratedImage{{}, {}},
		}, nil
	}

	if _, err := mw.Generate(next)(context.Background(), generateParams()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, expected := range []string{"image generate completed", "dall-e-3", "image_count=2", "size=1024x1024"} {
		if !logContains(buf, expected) {
			t.Errorf("expected %q in log, got:\n%s", expected, buf.String())
		}
	}
	if logContains(buf, "a red fox") {
		t.Errorf("did not expect the prompt at LogLevelStandard, got:\n%s", buf.String())
	}
}

func TestLoggingMiddleware_Generate_Verbose_LogsResolvedPromptNotKey(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := NewLoggingMiddleware(testLogger(buf), LogLevelVerbose)

	next := func(_ context.Context, _ image.GenerateParams) (*image.Response, error) {
		return &image.Response{}, nil
	}

	if _, err := mw.Generate(next)(context.Background(), generateParams()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !logContains(buf, "a red fox") {
		t.Errorf("expected resolved prompt in verbose log, got:\n%s", buf.String())
	}
	if logContains(buf, "sk-secret") {
		t.Errorf("API key leaked into log:\n%s", buf.String())
	}
}

func TestLoggingMiddleware_Generate_ErrorPath(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := NewLoggingMiddleware(testLogger(buf), LogLevelMinimal)

	genErr := aierr.New(aierr.KindTimeout, "job timed out")
	next := func(_ context.Context, _ image.GenerateParams) (*image.Response, error) {
		return nil, genErr
	}

	_, err := mw.Generate(next)(context.Background(), generateParams())
	if !errors.Is(err, aierr.ErrTimeout) {
		t.Errorf("expected timeout error, got %v", err)
	}
	if !logContains(buf, "image generate failed") || !logContains(buf, "error_kind=timeout") {
		t.Errorf("expected failure entry with kind, got:\n%s", buf.String())
	}
}

func TestLoggingMiddleware_BothFieldsSet(t *testing.T) {
	mw := NewLoggingMiddleware(slog.Default(), LogLevelMinimal)
	if mw.Send == nil || mw.Generate == nil {
		t.Error("expected non-nil Send and Generate fields")
	}
}
