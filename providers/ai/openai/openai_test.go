package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leofalp/genailite/core/aierr"
	"github.com/leofalp/genailite/providers/ai"
)

func TestNewWithoutEnvVariable(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_BASE_URL", "")

	p := New()
	if p == nil {
		t.Fatal("expected provider to be created even without env variable")
	}
	if p.baseURL != defaultBaseURL {
		t.Errorf("expected default base URL, got %s", p.baseURL)
	}
}

func TestSendMessageWithValidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != chatCompletionsEndpoint {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected Authorization header 'Bearer test-key', got %s", r.Header.Get("Authorization"))
		}

		var body chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal("failed to decode request body: " + err.Error())
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != "system" {
			t.Errorf("expected system+user messages, got %+v", body.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-1",
			"model": "gpt-test",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "Paris."},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12},
		})
	}))
	defer server.Close()

	p := New().WithAPIKey("test-key").WithBaseURL(server.URL)

	response, err := p.SendMessage(context.Background(), ai.ChatRequest{
		Model: "gpt-test",
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: "Be terse."},
			{Role: ai.RoleUser, Content: "What is the capital of France?"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Content != "Paris." {
		t.Errorf("expected content 'Paris.', got %s", response.Content)
	}
	if response.FinishReason != "stop" {
		t.Errorf("expected finish reason 'stop', got %s", response.FinishReason)
	}
	if response.Usage == nil || response.Usage.TotalTokens != 12 {
		t.Errorf("expected usage to be mapped, got %+v", response.Usage)
	}
}

func TestSendMessageCopiesNativeReasoning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": "x",
			"choices": []map[string]any{{
				"message": map[string]any{
					"role":              "assistant",
					"content":           "42",
					"reasoning_content": "6 times 7",
				},
				"finish_reason": "stop",
			}},
		})
	}))
	defer server.Close()

	p := New().WithAPIKey("k").WithBaseURL(server.URL)
	response, err := p.SendMessage(context.Background(), ai.ChatRequest{Messages: []ai.Message{{Role: ai.RoleUser, Content: "?"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Reasoning != "6 times 7" {
		t.Errorf("expected native reasoning, got %q", response.Reasoning)
	}
	if response.Model != defaultModel {
		t.Errorf("expected default model to be reported, got %q", response.Model)
	}
}

func TestSendMessageReasoningEffortOnlyWhenSupported(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]any{"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}}})
	}))
	defer server.Close()

	request := ai.ChatRequest{
		Messages:         []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		GenerationConfig: &ai.GenerationConfig{ReasoningEffort: "high", MaxTokens: 100},
	}

	p := New().WithAPIKey("k").WithBaseURL(server.URL).(*OpenAIProvider)
	if _, err := p.SendMessage(context.Background(), request); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := captured["reasoning_effort"]; ok {
		t.Error("reasoning_effort must not be sent to a host that does not support it")
	}
	if captured["max_completion_tokens"] != float64(100) {
		t.Errorf("expected max_completion_tokens=100, got %v", captured["max_completion_tokens"])
	}

	p.WithCapabilities(Capabilities{SupportsReasoningEffort: true})
	if _, err := p.SendMessage(context.Background(), request); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured["reasoning_effort"] != "high" {
		t.Errorf("expected reasoning_effort=high, got %v", captured["reasoning_effort"])
	}
}

func TestSendMessageWithoutAPIKey(t *testing.T) {
	p := New().WithAPIKey("")

	_, err := p.SendMessage(context.Background(), ai.ChatRequest{Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}}})
	if !errors.Is(err, aierr.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSendMessageMapsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	p := New().WithAPIKey("k").WithBaseURL(server.URL)
	_, err := p.SendMessage(context.Background(), ai.ChatRequest{Model: "gpt-4o", Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}}})

	if !errors.Is(err, aierr.ErrRateLimit) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	var e *aierr.Error
	if !errors.As(err, &e) || e.Provider != "openai" || e.Model != "gpt-4o" || e.Code != "rate_limit_exceeded" {
		t.Errorf("expected enriched error, got %+v", e)
	}
}

func TestDetectCapabilities(t *testing.T) {
	if !detectCapabilities("https://api.openai.com/v1").SupportsReasoningEffort {
		t.Error("OpenAI should support reasoning_effort")
	}
	if detectCapabilities("http://localhost:8080/v1").SupportsReasoningEffort {
		t.Error("local servers should not get reasoning_effort")
	}
	if !detectCapabilities("https://openrouter.ai/api/v1").ReturnsNativeReasoning {
		t.Error("OpenRouter returns native reasoning")
	}
}
