package openai

import "strings"

// Capabilities describes optional features of an OpenAI-compatible chat
// endpoint. They are detected from the base URL by [detectCapabilities] and
// can be overridden via [OpenAIProvider.WithCapabilities] for non-standard hosts.
type Capabilities struct {
	// SupportsReasoningEffort reports whether reasoning_effort may be sent.
	SupportsReasoningEffort bool
	// ReturnsNativeReasoning reports whether replies may carry reasoning text
	// in a dedicated field rather than inline in the content.
	ReturnsNativeReasoning bool
}

// detectCapabilities attempts to detect provider capabilities based on baseURL
func detectCapabilities(baseURL string) Capabilities {
	baseURL = strings.ToLower(baseURL)

	switch {
	case strings.Contains(baseURL, "api.openai.com"):
		return Capabilities{SupportsReasoningEffort: true}
	case strings.Contains(baseURL, "openrouter.ai"):
		return Capabilities{SupportsReasoningEffort: true, ReturnsNativeReasoning: true}
	case strings.Contains(baseURL, "deepseek.com"):
		return Capabilities{ReturnsNativeReasoning: true}
	}

	// Local servers (llama.cpp, vLLM, Ollama) differ per model; accept
	// native reasoning when present but never send reasoning_effort.
	return Capabilities{ReturnsNativeReasoning: true}
}
