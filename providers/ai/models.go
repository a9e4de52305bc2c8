package ai

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // Full conversation, system messages included
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional generation configuration
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// GenerationConfig holds sampling and reasoning parameters. Zero values are
// omitted from the wire request.
type GenerationConfig struct {
	MaxTokens       int     `json:"max_tokens,omitempty"`       // Optional max tokens for the response
	Temperature     float32 `json:"temperature,omitempty"`      // Sampling temperature [0..2]
	TopP            float32 `json:"top_p,omitempty"`            // Nucleus sampling [0..1]
	ReasoningEffort string  `json:"reasoning_effort,omitempty"` // "low" | "medium" | "high" for reasoning models
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
	ReasoningTokens  int `json:"reasoning_tokens,omitempty"` // Tokens used for native reasoning
}

// ChatResponse represents the response from a chat completion
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`

	// Reasoning holds chain-of-thought text, either returned natively by the
	// provider or extracted from a leading tagged block of Content.
	Reasoning string `json:"reasoning,omitempty"`
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
)
