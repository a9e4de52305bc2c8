package openai

import (
	"context"
	"net/http"
	"os"

	"github.com/leofalp/genailite/core/aierr"
	"github.com/leofalp/genailite/internal/utils"
	"github.com/leofalp/genailite/providers/ai"
	"github.com/leofalp/genailite/providers/observability"
)

const (
	providerID              = "openai"
	defaultBaseURL          = "https://api.openai.com/v1"
	defaultModel            = "gpt-4o-mini"
	chatCompletionsEndpoint = "/chat/completions"
)

// OpenAIProvider implements ai.Provider for OpenAI-compatible chat completion APIs.
type OpenAIProvider struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	capabilities Capabilities
}

// New creates a new OpenAI provider instance with default values from environment.
// Environment variables:
//   - OPENAI_API_KEY: API key for authentication
//   - OPENAI_API_BASE_URL: Base URL for API (optional, defaults to OpenAI's API)
func New() *OpenAIProvider {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &OpenAIProvider{
		apiKey:       os.Getenv("OPENAI_API_KEY"),
		baseURL:      baseURL,
		client:       &http.Client{},
		capabilities: detectCapabilities(baseURL),
	}
}

// ID implements ai.Provider.
func (p *OpenAIProvider) ID() string { return providerID }

// WithAPIKey sets the API key for the provider
func (p *OpenAIProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API and re-detects capabilities.
func (p *OpenAIProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	p.capabilities = detectCapabilities(baseURL)
	return p
}

// WithHttpClient sets a custom HTTP client
func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// WithCapabilities overrides the detected capabilities.
func (p *OpenAIProvider) WithCapabilities(capabilities Capabilities) *OpenAIProvider {
	p.capabilities = capabilities
	return p
}

// SendMessage implements the ai.Provider interface.
func (p *OpenAIProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	span := observability.SpanFromContext(ctx)

	model := request.Model
	if model == "" {
		model = defaultModel
	}

	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart,
			observability.String(observability.AttrLLMProvider, providerID),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, model),
		)
		defer span.AddEvent(observability.EventLLMRequestEnd)
	}

	if p.apiKey == "" {
		return nil, aierr.New(aierr.KindConfiguration, "OPENAI_API_KEY is not set").WithProvider(providerID, model)
	}
	if len(request.Messages) == 0 {
		return nil, aierr.New(aierr.KindValidation, "at least one message is required").WithProvider(providerID, model)
	}

	_, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, p.client, p.baseURL+chatCompletionsEndpoint, p.apiKey, p.requestFromGeneric(model, request))
	if err != nil {
		return nil, aierr.Enrich(utils.MapHTTPError(err, p.baseURL), providerID, model)
	}
	if len(resp.Choices) == 0 {
		return nil, aierr.New(aierr.KindProtocol, "no choices in response").WithProvider(providerID, model)
	}

	result := responseToGeneric(resp, p.capabilities)
	if result.Model == "" {
		result.Model = model
	}
	if span != nil {
		span.SetAttributes(observability.String(observability.AttrLLMFinishReason, result.FinishReason))
	}
	return result, nil
}

func (p *OpenAIProvider) requestFromGeneric(model string, request ai.ChatRequest) chatCompletionRequest {
	out := chatCompletionRequest{
		Model:    model,
		Messages: make([]chatMessage, 0, len(request.Messages)),
	}
	for _, msg := range request.Messages {
		out.Messages = append(out.Messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	if cfg := request.GenerationConfig; cfg != nil {
		if cfg.Temperature != 0 {
			out.Temperature = utils.Ptr(cfg.Temperature)
		}
		if cfg.TopP != 0 {
			out.TopP = utils.Ptr(cfg.TopP)
		}
		if cfg.MaxTokens > 0 {
			out.MaxTokens = utils.Ptr(cfg.MaxTokens)
		}
		if p.capabilities.SupportsReasoningEffort {
			out.ReasoningEffort = cfg.ReasoningEffort
		}
	}
	return out
}

func responseToGeneric(resp *chatCompletionResponse, capabilities Capabilities) *ai.ChatResponse {
	choice := resp.Choices[0]
	result := &ai.ChatResponse{
		Id:           resp.Id,
		Model:        resp.Model,
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
	}

	if capabilities.ReturnsNativeReasoning {
		result.Reasoning = choice.Message.ReasoningContent
		if result.Reasoning == "" {
			result.Reasoning = choice.Message.Reasoning
		}
	}

	if resp.Usage != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
		if resp.Usage.CompletionTokensDetails != nil {
			result.Usage.ReasoningTokens = resp.Usage.CompletionTokensDetails.ReasoningTokens
		}
	}
	return result
}
