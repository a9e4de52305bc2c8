package ai

import (
	"context"
	"net/http"
)

// Provider is the interface every chat provider implementation satisfies.
// It covers one request/response exchange; building the messages and
// post-processing the reply are done by the caller.
type Provider interface {
	// ID returns the provider id as used in the model catalog (e.g. "openai").
	ID() string

	// SendMessage sends a chat request to the provider and returns the
	// completed response. Returns an error if the provider call fails,
	// the context is cancelled, or the response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}
