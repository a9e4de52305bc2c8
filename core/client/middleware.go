package client

import (
	"context"

	"github.com/leofalp/genailite/core/aierr"
	"github.com/leofalp/genailite/providers/ai"
	"github.com/leofalp/genailite/providers/image"
)

// SendFunc sends a chat request to the chat provider. It is the unit
// threaded through the send middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// GenerateFunc runs one image generation with fully resolved parameters.
// The adapter is chosen by params.Request.ProviderID.
type GenerateFunc func(ctx context.Context, params image.GenerateParams) (*image.Response, error)

// Middleware wraps a SendFunc. The first middleware given to WithMiddleware
// is the outermost.
type Middleware func(next SendFunc) SendFunc

// GenerateMiddleware is the image generation counterpart of Middleware.
type GenerateMiddleware func(next GenerateFunc) GenerateFunc

// MiddlewareConfig pairs a send middleware with its image generation
// counterpart. Either may be nil, in which case that chain skips this
// entry; both nil is an error.
type MiddlewareConfig struct {
	Send     Middleware
	Generate GenerateMiddleware
}

// buildSendChain wraps the call to one chat provider so that middlewares[0] runs
// first.
func buildSendChain(provider ai.Provider, middlewares []MiddlewareConfig) SendFunc {
	var chain SendFunc = func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
		return provider.SendMessage(ctx, request)
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i].Send != nil {
			chain = middlewares[i].Send(chain)
		}
	}
	return chain
}

// buildGenerateChain wraps the adapter dispatch so that middlewares[0]
// runs first.
func buildGenerateChain(providers map[string]image.Provider, middlewares []MiddlewareConfig) GenerateFunc {
	var chain GenerateFunc = func(ctx context.Context, params image.GenerateParams) (*image.Response, error) {
		p, ok := providers[params.Request.ProviderID]
		if !ok {
			return nil, aierr.New(aierr.KindConfiguration, "no image provider registered for %q", params.Request.ProviderID)
		}
		return p.Generate(ctx, params)
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i].Generate != nil {
			chain = middlewares[i].Generate(chain)
		}
	}
	return chain
}
