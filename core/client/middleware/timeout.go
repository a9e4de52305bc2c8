package middleware

import (
	"context"
	"time"

	"github.com/leofalp/genailite/core/client"
	"github.com/leofalp/genailite/providers/ai"
	"github.com/leofalp/genailite/providers/image"
)

// NewTimeoutMiddleware creates a MiddlewareConfig that bounds every chat
// send and image generation with context.WithTimeout. A caller context with
// a shorter deadline wins as per normal context semantics.
//
// For asynchronous image jobs the deadline covers the whole job including
// polling; it composes with the adapter's own job timeout, the shorter
// one firing first. A timeout <= 0 disables the middleware.
func NewTimeoutMiddleware(timeout time.Duration) client.MiddlewareConfig {
	return client.MiddlewareConfig{
		Send:     buildSendTimeout(timeout),
		Generate: buildGenerateTimeout(timeout),
	}
}

func buildSendTimeout(timeout time.Duration) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}

func buildGenerateTimeout(timeout time.Duration) client.GenerateMiddleware {
	return func(next client.GenerateFunc) client.GenerateFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, params image.GenerateParams) (*image.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, params)
		}
	}
}
