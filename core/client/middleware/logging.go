package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/leofalp/genailite/core/aierr"
	"github.com/leofalp/genailite/core/client"
	"github.com/leofalp/genailite/internal/utils"
	"github.com/leofalp/genailite/providers/ai"
	"github.com/leofalp/genailite/providers/image"
)

// LogLevel controls how much detail the logging middleware emits per request.
type LogLevel int

const (
	// LogLevelMinimal logs only the provider, model, duration and token or
	// image counts.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds the message count, finish reason and resolved
	// image settings. This is the recommended default.
	LogLevelStandard

	// LogLevelVerbose adds the first message, the response content and the
	// image prompt, each truncated to 500 characters.
	//
	// WARNING: DO NOT use LogLevelVerbose in production. Prompts and
	// responses may contain sensitive user data.
	LogLevelVerbose
)

// truncateLen is the maximum content length included in verbose log output.
const truncateLen = 500

// NewLoggingMiddleware creates a MiddlewareConfig that emits structured slog
// entries before and after every chat send and image generation. API keys
// are never logged.
//
// The logger parameter must not be nil. Use slog.Default() if you have not
// configured a custom logger.
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) client.MiddlewareConfig {
	return client.MiddlewareConfig{
		Send:     buildSendLogging(logger, level),
		Generate: buildGenerateLogging(logger, level),
	}
}

func buildSendLogging(logger *slog.Logger, level LogLevel) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			logger.InfoContext(ctx, "llm send", buildRequestAttrs(request, level)...)

			start := time.Now()
			response, err := next(ctx, request)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "llm send failed", failureAttrs(request.Model, elapsed, err)...)
				return nil, err
			}

			logger.InfoContext(ctx, "llm send completed", buildResponseAttrs(response, elapsed, level)...)
			return response, nil
		}
	}
}

func buildGenerateLogging(logger *slog.Logger, level LogLevel) client.GenerateMiddleware {
	return func(next client.GenerateFunc) client.GenerateFunc {
		return func(ctx context.Context, params image.GenerateParams) (*image.Response, error) {
			logger.InfoContext(ctx, "image generate", buildGenerateAttrs(params, level)...)

			start := time.Now()
			response, err := next(ctx, params)
			elapsed := time.Since(start)

			if err != nil {
				attrs := append([]any{slog.String("provider", params.Request.ProviderID)},
					failureAttrs(params.Request.ModelID, elapsed, err)...)
				logger.ErrorContext(ctx, "image generate failed", attrs...)
				return nil, err
			}

			logger.InfoContext(ctx, "image generate completed",
				slog.String("provider", response.ProviderID),
				slog.String("model", response.ModelID),
				slog.Int("image_count", len(response.Images)),
				slog.Duration("duration", elapsed),
			)
			return response, nil
		}
	}
}

func failureAttrs(model string, elapsed time.Duration, err error) []any {
	attrs := []any{
		slog.String("model", model),
		slog.Duration("duration", elapsed),
		slog.String("error", err.Error()),
	}
	if kind := aierr.KindOf(err); kind != "" {
		attrs = append(attrs, slog.String("error_kind", string(kind)))
	}
	return attrs
}

// buildRequestAttrs returns slog attributes for an outgoing chat request,
// expanding detail according to the requested verbosity level.
func buildRequestAttrs(request ai.ChatRequest, level LogLevel) []any {
	attrs := []any{
		slog.String("model", request.Model),
	}

	if level >= LogLevelStandard {
		attrs = append(attrs, slog.Int("message_count", len(request.Messages)))
	}

	if level >= LogLevelVerbose && len(request.Messages) > 0 {
		first := request.Messages[0]
		attrs = append(attrs,
			slog.String("first_message_role", string(first.Role)),
			slog.String("first_message_content", utils.TruncateString(first.Content, truncateLen)),
		)
	}

	return attrs
}

// buildResponseAttrs returns slog attributes for a completed chat response,
// expanding detail according to the requested verbosity level.
func buildResponseAttrs(response *ai.ChatResponse, elapsed time.Duration, level LogLevel) []any {
	attrs := []any{
		slog.String("model", response.Model),
		slog.Duration("duration", elapsed),
	}

	if response.Usage != nil {
		attrs = append(attrs,
			slog.Int("prompt_tokens", response.Usage.PromptTokens),
			slog.Int("completion_tokens", response.Usage.CompletionTokens),
			slog.Int("total_tokens", response.Usage.TotalTokens),
		)
	}

	if level >= LogLevelStandard && response.FinishReason != "" {
		attrs = append(attrs, slog.String("finish_reason", response.FinishReason))
	}

	if level >= LogLevelVerbose {
		if response.Reasoning != "" {
			attrs = append(attrs, slog.Int("reasoning_length", len(response.Reasoning)))
		}
		if response.Content != "" {
			attrs = append(attrs, slog.String("response_content", utils.TruncateString(response.Content, truncateLen)))
		}
	}

	return attrs
}

// buildGenerateAttrs describes an image generation without its API key.
func buildGenerateAttrs(params image.GenerateParams, level LogLevel) []any {
	attrs := []any{
		slog.String("provider", params.Request.ProviderID),
		slog.String("model", params.Request.ModelID),
		slog.Int("count", params.Request.ImageCount()),
	}

	if level >= LogLevelStandard {
		attrs = append(attrs,
			slog.String("size", params.Settings.Size()),
			slog.String("response_format", params.Settings.ResponseFormat),
		)
	}

	if level >= LogLevelVerbose {
		attrs = append(attrs, slog.String("prompt", utils.TruncateString(params.Prompt(), truncateLen)))
	}

	return attrs
}
