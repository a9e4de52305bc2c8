package client

import (
	"context"
	"errors"

	"github.com/leofalp/genailite/core/aierr"
	"github.com/leofalp/genailite/internal/utils"
	"github.com/leofalp/genailite/providers/ai"
	"github.com/leofalp/genailite/providers/image"
	"github.com/leofalp/genailite/providers/observability"
)

// NewObservabilityMiddleware creates a MiddlewareConfig that opens a span
// around every chat send and image generation and logs the outcome.
//
// The span and the observer are put in the context before calling next,
// so adapters can add events with observability.SpanFromContext. [New]
// prepends this middleware when [WithObserver] is given, making it the
// outermost wrapper.
func NewObservabilityMiddleware(observer observability.Provider) MiddlewareConfig {
	return MiddlewareConfig{
		Send:     buildObsSend(observer),
		Generate: buildObsGenerate(observer),
	}
}

func buildObsSend(observer observability.Provider) Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, span := startSpan(ctx, observer, observability.SpanSendMessage,
				observability.String(observability.AttrLLMModel, request.Model),
				observability.Int(observability.AttrMessagesCount, len(request.Messages)),
			)
			defer span.End()

			timer := utils.NewTimer()
			response, err := next(ctx, request)
			if err != nil {
				recordFailure(ctx, observer, span, "llm send failed", err)
				return nil, err
			}

			attrs := []observability.Attribute{
				observability.String(observability.AttrLLMModel, response.Model),
				observability.String(observability.AttrLLMFinishReason, response.FinishReason),
				observability.Int(observability.AttrLLMReasoningLength, len(response.Reasoning)),
				observability.Duration(observability.AttrDuration, timer.Elapsed()),
			}
			span.SetAttributes(attrs...)
			span.SetStatus(observability.StatusOK, "success")
			observer.Info(ctx, "llm send completed", attrs...)
			return response, nil
		}
	}
}

func buildObsGenerate(observer observability.Provider) GenerateMiddleware {
	return func(next GenerateFunc) GenerateFunc {
		return func(ctx context.Context, params image.GenerateParams) (*image.Response, error) {
			ctx, span := startSpan(ctx, observer, observability.SpanGenerateImage,
				observability.String(observability.AttrLLMProvider, params.Request.ProviderID),
				observability.String(observability.AttrLLMModel, params.Request.ModelID),
				observability.Int(observability.AttrImageCount, params.Request.ImageCount()),
			)
			defer span.End()

			timer := utils.NewTimer()
			response, err := next(ctx, params)
			if err != nil {
				recordFailure(ctx, observer, span, "image generation failed", err)
				return nil, err
			}

			attrs := []observability.Attribute{
				observability.String(observability.AttrLLMProvider, response.ProviderID),
				observability.String(observability.AttrLLMModel, response.ModelID),
				observability.Int(observability.AttrImageCount, len(response.Images)),
				observability.Duration(observability.AttrDuration, timer.Elapsed()),
			}
			span.SetAttributes(attrs...)
			span.SetStatus(observability.StatusOK, "success")
			observer.Info(ctx, "image generation completed", attrs...)
			return response, nil
		}
	}
}

// startSpan starts a span and makes both the span and the observer
// reachable from the returned context.
func startSpan(ctx context.Context, observer observability.Provider, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	ctx, span := observer.StartSpan(ctx, name, attrs...)
	ctx = observability.ContextWithSpan(ctx, span)
	return observability.ContextWithObserver(ctx, observer), span
}

func recordFailure(ctx context.Context, observer observability.Provider, span observability.Span, msg string, err error) {
	span.RecordError(err)
	span.SetStatus(observability.StatusError, msg)

	attrs := []observability.Attribute{observability.Error(err)}
	if kind := aierr.KindOf(err); kind != "" {
		attrs = append(attrs, observability.String(observability.AttrErrorKind, string(kind)))
	}
	if errors.Is(err, context.Canceled) {
		observer.Warn(ctx, msg, attrs...)
		return
	}
	observer.Error(ctx, msg, attrs...)
}
