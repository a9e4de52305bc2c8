// Package observability defines the interfaces and semantic conventions used
// for tracing and structured logging throughout genailite.
//
// The central entry point is [Provider], which composes [Tracer] and [Logger]
// into a single injectable dependency. Callers propagate an active [Provider]
// and [Span] through a [context.Context] using [ContextWithObserver] and
// [ContextWithSpan]; they can be retrieved with [ObserverFromContext] and
// [SpanFromContext]. When neither is present, library code stays silent.
//
// The semconv.go file contains the attribute-key, span-name and event-name
// constants that should be used when recording observations.
package observability
