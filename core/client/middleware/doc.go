// Package middleware provides built-in middleware for the client. Each
// middleware is constructed via a New* function that returns a
// [client.MiddlewareConfig] ready to be passed to [client.WithMiddleware].
//
// # Available Middleware
//
//   - [NewTimeoutMiddleware]: Adds a per-call deadline via context.WithTimeout
//     to chat sends and image generations. An adapter that hits it reports a
//     timeout error.
//
//   - [NewLoggingMiddleware]: Emits structured slog entries before and after
//     every provider call, with three verbosity levels (Minimal, Standard, Verbose).
//
// There is no retry middleware: failures are classified (see aierr.Retryable)
// and the caller decides whether to try again.
//
// # Usage
//
//	c, err := client.New(
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(2*time.Minute),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// Middlewares execute outermost-first: the first entry in WithMiddleware is
// the outermost wrapper. In the example above a request travels
//
//	Timeout → Logging → Provider
//
// and the response travels back in reverse.
package middleware
