// Package aierr defines the error taxonomy shared by every provider adapter
// and by the message compiler. Callers branch on the kind of failure with
// [errors.Is] against the sentinels ([ErrValidation], [ErrRateLimit], ...)
// and read the structured context (provider, model, base URL, HTTP status)
// with [errors.As] on [*Error].
//
// The core never retries. [Retryable] only reports whether a caller-side
// retry could succeed without changing the request.
package aierr
