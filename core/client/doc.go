// Package client is the top-level service of the library. A [Client] owns
// the long-lived collaborators (model catalog, API key source, image
// adapters, chat providers, tokenizer cache, observer) and exposes the
// operations callers use:
//
//   - [Client.CreateMessages] compiles a template into model-aware messages.
//   - [Client.Generate] validates an image request, resolves its settings
//     and prompt, and dispatches it to the adapter registered for its
//     provider id.
//   - [Client.Complete] compiles, sends through the chat provider of the
//     resolved model and separates reasoning from the answer.
//   - [Client.CountTokens] counts tokens with the client's own cache.
//
// Chat sends and image generations run through a middleware chain
// configured with [WithMiddleware]; see package middleware for timeout and
// logging implementations. [WithObserver] prepends tracing.
//
// A Client holds no per-call state, so it is safe for concurrent use.
package client
