// Package ai defines the shared, provider-agnostic chat types used across
// genailite: the [Message] list produced by the message compiler, the
// [ChatRequest] sent to a chat [Provider], and the [ChatResponse] that the
// thinking extractor post-processes.
package ai
