// Package tokens provides content utilities that work against a model's
// token budget: token counting with per-model BPE tables, line-aware
// chunking, smart truncated previews, and random-variable extraction from
// tagged content.
//
// Tokenizers are expensive to build, so they live in an explicit [Cache]
// owned by whoever constructs it (normally core/client.Client). The cache is
// populated lazily and kept for its owner's lifetime. [CountTokens] uses a
// process-wide default cache for standalone callers.
package tokens
