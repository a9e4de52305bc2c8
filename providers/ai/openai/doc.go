// Package openai implements [ai.Provider] for OpenAI-compatible
// /chat/completions APIs (OpenAI, OpenRouter, DeepSeek, llama.cpp, vLLM).
//
// The main entry point is [New], which reads OPENAI_API_KEY and
// OPENAI_API_BASE_URL from the environment. Native reasoning returned in
// reasoning_content or reasoning is copied to [ai.ChatResponse.Reasoning];
// inline thinking blocks are left in the content for the caller to extract.
package openai
