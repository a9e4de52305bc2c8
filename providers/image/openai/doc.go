// Package openai implements image.Provider for the OpenAI Images API
// (POST /images/generations).
//
// Every call is a single request. Before anything goes on the wire the
// adapter checks the API key format, the prompt length and the per-call
// image count of the selected model, so invalid requests cost nothing.
// Hosted URLs returned by the API are downloaded so that callers always
// receive image bytes.
package openai
