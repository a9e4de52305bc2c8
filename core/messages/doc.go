// Package messages compiles prompt templates into chat messages.
//
// [CreateMessages] resolves the model context (when a preset or a
// provider+model pair is given), layers the caller's variables on top of
// the context variables, renders the template once and splits it on role
// tags.
package messages
