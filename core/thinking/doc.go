// Package thinking separates a model's reasoning from its answer.
//
// Models prompted to think inside tags put a block such as
// <thinking>...</thinking> at the very start of their reply.
// [ExtractInitialTaggedContent] lifts that leading block out; a tag that
// appears later in the text is left alone. [MergeReasoning] combines the
// extracted text with reasoning the provider returned natively.
package thinking
