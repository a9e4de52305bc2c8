package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- Provider Attributes ---

const (
	// AttrLLMProvider is the provider id (e.g., "openai", "diffusion")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g., "gpt-4o", "dall-e-3")
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMPreset is the preset id used to resolve the model
	AttrLLMPreset = "llm.preset"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMReasoningLength is the length of the reasoning text kept apart from the answer
	AttrLLMReasoningLength = "llm.reasoning.length"
)

// --- Message Compiler Attributes ---

const (
	// AttrMessagesCount is the number of compiled messages
	AttrMessagesCount = "messages.count"

	// AttrTemplateLength is the template length in bytes
	AttrTemplateLength = "template.length"

	// AttrThinkingEnabled reports whether the model context enabled thinking
	AttrThinkingEnabled = "thinking.enabled"
)

// --- Image Attributes ---

const (
	// AttrImageCount is the number of images requested or returned
	AttrImageCount = "image.count"

	// AttrImageJobID is the id assigned by an asynchronous backend
	AttrImageJobID = "image.job.id"

	// AttrImageJobStatus is the last status reported for a job
	AttrImageJobStatus = "image.job.status"

	// AttrImagePollCount is the number of status polls performed
	AttrImagePollCount = "image.poll.count"

	// AttrImageProgressPercentage is the last reported progress percentage
	AttrImageProgressPercentage = "image.progress.percentage"

	// AttrImageProgressStage is the last reported progress stage
	AttrImageProgressStage = "image.progress.stage"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrErrorKind is the taxonomy kind of the error
	AttrErrorKind = "error.kind"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanCreateMessages wraps one message compilation
	SpanCreateMessages = "client.create_messages"

	// SpanGenerateImage wraps one image generation call
	SpanGenerateImage = "client.generate_image"

	// SpanComplete wraps one compile, send and extract round-trip
	SpanComplete = "client.complete"

	// SpanSendMessage wraps one chat provider call
	SpanSendMessage = "client.send_message"
)

// --- Event Names ---

const (
	// EventLLMRequestStart marks the start of a chat request
	EventLLMRequestStart = "llm.request.start"

	// EventLLMRequestEnd marks the end of a chat request
	EventLLMRequestEnd = "llm.request.end"

	// EventImageGenerateStart marks the start of an adapter call
	EventImageGenerateStart = "image.generate.start"

	// EventImageJobStarted marks that an asynchronous job id was assigned
	EventImageJobStarted = "image.job.started"

	// EventImageJobPoll marks one status poll
	EventImageJobPoll = "image.job.poll"

	// EventImageJobComplete marks a job reaching the complete state
	EventImageJobComplete = "image.job.complete"

	// EventImageFetch marks a hosted image download
	EventImageFetch = "image.fetch"
)
