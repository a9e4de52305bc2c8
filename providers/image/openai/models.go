package openai

// modelLimits holds the documented constraints of one image model.
type modelLimits struct {
	MaxPromptChars   int
	MaxImagesPerCall int
	// SupportsStyle is true for models accepting the vivid/natural style.
	SupportsStyle bool
	// B64Only models always return inline data and reject response_format.
	B64Only bool
	// SupportsOutputOptions is true for models accepting background,
	// output_format and moderation.
	SupportsOutputOptions bool
}

var knownModels = map[string]modelLimits{
	"dall-e-2": {
		MaxPromptChars:   1000,
		MaxImagesPerCall: 10,
	},
	"dall-e-3": {
		MaxPromptChars:   4000,
		MaxImagesPerCall: 1,
		SupportsStyle:    true,
	},
	"gpt-image-1": {
		MaxPromptChars:        32000,
		MaxImagesPerCall:      10,
		B64Only:               true,
		SupportsOutputOptions: true,
	},
}

// generationRequest is the body of POST /images/generations.
type generationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n,omitempty"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
	Background     string `json:"background,omitempty"`
	OutputFormat   string `json:"output_format,omitempty"`
	Moderation     string `json:"moderation,omitempty"`
	User           string `json:"user,omitempty"`
}

type generationResponse struct {
	Created      int64       `json:"created"`
	Data         []imageData `json:"data"`
	OutputFormat string      `json:"output_format,omitempty"`
}

type imageData struct {
	B64JSON       string `json:"b64_json,omitempty"`
	URL           string `json:"url,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}
