package diffusion

import "github.com/leofalp/genailite/providers/image"

// JobStatus is the server-side state of a generation job.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusInProgress JobStatus = "in_progress"
	StatusComplete   JobStatus = "complete"
	StatusError      JobStatus = "error"
)

// generateRequest is the body of POST /generate.
type generateRequest struct {
	Model          string  `json:"model"`
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	Steps          int     `json:"steps,omitempty"`
	CFGScale       float64 `json:"cfg_scale,omitempty"`
	Sampler        string  `json:"sampler,omitempty"`
	Seed           *int64  `json:"seed,omitempty"`
	NumImages      int     `json:"num_images"`
}

// job is returned by both endpoints; only ID and Status are set by the
// start call.
type job struct {
	ID       string       `json:"id"`
	Status   JobStatus    `json:"status"`
	Progress *jobProgress `json:"progress,omitempty"`
	Result   *jobResult   `json:"result,omitempty"`
	Error    *jobError    `json:"error,omitempty"`
}

type jobProgress struct {
	CurrentStep int      `json:"current_step"`
	TotalSteps  int      `json:"total_steps"`
	Stage       string   `json:"stage,omitempty"`
	Percentage  *float64 `json:"percentage,omitempty"`
}

type jobResult struct {
	Images []jobImage `json:"images"`
}

type jobImage struct {
	Base64   string `json:"base64"`
	Seed     *int64 `json:"seed,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

type jobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// modelLimits holds the prompt and batch limits of one diffusion model.
type modelLimits struct {
	MaxPromptChars   int
	MaxImagesPerCall int
}

var knownModels = map[string]modelLimits{
	"sdxl": {MaxPromptChars: 2000, MaxImagesPerCall: 4},
	"sd15": {MaxPromptChars: 2000, MaxImagesPerCall: 4},
}

// fallbackLimits apply to models the server hosts but this table does not
// list.
var fallbackLimits = modelLimits{MaxPromptChars: 2000, MaxImagesPerCall: image.MaxCount}

func limitsFor(model string) modelLimits {
	if l, ok := knownModels[model]; ok {
		return l
	}
	return fallbackLimits
}
