package image

import (
	"context"
	"time"

	"github.com/leofalp/genailite/core/aierr"
)

// Count limits shared by every provider. Adapters may narrow them further.
const (
	MinCount = 1
	MaxCount = 4
)

// Provider is an image-generation backend.
type Provider interface {
	// ID is the provider id used in requests and catalogs.
	ID() string
	// DefaultModelID is used when a request names no model.
	DefaultModelID() string
	Capabilities() Capabilities
	// Generate validates the parameters, calls the backend and returns the
	// normalized images. Failures are *aierr.Error values.
	Generate(ctx context.Context, params GenerateParams) (*Response, error)
}

// Capabilities describes what a backend supports.
type Capabilities struct {
	SupportsMultipleImages bool
	SupportsB64JSON        bool
	SupportsHostedURLs     bool
	SupportsProgressEvents bool
	SupportsNegativePrompt bool
}

// Request is what a caller asks for.
type Request struct {
	ProviderID string
	ModelID    string
	Prompt     string
	// Count defaults to 1 when zero.
	Count    int
	Settings *Settings
}

// ImageCount returns the requested count with the default applied.
func (r Request) ImageCount() int {
	if r.Count == 0 {
		return MinCount
	}
	return r.Count
}

// Validate checks the provider independent constraints.
func (r Request) Validate() error {
	if r.ProviderID == "" {
		return aierr.New(aierr.KindConfiguration, "provider id is required")
	}
	if n := r.ImageCount(); n < MinCount || n > MaxCount {
		return aierr.New(aierr.KindValidation, "count must be between %d and %d, got %d", MinCount, MaxCount, n)
	}
	return nil
}

// Progress is one progress report of an asynchronous job.
type Progress struct {
	CurrentStep int
	TotalSteps  int
	Stage       string
	// Percentage is in the 0..100 range.
	Percentage float64
}

// ProgressFunc receives progress reports. It is called synchronously from
// the polling loop, in poll order, once per poll that carries progress,
// even when nothing changed since the previous report.
type ProgressFunc func(Progress)

// GenerateParams is the fully resolved input handed to an adapter.
type GenerateParams struct {
	Request Request
	// ResolvedPrompt is the prompt after template rendering.
	ResolvedPrompt string
	Settings       Settings
	APIKey         string
	OnProgress     ProgressFunc
}

// Prompt returns ResolvedPrompt, falling back to the raw request prompt.
func (p GenerateParams) Prompt() string {
	if p.ResolvedPrompt != "" {
		return p.ResolvedPrompt
	}
	return p.Request.Prompt
}

// GeneratedImage is one normalized image. Data always holds the decoded
// bytes and is not modified after the adapter returns it.
type GeneratedImage struct {
	Index    int
	MimeType string
	Data     []byte
	B64JSON  string
	URL      string
	Seed     *int64
	// Prompt is the prompt the backend actually used, which may be revised.
	Prompt   string
	Metadata map[string]any
}

// Response is a successful generation.
type Response struct {
	ProviderID string
	ModelID    string
	Created    time.Time
	Images     []GeneratedImage
}
