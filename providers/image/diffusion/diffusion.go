package diffusion

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leofalp/genailite/core/aierr"
	"github.com/leofalp/genailite/internal/utils"
	"github.com/leofalp/genailite/providers/image"
	"github.com/leofalp/genailite/providers/observability"
)

const (
	providerID     = "diffusion"
	defaultBaseURL = "http://localhost:7860"
	defaultModel   = "sdxl"

	generateEndpoint = "/generate"
	statusEndpoint   = "/status/"

	DefaultPollInterval = 500 * time.Millisecond
	DefaultTimeout      = 5 * time.Minute
)

// Provider implements image.Provider for a local diffusion server.
type Provider struct {
	baseURL      string
	client       *http.Client
	pollInterval time.Duration
	timeout      time.Duration
}

var _ image.Provider = (*Provider)(nil)

// New creates an adapter. DIFFUSION_API_BASE_URL overrides the default
// local endpoint.
func New() *Provider {
	baseURL := os.Getenv("DIFFUSION_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       &http.Client{Timeout: 30 * time.Second},
		pollInterval: DefaultPollInterval,
		timeout:      DefaultTimeout,
	}
}

// WithBaseURL sets the server base URL.
func (p *Provider) WithBaseURL(baseURL string) *Provider {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

// WithHttpClient sets the HTTP client. Its own timeout bounds each single
// request, not the whole job.
func (p *Provider) WithHttpClient(client *http.Client) *Provider {
	p.client = client
	return p
}

// WithPollInterval sets the default delay between status polls.
func (p *Provider) WithPollInterval(d time.Duration) *Provider {
	if d > 0 {
		p.pollInterval = d
	}
	return p
}

// WithTimeout sets the default wall-clock limit of a job, measured from
// the start call.
func (p *Provider) WithTimeout(d time.Duration) *Provider {
	if d > 0 {
		p.timeout = d
	}
	return p
}

func (p *Provider) ID() string { return providerID }

func (p *Provider) DefaultModelID() string { return defaultModel }

func (p *Provider) Capabilities() image.Capabilities {
	return image.Capabilities{
		SupportsMultipleImages: true,
		SupportsB64JSON:        true,
		SupportsProgressEvents: true,
		SupportsNegativePrompt: true,
	}
}

// Generate implements image.Provider. It starts a job, then polls it until
// it completes, fails or runs out of time. params.OnProgress, when set, is
// called from this goroutine on every in_progress poll carrying progress.
func (p *Provider) Generate(ctx context.Context, params image.GenerateParams) (*image.Response, error) {
	model := params.Request.ModelID
	if model == "" {
		model = defaultModel
	}
	fail := func(err *aierr.Error) (*image.Response, error) {
		return nil, err.WithProvider(providerID, model)
	}

	if params.APIKey != "" && strings.TrimSpace(params.APIKey) == "" {
		return fail(aierr.New(aierr.KindConfiguration, "API key is blank"))
	}
	prompt := params.Prompt()
	if strings.TrimSpace(prompt) == "" {
		return fail(aierr.New(aierr.KindValidation, "prompt is required"))
	}
	limits := limitsFor(model)
	if n := utf8.RuneCountInString(prompt); n > limits.MaxPromptChars {
		return fail(aierr.New(aierr.KindValidation, "prompt is %d characters, model %s allows at most %d", n, model, limits.MaxPromptChars))
	}
	count := params.Request.ImageCount()
	if count < image.MinCount || count > image.MaxCount {
		return fail(aierr.New(aierr.KindValidation, "count must be between %d and %d, got %d", image.MinCount, image.MaxCount, count))
	}
	if count > limits.MaxImagesPerCall {
		return fail(aierr.New(aierr.KindValidation, "model %s supports at most %d image(s) per call, got %d", model, limits.MaxImagesPerCall, count))
	}

	settings := params.Settings.Diffusion
	interval := settings.PollInterval
	if interval <= 0 {
		interval = p.pollInterval
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = p.timeout
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventImageGenerateStart,
			observability.String(observability.AttrLLMProvider, providerID),
			observability.String(observability.AttrLLMModel, model),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.Int(observability.AttrImageCount, count),
		)
	}

	timer := utils.NewTimer()
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started, err := p.start(jobCtx, params.APIKey, generateRequest{
		Model:          model,
		Prompt:         prompt,
		NegativePrompt: settings.NegativePrompt,
		Width:          params.Settings.Width,
		Height:         params.Settings.Height,
		Steps:          settings.Steps,
		CFGScale:       settings.CFGScale,
		Sampler:        settings.Sampler,
		Seed:           settings.Seed,
		NumImages:      count,
	})
	if err != nil {
		return nil, p.requestError(ctx, err, timeout, model)
	}
	if span != nil {
		span.AddEvent(observability.EventImageJobStarted,
			observability.String(observability.AttrImageJobID, started.ID),
			observability.String(observability.AttrImageJobStatus, string(started.Status)),
		)
	}

	result, err := p.poll(jobCtx, params.APIKey, started.ID, interval, timeout, timer, params.OnProgress)
	if err != nil {
		var aerr *aierr.Error
		if errors.As(err, &aerr) {
			return fail(aerr)
		}
		return nil, p.requestError(ctx, err, timeout, model)
	}

	images, aerr := convertImages(result, started.ID, prompt)
	if aerr != nil {
		return fail(aerr)
	}
	return &image.Response{
		ProviderID: providerID,
		ModelID:    model,
		Created:    time.Now(),
		Images:     images,
	}, nil
}

func (p *Provider) start(ctx context.Context, apiKey string, body generateRequest) (*job, error) {
	_, started, err := utils.DoPostSync[job](ctx, p.client, p.baseURL+generateEndpoint, apiKey, body)
	if err != nil {
		return nil, err
	}
	if started.ID == "" {
		return nil, aierr.New(aierr.KindProtocol, "start call returned no job id")
	}
	return started, nil
}

// poll drives the job state machine until a terminal state. It returns
// *aierr.Error values for protocol, job and timeout failures, and raw
// transport errors otherwise.
func (p *Provider) poll(ctx context.Context, apiKey, id string, interval, timeout time.Duration, timer *utils.Timer, onProgress image.ProgressFunc) (*jobResult, error) {
	span := observability.SpanFromContext(ctx)
	statusURL := p.baseURL + statusEndpoint + url.PathEscape(id)

	for polls := 1; ; polls++ {
		_, current, err := utils.DoGetSync[job](ctx, p.client, statusURL, apiKey)
		if err != nil {
			return nil, err
		}

		var progress image.Progress
		if current.Progress != nil {
			progress = normalizeProgress(current.Progress)
		}
		if span != nil {
			span.AddEvent(observability.EventImageJobPoll,
				observability.String(observability.AttrImageJobID, id),
				observability.String(observability.AttrImageJobStatus, string(current.Status)),
				observability.Int(observability.AttrImagePollCount, polls),
				observability.Float64(observability.AttrImageProgressPercentage, progress.Percentage),
				observability.String(observability.AttrImageProgressStage, progress.Stage),
			)
		}

		switch current.Status {
		case StatusPending:
		case StatusInProgress:
			if current.Progress != nil && onProgress != nil {
				onProgress(progress)
			}
		case StatusComplete:
			if current.Result == nil {
				return nil, aierr.New(aierr.KindProtocol, "job %s is complete but has no result", id)
			}
			if span != nil {
				span.AddEvent(observability.EventImageJobComplete,
					observability.String(observability.AttrImageJobID, id),
					observability.Int(observability.AttrImageCount, len(current.Result.Images)),
					observability.Int(observability.AttrImagePollCount, polls),
				)
			}
			return current.Result, nil
		case StatusError:
			return nil, jobFailure(id, current.Error)
		default:
			return nil, aierr.New(aierr.KindProtocol, "job %s reported unknown status %q", id, current.Status)
		}

		if timer.Exceeded(timeout) {
			return nil, timeoutError(id, timeout, polls)
		}

		wait := min(interval, timeout-timer.Elapsed())
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
		if timer.Exceeded(timeout) {
			return nil, timeoutError(id, timeout, polls)
		}
	}
}

// requestError classifies a transport level failure. The caller's own
// cancellation is returned as is; the job deadline becomes a timeout.
func (p *Provider) requestError(parent context.Context, err error, timeout time.Duration, model string) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return aierr.Wrap(aierr.KindTimeout, err, "job did not finish within %s", timeout).
			WithBaseURL(p.baseURL).WithProvider(providerID, model)
	}
	var aerr *aierr.Error
	if errors.As(err, &aerr) {
		return aerr.WithProvider(providerID, model)
	}

	mapped := utils.MapHTTPError(err, p.baseURL)
	if errors.As(mapped, &aerr) && aerr.Kind == aierr.KindNetwork {
		aerr.Message += " (is the diffusion server running at " + p.baseURL + "?)"
	}
	return aierr.Enrich(mapped, providerID, model)
}

func timeoutError(id string, timeout time.Duration, polls int) *aierr.Error {
	return aierr.New(aierr.KindTimeout, "job %s did not finish within %s (%d polls)", id, timeout, polls)
}

// jobFailure maps a server reported job error to the taxonomy.
func jobFailure(id string, e *jobError) *aierr.Error {
	if e == nil {
		return aierr.New(aierr.KindServer, "job %s failed without details", id)
	}
	code := strings.ToLower(e.Code)
	kind := aierr.KindServer
	switch {
	case strings.HasPrefix(code, "invalid"):
		kind = aierr.KindValidation
	case code == "unauthorized" || code == "forbidden":
		kind = aierr.KindAuthentication
	case code == "busy" || code == "queue_full":
		kind = aierr.KindRateLimit
	}
	err := aierr.New(kind, "job %s failed: %s", id, e.Message)
	err.Code = e.Code
	return err
}

// normalizeProgress derives the percentage from the step counters when the
// server omits it and clamps it to 0..100.
func normalizeProgress(p *jobProgress) image.Progress {
	out := image.Progress{
		CurrentStep: p.CurrentStep,
		TotalSteps:  p.TotalSteps,
		Stage:       p.Stage,
	}
	switch {
	case p.Percentage != nil:
		out.Percentage = *p.Percentage
	case p.TotalSteps > 0:
		out.Percentage = float64(p.CurrentStep) / float64(p.TotalSteps) * 100
	}
	out.Percentage = max(0, min(100, out.Percentage))
	return out
}

func convertImages(result *jobResult, jobID, prompt string) ([]image.GeneratedImage, *aierr.Error) {
	if len(result.Images) == 0 {
		return nil, aierr.New(aierr.KindProtocol, "job %s result contains no images", jobID)
	}
	images := make([]image.GeneratedImage, 0, len(result.Images))
	for i, img := range result.Images {
		if img.Base64 == "" {
			return nil, aierr.New(aierr.KindProtocol, "image %d of job %s has no data", i, jobID)
		}
		data, err := image.DecodeBase64(img.Base64)
		if err != nil {
			return nil, aierr.Wrap(aierr.KindProtocol, err, "image %d of job %s has invalid base64 data", i, jobID)
		}
		mimeType := img.MimeType
		if mimeType == "" {
			mimeType = image.DefaultMimeType
		}
		images = append(images, image.GeneratedImage{
			Index:    i,
			MimeType: mimeType,
			Data:     data,
			B64JSON:  img.Base64,
			Seed:     img.Seed,
			Prompt:   prompt,
			Metadata: map[string]any{"job_id": jobID},
		})
	}
	return images, nil
}
