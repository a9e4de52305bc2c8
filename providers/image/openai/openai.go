package openai

import (
	"context"
	"net/http"
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
	providerID          = "openai"
	defaultBaseURL      = "https://api.openai.com/v1"
	defaultModel        = "dall-e-3"
	generationsEndpoint = "/images/generations"

	keyPrefix    = "sk-"
	minKeyLength = 20
)

// Provider implements image.Provider for the OpenAI Images API.
type Provider struct {
	baseURL string
	client  *http.Client
}

var _ image.Provider = (*Provider)(nil)

// New creates an adapter. OPENAI_API_BASE_URL overrides the default
// endpoint. The API key is passed per call in image.GenerateParams.
func New() *Provider {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

// WithBaseURL sets the API base URL.
func (p *Provider) WithBaseURL(baseURL string) *Provider {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

// WithHttpClient sets the HTTP client used for generation and downloads.
func (p *Provider) WithHttpClient(client *http.Client) *Provider {
	p.client = client
	return p
}

func (p *Provider) ID() string { return providerID }

func (p *Provider) DefaultModelID() string { return defaultModel }

func (p *Provider) Capabilities() image.Capabilities {
	return image.Capabilities{
		SupportsMultipleImages: true,
		SupportsB64JSON:        true,
		SupportsHostedURLs:     true,
	}
}

// Generate implements image.Provider.
func (p *Provider) Generate(ctx context.Context, params image.GenerateParams) (*image.Response, error) {
	model := params.Request.ModelID
	if model == "" {
		model = defaultModel
	}
	fail := func(err *aierr.Error) (*image.Response, error) {
		return nil, err.WithProvider(providerID, model)
	}

	if err := validateKey(params.APIKey); err != nil {
		return fail(err)
	}
	limits, ok := knownModels[model]
	if !ok {
		return fail(aierr.New(aierr.KindValidation, "unsupported image model %q", model))
	}
	prompt := params.Prompt()
	if strings.TrimSpace(prompt) == "" {
		return fail(aierr.New(aierr.KindValidation, "prompt is required"))
	}
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

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventImageGenerateStart,
			observability.String(observability.AttrLLMProvider, providerID),
			observability.String(observability.AttrLLMModel, model),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.Int(observability.AttrImageCount, count),
		)
	}

	body := buildRequest(model, prompt, count, params.Settings, limits)
	_, resp, err := utils.DoPostSync[generationResponse](ctx, p.client, p.baseURL+generationsEndpoint, params.APIKey, body)
	if err != nil {
		return nil, aierr.Enrich(utils.MapHTTPError(err, p.baseURL), providerID, model)
	}
	if len(resp.Data) == 0 {
		return fail(aierr.New(aierr.KindProtocol, "response contains no images"))
	}

	outputFormat := resp.OutputFormat
	if outputFormat == "" {
		outputFormat = body.OutputFormat
	}

	images := make([]image.GeneratedImage, 0, len(resp.Data))
	for i, d := range resp.Data {
		img, err := p.normalize(ctx, i, d, outputFormat, prompt)
		if err != nil {
			return fail(err)
		}
		images = append(images, img)
	}

	created := time.Now()
	if resp.Created > 0 {
		created = time.Unix(resp.Created, 0)
	}
	return &image.Response{
		ProviderID: providerID,
		ModelID:    model,
		Created:    created,
		Images:     images,
	}, nil
}

func validateKey(key string) *aierr.Error {
	key = strings.TrimSpace(key)
	if key == "" {
		return aierr.New(aierr.KindConfiguration, "OPENAI_API_KEY is not set")
	}
	if !strings.HasPrefix(key, keyPrefix) || len(key) < minKeyLength {
		return aierr.New(aierr.KindConfiguration, "API key has an invalid format (expected %q prefix and at least %d characters)", keyPrefix, minKeyLength)
	}
	return nil
}

func buildRequest(model, prompt string, count int, s image.Settings, limits modelLimits) generationRequest {
	req := generationRequest{
		Model:   model,
		Prompt:  prompt,
		N:       count,
		Size:    s.Size(),
		Quality: s.Quality,
		User:    s.OpenAI.User,
	}
	if limits.SupportsStyle {
		req.Style = s.Style
	}
	if !limits.B64Only {
		switch s.ResponseFormat {
		case "url", "b64_json":
			req.ResponseFormat = s.ResponseFormat
		default:
			req.ResponseFormat = "b64_json"
		}
	}
	if limits.SupportsOutputOptions {
		req.Background = s.OpenAI.Background
		req.OutputFormat = s.OpenAI.OutputFormat
		req.Moderation = s.OpenAI.Moderation
	}
	return req
}

// normalize turns one response item into image bytes, downloading hosted
// URLs.
func (p *Provider) normalize(ctx context.Context, index int, d imageData, outputFormat, prompt string) (image.GeneratedImage, *aierr.Error) {
	img := image.GeneratedImage{
		Index:   index,
		B64JSON: d.B64JSON,
		URL:     d.URL,
		Prompt:  prompt,
	}
	if d.RevisedPrompt != "" {
		img.Prompt = d.RevisedPrompt
		img.Metadata = map[string]any{"revised_prompt": d.RevisedPrompt, "original_prompt": prompt}
	}

	var fetchedType string
	switch {
	case d.B64JSON != "":
		data, err := image.DecodeBase64(d.B64JSON)
		if err != nil {
			return img, aierr.Wrap(aierr.KindProtocol, err, "image %d has invalid base64 data", index)
		}
		img.Data = data
	case d.URL != "":
		if span := observability.SpanFromContext(ctx); span != nil {
			span.AddEvent(observability.EventImageFetch, observability.String(observability.AttrHTTPURL, d.URL))
		}
		data, contentType, err := utils.FetchBytes(ctx, p.client, d.URL)
		if err != nil {
			return img, aierr.Wrap(aierr.KindImageFetch, err, "failed to fetch image from URL %s", d.URL)
		}
		img.Data = data
		fetchedType = contentType
	default:
		return img, aierr.New(aierr.KindProtocol, "image %d has neither url nor b64_json", index)
	}

	img.MimeType = image.MimeFromFormat(outputFormat)
	if img.MimeType == "" && d.URL != "" {
		img.MimeType = image.MimeFromURL(d.URL)
	}
	if img.MimeType == "" && strings.HasPrefix(fetchedType, "image/") {
		img.MimeType = strings.TrimSpace(strings.SplitN(fetchedType, ";", 2)[0])
	}
	if img.MimeType == "" {
		img.MimeType = image.DefaultMimeType
	}
	return img, nil
}
