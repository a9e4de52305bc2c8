package client

import (
	"context"
	"errors"
	"maps"
	"unicode/utf8"

	"github.com/leofalp/genailite/core/aierr"
	"github.com/leofalp/genailite/core/catalog"
	"github.com/leofalp/genailite/core/messages"
	"github.com/leofalp/genailite/core/template"
	"github.com/leofalp/genailite/core/thinking"
	"github.com/leofalp/genailite/core/tokens"
	"github.com/leofalp/genailite/providers/ai"
	"github.com/leofalp/genailite/providers/image"
	"github.com/leofalp/genailite/providers/image/diffusion"
	imageopenai "github.com/leofalp/genailite/providers/image/openai"
	"github.com/leofalp/genailite/providers/keys"
	"github.com/leofalp/genailite/providers/observability"
)

// Client wires the catalog, key source and providers together.
type Client struct {
	resolver catalog.Resolver
	keys     keys.Source
	images   map[string]image.Provider
	chat     map[string]ai.Provider
	observer observability.Provider
	tokens   *tokens.Cache

	middlewares   []MiddlewareConfig
	sendChains    map[string]SendFunc
	generateChain GenerateFunc
}

// Option configures a Client.
type Option func(*Client)

// WithCatalog replaces the embedded default catalog.
func WithCatalog(resolver catalog.Resolver) Option {
	return func(c *Client) { c.resolver = resolver }
}

// WithKeySource replaces the default environment key source.
func WithKeySource(source keys.Source) Option {
	return func(c *Client) { c.keys = source }
}

// WithImageProvider registers an image adapter under its ID, replacing a
// built-in adapter with the same id.
func WithImageProvider(p image.Provider) Option {
	return func(c *Client) { c.images[p.ID()] = p }
}

// WithChatProvider registers a chat provider under its ID. Complete sends
// to the provider the resolved model belongs to.
func WithChatProvider(p ai.Provider) Option {
	return func(c *Client) { c.chat[p.ID()] = p }
}

// WithObserver enables tracing and logging of every operation.
func WithObserver(observer observability.Provider) Option {
	return func(c *Client) { c.observer = observer }
}

// WithTokenCache shares a tokenizer cache between clients.
func WithTokenCache(cache *tokens.Cache) Option {
	return func(c *Client) { c.tokens = cache }
}

// WithMiddleware appends middlewares to the send and generate chains.
func WithMiddleware(middlewares ...MiddlewareConfig) Option {
	return func(c *Client) { c.middlewares = append(c.middlewares, middlewares...) }
}

// New creates a Client. Without options it uses the embedded catalog,
// reads keys from <PROVIDER>_API_KEY variables and registers the OpenAI
// and diffusion image adapters. The chat provider, when given, receives
// the key the key source holds for its id.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		images: map[string]image.Provider{},
		chat:   map[string]ai.Provider{},
	}
	for _, p := range []image.Provider{imageopenai.New(), diffusion.New()} {
		c.images[p.ID()] = p
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.resolver == nil {
		c.resolver = catalog.Default()
	}
	if c.keys == nil {
		env, err := keys.NewEnvSource()
		if err != nil {
			return nil, err
		}
		c.keys = env
	}
	if c.tokens == nil {
		c.tokens = tokens.NewCache()
	}
	for id, p := range c.chat {
		if key, ok := c.keys.Lookup(id); ok {
			c.chat[id] = p.WithAPIKey(key)
		}
	}

	for i, m := range c.middlewares {
		if m.Send == nil && m.Generate == nil {
			return nil, aierr.New(aierr.KindConfiguration, "middleware %d has neither a send nor a generate function", i)
		}
	}
	chain := c.middlewares
	if c.observer != nil {
		chain = append([]MiddlewareConfig{NewObservabilityMiddleware(c.observer)}, chain...)
	}
	c.sendChains = make(map[string]SendFunc, len(c.chat))
	for id, p := range c.chat {
		c.sendChains[id] = buildSendChain(p, chain)
	}
	c.generateChain = buildGenerateChain(c.images, chain)
	return c, nil
}

// TokenCache returns the tokenizer cache owned by the client.
func (c *Client) TokenCache() *tokens.Cache { return c.tokens }

// CountTokens counts the tokens of text for model. Unknown models fall
// back to an estimate.
func (c *Client) CountTokens(text, model string) int {
	return c.tokens.Count(text, model)
}

// CreateMessages compiles a template into messages, see
// messages.CreateMessages.
func (c *Client) CreateMessages(ctx context.Context, opts messages.Options) (*messages.Result, error) {
	if c.observer == nil {
		return messages.CreateMessages(ctx, c.resolver, opts)
	}

	ctx, span := startSpan(ctx, c.observer, observability.SpanCreateMessages,
		observability.Int(observability.AttrTemplateLength, len(opts.Template)),
	)
	defer span.End()
	if opts.PresetID != "" {
		span.SetAttributes(observability.String(observability.AttrLLMPreset, opts.PresetID))
	}

	result, err := messages.CreateMessages(ctx, c.resolver, opts)
	if err != nil {
		recordFailure(ctx, c.observer, span, "create messages failed", err)
		return nil, err
	}

	span.SetAttributes(observability.Int(observability.AttrMessagesCount, len(result.Messages)))
	if mc := result.ModelContext; mc != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, mc.ProviderID),
			observability.String(observability.AttrLLMModel, mc.ModelID),
			observability.Bool(observability.AttrThinkingEnabled, mc.ThinkingEnabled),
		)
	}
	span.SetStatus(observability.StatusOK, "success")
	return result, nil
}

// Completion is the outcome of Complete.
type Completion struct {
	*messages.Result
	// Response has any leading thinking block moved into Reasoning.
	Response *ai.ChatResponse
}

// Complete compiles opts, sends the messages to the chat provider of the
// resolved model and separates reasoning from the answer. The model sent
// is the resolved model id, with the preset's reasoning effort. Without a
// selected model the only registered chat provider is used.
func (c *Client) Complete(ctx context.Context, opts messages.Options, thinkingOpts thinking.Options) (*Completion, error) {
	if len(c.chat) == 0 {
		return nil, aierr.New(aierr.KindConfiguration, "no chat provider configured")
	}

	if c.observer != nil {
		var span observability.Span
		ctx, span = startSpan(ctx, c.observer, observability.SpanComplete)
		defer span.End()

		completion, err := c.complete(ctx, opts, thinkingOpts)
		if err != nil {
			recordFailure(ctx, c.observer, span, "completion failed", err)
			return nil, err
		}
		span.SetStatus(observability.StatusOK, "success")
		return completion, nil
	}
	return c.complete(ctx, opts, thinkingOpts)
}

func (c *Client) complete(ctx context.Context, opts messages.Options, thinkingOpts thinking.Options) (*Completion, error) {
	result, err := c.CreateMessages(ctx, opts)
	if err != nil {
		return nil, err
	}

	send, providerID, err := c.chatChain(result.ModelContext)
	if err != nil {
		return nil, err
	}
	if span := observability.SpanFromContext(ctx); span != nil && c.observer != nil {
		span.SetAttributes(observability.String(observability.AttrLLMProvider, providerID))
	}

	request := ai.ChatRequest{Messages: result.Messages}
	if mc := result.ModelContext; mc != nil {
		request.Model = mc.ModelID
		if mc.ReasoningEffort != "" {
			request.GenerationConfig = &ai.GenerationConfig{ReasoningEffort: string(mc.ReasoningEffort)}
		}
	}

	response, err := send(ctx, request)
	if err != nil {
		return nil, err
	}
	return &Completion{Result: result, Response: thinking.Process(response, thinkingOpts)}, nil
}

// chatChain picks the send chain of the provider mc resolved to.
func (c *Client) chatChain(mc *catalog.ModelContext) (SendFunc, string, error) {
	if mc == nil {
		if len(c.sendChains) != 1 {
			return nil, "", aierr.New(aierr.KindConfiguration, "no model selected and %d chat providers registered", len(c.sendChains))
		}
		for id, send := range c.sendChains {
			return send, id, nil
		}
	}
	send, ok := c.sendChains[mc.ProviderID]
	if !ok {
		return nil, "", aierr.New(aierr.KindConfiguration, "no chat provider registered for %q", mc.ProviderID).
			WithProvider(mc.ProviderID, mc.ModelID)
	}
	return send, mc.ProviderID, nil
}

// GenerateOption configures a single Generate call.
type GenerateOption func(*generateOptions)

type generateOptions struct {
	presetID     string
	variables    template.Variables
	randomSource string
	randomMax    int
	onProgress   image.ProgressFunc
}

// WithPreset applies an image preset. Its provider and model fill empty
// request fields and its settings sit between the defaults and the
// request's own settings.
func WithPreset(id string) GenerateOption {
	return func(o *generateOptions) { o.presetID = id }
}

// WithPromptVariables renders {{name}} expressions in the prompt. Without
// variables the prompt is sent verbatim.
func WithPromptVariables(vars template.Variables) GenerateOption {
	return func(o *generateOptions) {
		if o.variables == nil {
			o.variables = template.Variables{}
		}
		maps.Copy(o.variables, vars)
	}
}

// WithRandomVariables adds one randomly chosen value of every
// <RANDOM_NAME> block in content as a prompt variable. Explicit prompt
// variables win over random ones. maxPerTag <= 0 considers every block.
func WithRandomVariables(content string, maxPerTag int) GenerateOption {
	return func(o *generateOptions) {
		o.randomSource = content
		o.randomMax = maxPerTag
	}
}

// WithProgress receives progress reports from asynchronous adapters.
func WithProgress(fn image.ProgressFunc) GenerateOption {
	return func(o *generateOptions) { o.onProgress = fn }
}

// Generate validates req, resolves its settings and prompt, looks up the
// API key of its provider and dispatches it to the registered adapter.
//
// Errors are *aierr.Error values carrying the provider and model ids.
// Context cancellation is returned as the context's error.
func (c *Client) Generate(ctx context.Context, req image.Request, opts ...GenerateOption) (*image.Response, error) {
	var o generateOptions
	for _, opt := range opts {
		opt(&o)
	}

	var presetSettings *image.Settings
	if o.presetID != "" {
		ps, err := c.resolveImagePreset(ctx, o.presetID, req)
		if err != nil {
			return nil, err
		}
		req.ProviderID, req.ModelID = ps.Provider, ps.Model
		presetSettings = ps.ImageSettings
	}

	if err := req.Validate(); err != nil {
		return nil, aierr.Enrich(err, req.ProviderID, req.ModelID)
	}
	provider, ok := c.images[req.ProviderID]
	if !ok {
		return nil, aierr.New(aierr.KindConfiguration, "no image provider registered for %q", req.ProviderID).
			WithProvider(req.ProviderID, req.ModelID)
	}
	if req.ModelID == "" {
		req.ModelID = provider.DefaultModelID()
	}

	params := image.GenerateParams{
		Request:    req,
		Settings:   image.ResolveSettings(&image.DefaultSettings, presetSettings, req.Settings),
		OnProgress: o.onProgress,
	}
	if vars := o.promptVariables(); vars != nil {
		params.ResolvedPrompt = template.Render(req.Prompt, vars)
	}
	if err := c.checkModelLimits(ctx, params); err != nil {
		return nil, err
	}
	if key, ok := c.keys.Lookup(req.ProviderID); ok {
		params.APIKey = key
	}

	response, err := c.generateChain(ctx, params)
	if err != nil {
		return nil, aierr.Enrich(err, req.ProviderID, req.ModelID)
	}
	return response, nil
}

func (o generateOptions) promptVariables() template.Variables {
	if o.variables == nil && o.randomSource == "" {
		return nil
	}
	vars := template.Variables{}
	if o.randomSource != "" {
		for name, value := range tokens.ExtractRandomVariables(o.randomSource, o.randomMax) {
			vars[name] = value
		}
	}
	maps.Copy(vars, o.variables)
	return vars
}

// checkModelLimits enforces the prompt and batch limits the catalog
// records for the target model. Models the catalog does not know are left
// to their adapter.
func (c *Client) checkModelLimits(ctx context.Context, params image.GenerateParams) error {
	req := params.Request
	res, err := c.resolver.Resolve(ctx, catalog.Selector{ProviderID: req.ProviderID, ModelID: req.ModelID})
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return nil
	}

	m := res.Model
	if n := utf8.RuneCountInString(params.Prompt()); m.MaxPromptChars > 0 && n > m.MaxPromptChars {
		return aierr.New(aierr.KindValidation, "prompt is %d characters, model %s allows at most %d", n, m.ID, m.MaxPromptChars).
			WithProvider(req.ProviderID, req.ModelID)
	}
	if n := req.ImageCount(); m.MaxImagesPerCall > 0 && n > m.MaxImagesPerCall {
		return aierr.New(aierr.KindValidation, "model %s supports at most %d image(s) per call, got %d", m.ID, m.MaxImagesPerCall, n).
			WithProvider(req.ProviderID, req.ModelID)
	}
	return nil
}

func (c *Client) resolveImagePreset(ctx context.Context, presetID string, req image.Request) (*catalog.Preset, error) {
	res, err := c.resolver.Resolve(ctx, catalog.Selector{
		PresetID:   presetID,
		ProviderID: req.ProviderID,
		ModelID:    req.ModelID,
	})
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	case errors.Is(err, catalog.ErrConflictingSelector):
		return nil, aierr.Wrap(aierr.KindConfiguration, err, "preset %q does not match the request", presetID)
	default:
		return nil, aierr.Wrap(aierr.KindResolution, err, "cannot resolve preset %q", presetID)
	}
	if res.Model.Kind != catalog.KindImage {
		return nil, aierr.New(aierr.KindConfiguration, "preset %q selects %s model %q, not an image model",
			presetID, res.Model.Kind, res.Model.ID)
	}
	return res.Preset, nil
}
