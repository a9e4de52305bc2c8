package catalog

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("catalog: not found")
	ErrConflictingSelector = errors.New("catalog: preset conflicts with explicit provider/model")
	ErrIncompleteSelector  = errors.New("catalog: provider and model must be given together")
)

// Selector names what to resolve: a preset, or a provider and model pair.
// Explicit ids given next to a preset must agree with it.
type Selector struct {
	PresetID   string
	ProviderID string
	ModelID    string
}

// Empty reports whether the selector names nothing.
func (s Selector) Empty() bool {
	return s.PresetID == "" && s.ProviderID == "" && s.ModelID == ""
}

// Resolver resolves selectors to model capabilities.
type Resolver interface {
	Resolve(ctx context.Context, sel Selector) (Resolution, error)
}

// Resolution is the outcome of resolving a selector. Preset is nil when
// the selector named a provider and model directly.
type Resolution struct {
	Provider *Provider
	Model    *Model
	Preset   *Preset
}

// Resolve implements [Resolver]. Unknown ids wrap [ErrNotFound]; a preset
// whose provider or model differs from explicit ids wraps
// [ErrConflictingSelector]; a provider without a model, or the reverse,
// wraps [ErrIncompleteSelector].
func (c *Catalog) Resolve(ctx context.Context, sel Selector) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}

	providerID, modelID := sel.ProviderID, sel.ModelID
	var preset *Preset

	if sel.PresetID != "" {
		ps, ok := c.Preset(sel.PresetID)
		if !ok {
			return Resolution{}, fmt.Errorf("%w: preset %q", ErrNotFound, sel.PresetID)
		}
		if (providerID != "" && providerID != ps.Provider) || (modelID != "" && modelID != ps.Model) {
			return Resolution{}, fmt.Errorf("%w: preset %q is %s/%s, got %s/%s",
				ErrConflictingSelector, ps.ID, ps.Provider, ps.Model, providerID, modelID)
		}
		preset = ps
		providerID, modelID = ps.Provider, ps.Model
	} else if (providerID == "") != (modelID == "") {
		return Resolution{}, fmt.Errorf("%w: provider %q, model %q", ErrIncompleteSelector, providerID, modelID)
	}

	p, ok := c.Provider(providerID)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: provider %q", ErrNotFound, providerID)
	}
	m, ok := p.models[modelID]
	if !ok {
		return Resolution{}, fmt.Errorf("%w: model %q of provider %q", ErrNotFound, modelID, providerID)
	}
	return Resolution{Provider: p, Model: m, Preset: preset}, nil
}

// ModelContext is the capability snapshot of a resolution, computed fresh
// for every compile.
type ModelContext struct {
	ModelID            string
	ProviderID         string
	ThinkingEnabled    bool
	ThinkingAvailable  bool
	ReasoningEffort    ReasoningEffort
	ReasoningMaxTokens *int
}

// ModelContext derives the capability snapshot.
//
// Thinking is available when the model reasons natively or supports
// thinking tags. It is enabled by default only for tag-based models, since
// native reasoners need no prompting; a preset may switch it on or off but
// never enables it on a model without the capability. Reasoning settings
// are only carried for models that reason natively.
func (r Resolution) ModelContext() *ModelContext {
	if r.Model == nil || r.Provider == nil {
		return nil
	}
	mc := &ModelContext{
		ModelID:           r.Model.ID,
		ProviderID:        r.Provider.ID,
		ThinkingAvailable: r.Model.Reasoning || r.Model.ThinkingTags,
		ThinkingEnabled:   r.Model.ThinkingTags && !r.Model.Reasoning,
	}
	if ps := r.Preset; ps != nil {
		if ps.Thinking != nil {
			mc.ThinkingEnabled = *ps.Thinking && mc.ThinkingAvailable
		}
		if r.Model.Reasoning {
			mc.ReasoningEffort = ps.ReasoningEffort
			if ps.ReasoningMaxTokens != nil {
				n := *ps.ReasoningMaxTokens
				mc.ReasoningMaxTokens = &n
			}
		}
	}
	return mc
}

// Variables exposes the context to templates. Optional reasoning values
// are omitted when unset.
func (mc *ModelContext) Variables() map[string]any {
	if mc == nil {
		return map[string]any{}
	}
	vars := map[string]any{
		"model_id":           mc.ModelID,
		"provider_id":        mc.ProviderID,
		"thinking_enabled":   mc.ThinkingEnabled,
		"thinking_available": mc.ThinkingAvailable,
	}
	if mc.ReasoningEffort != "" {
		vars["reasoning_effort"] = string(mc.ReasoningEffort)
	}
	if mc.ReasoningMaxTokens != nil {
		vars["reasoning_max_tokens"] = *mc.ReasoningMaxTokens
	}
	return vars
}
