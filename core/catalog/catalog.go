package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/leofalp/genailite/providers/image"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyCatalog           = errors.New("catalog: no providers defined")
	ErrEmptyID                = errors.New("catalog: empty id")
	ErrDuplicateProvider      = errors.New("catalog: duplicate provider id")
	ErrDuplicateModel         = errors.New("catalog: duplicate model id")
	ErrDuplicatePreset        = errors.New("catalog: duplicate preset id")
	ErrUnknownPresetModel     = errors.New("catalog: preset references an unknown provider or model")
	ErrInvalidKind            = errors.New("catalog: invalid model kind")
	ErrInvalidReasoningEffort = errors.New("catalog: invalid reasoning effort")
)

// Kind tells chat models from image models.
type Kind string

const (
	KindChat  Kind = "chat"
	KindImage Kind = "image"
)

// ReasoningEffort is the effort hint passed to reasoning models.
type ReasoningEffort string

const (
	ReasoningLow    ReasoningEffort = "low"
	ReasoningMedium ReasoningEffort = "medium"
	ReasoningHigh   ReasoningEffort = "high"
)

// Valid reports whether e is empty or one of the known levels.
func (e ReasoningEffort) Valid() bool {
	switch e {
	case "", ReasoningLow, ReasoningMedium, ReasoningHigh:
		return true
	}
	return false
}

// Catalog is the parsed configuration. It is read-only after Parse.
type Catalog struct {
	Providers []Provider `yaml:"providers"`
	Presets   []Preset   `yaml:"presets"`

	providers map[string]*Provider
	presets   map[string]*Preset
}

// Provider groups the models served by one backend.
type Provider struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	BaseURL string  `yaml:"base_url,omitempty"`
	Models  []Model `yaml:"models"`

	models map[string]*Model
}

// Model describes the capabilities of one model.
type Model struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`

	// Reasoning is set for models that return native reasoning.
	Reasoning bool `yaml:"reasoning"`
	// ThinkingTags is set for models that can be prompted to think inside
	// tags at the start of their answer.
	ThinkingTags bool `yaml:"thinking_tags"`

	ContextWindow    int `yaml:"context_window,omitempty"`
	MaxPromptChars   int `yaml:"max_prompt_chars,omitempty"`
	MaxImagesPerCall int `yaml:"max_images_per_call,omitempty"`
}

// Preset is a named provider, model and settings bundle.
type Preset struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	// Thinking overrides the model's default thinking_enabled value.
	Thinking           *bool           `yaml:"thinking,omitempty"`
	ReasoningEffort    ReasoningEffort `yaml:"reasoning_effort,omitempty"`
	ReasoningMaxTokens *int            `yaml:"reasoning_max_tokens,omitempty"`
	ImageSettings      *image.Settings `yaml:"image_settings,omitempty"`
}

//go:embed default.yaml
var defaultYAML []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded file is
// invalid, which is caught by the package tests.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load reads and validates a YAML catalog file.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%w (file %q)", err, path)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: unmarshal: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// index validates the catalog and builds the lookup maps.
func (c *Catalog) index() error {
	if len(c.Providers) == 0 {
		return ErrEmptyCatalog
	}

	c.providers = make(map[string]*Provider, len(c.Providers))
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.ID == "" {
			return fmt.Errorf("%w: provider #%d", ErrEmptyID, i)
		}
		if _, exists := c.providers[p.ID]; exists {
			return fmt.Errorf("%w %q", ErrDuplicateProvider, p.ID)
		}
		c.providers[p.ID] = p

		p.models = make(map[string]*Model, len(p.Models))
		for j := range p.Models {
			m := &p.Models[j]
			if m.ID == "" {
				return fmt.Errorf("%w: model #%d of provider %q", ErrEmptyID, j, p.ID)
			}
			if _, exists := p.models[m.ID]; exists {
				return fmt.Errorf("%w %q in provider %q", ErrDuplicateModel, m.ID, p.ID)
			}
			if m.Kind == "" {
				m.Kind = KindChat
			}
			if m.Kind != KindChat && m.Kind != KindImage {
				return fmt.Errorf("%w %q for model %q", ErrInvalidKind, m.Kind, m.ID)
			}
			p.models[m.ID] = m
		}
	}

	c.presets = make(map[string]*Preset, len(c.Presets))
	for i := range c.Presets {
		ps := &c.Presets[i]
		if ps.ID == "" {
			return fmt.Errorf("%w: preset #%d", ErrEmptyID, i)
		}
		if _, exists := c.presets[ps.ID]; exists {
			return fmt.Errorf("%w %q", ErrDuplicatePreset, ps.ID)
		}
		if _, ok := c.Model(ps.Provider, ps.Model); !ok {
			return fmt.Errorf("%w: preset %q wants %s/%s", ErrUnknownPresetModel, ps.ID, ps.Provider, ps.Model)
		}
		if !ps.ReasoningEffort.Valid() {
			return fmt.Errorf("%w %q in preset %q", ErrInvalidReasoningEffort, ps.ReasoningEffort, ps.ID)
		}
		c.presets[ps.ID] = ps
	}
	return nil
}

// Provider returns the provider with the given id.
func (c *Catalog) Provider(id string) (*Provider, bool) {
	p, ok := c.providers[id]
	return p, ok
}

// Model returns a model of a provider.
func (c *Catalog) Model(providerID, modelID string) (*Model, bool) {
	p, ok := c.providers[providerID]
	if !ok {
		return nil, false
	}
	m, ok := p.models[modelID]
	return m, ok
}

// Preset returns the preset with the given id.
func (c *Catalog) Preset(id string) (*Preset, bool) {
	ps, ok := c.presets[id]
	return ps, ok
}
