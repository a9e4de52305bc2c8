package image

import (
	"fmt"
	"time"
)

// Settings holds the universal generation settings plus one namespace per
// provider family. Zero values mean "not set".
type Settings struct {
	Width          int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height         int    `json:"height,omitempty" yaml:"height,omitempty"`
	Quality        string `json:"quality,omitempty" yaml:"quality,omitempty"`
	Style          string `json:"style,omitempty" yaml:"style,omitempty"`
	ResponseFormat string `json:"response_format,omitempty" yaml:"response_format,omitempty"`

	OpenAI    OpenAISettings    `json:"openai,omitempty" yaml:"openai,omitempty"`
	Diffusion DiffusionSettings `json:"diffusion,omitempty" yaml:"diffusion,omitempty"`
}

// OpenAISettings are the OpenAI image API specific fields.
type OpenAISettings struct {
	Background   string `json:"background,omitempty" yaml:"background,omitempty"`
	OutputFormat string `json:"output_format,omitempty" yaml:"output_format,omitempty"`
	Moderation   string `json:"moderation,omitempty" yaml:"moderation,omitempty"`
	User         string `json:"user,omitempty" yaml:"user,omitempty"`
}

// DiffusionSettings are the local diffusion server specific fields.
type DiffusionSettings struct {
	Steps          int     `json:"steps,omitempty" yaml:"steps,omitempty"`
	CFGScale       float64 `json:"cfg_scale,omitempty" yaml:"cfg_scale,omitempty"`
	Sampler        string  `json:"sampler,omitempty" yaml:"sampler,omitempty"`
	Seed           *int64  `json:"seed,omitempty" yaml:"seed,omitempty"`
	NegativePrompt string  `json:"negative_prompt,omitempty" yaml:"negative_prompt,omitempty"`

	PollInterval time.Duration `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultSettings is the base layer of every resolution.
var DefaultSettings = Settings{
	Width:          1024,
	Height:         1024,
	ResponseFormat: "b64_json",
}

// ResolveSettings merges layers from lowest to highest priority, typically
// defaults, preset and request. A non-zero field of a later layer wins.
// Nil layers are skipped. The result shares nothing with its inputs.
func ResolveSettings(layers ...*Settings) Settings {
	var out Settings
	for _, l := range layers {
		if l == nil {
			continue
		}
		out.Width = pick(out.Width, l.Width)
		out.Height = pick(out.Height, l.Height)
		out.Quality = pick(out.Quality, l.Quality)
		out.Style = pick(out.Style, l.Style)
		out.ResponseFormat = pick(out.ResponseFormat, l.ResponseFormat)

		out.OpenAI.Background = pick(out.OpenAI.Background, l.OpenAI.Background)
		out.OpenAI.OutputFormat = pick(out.OpenAI.OutputFormat, l.OpenAI.OutputFormat)
		out.OpenAI.Moderation = pick(out.OpenAI.Moderation, l.OpenAI.Moderation)
		out.OpenAI.User = pick(out.OpenAI.User, l.OpenAI.User)

		d := &out.Diffusion
		d.Steps = pick(d.Steps, l.Diffusion.Steps)
		d.CFGScale = pick(d.CFGScale, l.Diffusion.CFGScale)
		d.Sampler = pick(d.Sampler, l.Diffusion.Sampler)
		d.NegativePrompt = pick(d.NegativePrompt, l.Diffusion.NegativePrompt)
		d.PollInterval = pick(d.PollInterval, l.Diffusion.PollInterval)
		d.Timeout = pick(d.Timeout, l.Diffusion.Timeout)
		if l.Diffusion.Seed != nil {
			seed := *l.Diffusion.Seed
			d.Seed = &seed
		}
	}
	return out
}

func pick[T comparable](current, next T) T {
	var zero T
	if next != zero {
		return next
	}
	return current
}

// Size formats the dimensions as "WxH", or "" when either is unset.
func (s Settings) Size() string {
	if s.Width <= 0 || s.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
