package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestResolve_ProviderAndModel(t *testing.T) {
	c := mustParse(t, testYAML)
	res, err := c.Resolve(context.Background(), Selector{ProviderID: "acme", ModelID: "tagger"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Preset != nil {
		t.Error("expected no preset")
	}
	mc := res.ModelContext()
	if mc.ModelID != "tagger" || mc.ProviderID != "acme" {
		t.Errorf("ids = %s/%s", mc.ProviderID, mc.ModelID)
	}
	if !mc.ThinkingAvailable || !mc.ThinkingEnabled {
		t.Errorf("tagger thinking available/enabled = %v/%v, want true/true", mc.ThinkingAvailable, mc.ThinkingEnabled)
	}
}

func TestResolve_Errors(t *testing.T) {
	c := mustParse(t, testYAML)
	tests := []struct {
		name string
		sel  Selector
		want error
	}{
		{"unknown preset", Selector{PresetID: "nope"}, ErrNotFound},
		{"unknown provider", Selector{ProviderID: "nope", ModelID: "plain"}, ErrNotFound},
		{"unknown model", Selector{ProviderID: "acme", ModelID: "nope"}, ErrNotFound},
		{"provider only", Selector{ProviderID: "acme"}, ErrIncompleteSelector},
		{"model only", Selector{ModelID: "plain"}, ErrIncompleteSelector},
		{"preset conflicts model", Selector{PresetID: "think-hard", ProviderID: "acme", ModelID: "plain"}, ErrConflictingSelector},
		{"preset conflicts provider", Selector{PresetID: "think-hard", ProviderID: "other"}, ErrConflictingSelector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Resolve(context.Background(), tt.sel)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestResolve_PresetWithMatchingIDs(t *testing.T) {
	c := mustParse(t, testYAML)
	res, err := c.Resolve(context.Background(), Selector{PresetID: "think-hard", ProviderID: "acme", ModelID: "reasoner"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Preset == nil || res.Preset.ID != "think-hard" {
		t.Errorf("preset = %+v", res.Preset)
	}
}

func TestResolve_CanceledContext(t *testing.T) {
	c := mustParse(t, testYAML)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Resolve(ctx, Selector{PresetID: "think-hard"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestModelContext_Rules(t *testing.T) {
	c := mustParse(t, testYAML)
	tests := []struct {
		name          string
		sel           Selector
		wantAvailable bool
		wantEnabled   bool
		wantEffort    ReasoningEffort
		wantMaxTokens int
	}{
		{"plain model", Selector{ProviderID: "acme", ModelID: "plain"}, false, false, "", 0},
		{"native reasoner", Selector{ProviderID: "acme", ModelID: "reasoner"}, true, false, "", 0},
		{"reasoning preset", Selector{PresetID: "think-hard"}, true, false, ReasoningHigh, 2048},
		{"preset disables tags", Selector{PresetID: "quiet-tagger"}, true, false, "", 0},
		{"preset cannot enable missing capability", Selector{PresetID: "forced-plain"}, false, false, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.Resolve(context.Background(), tt.sel)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			mc := res.ModelContext()
			if mc.ThinkingAvailable != tt.wantAvailable || mc.ThinkingEnabled != tt.wantEnabled {
				t.Errorf("available/enabled = %v/%v, want %v/%v", mc.ThinkingAvailable, mc.ThinkingEnabled, tt.wantAvailable, tt.wantEnabled)
			}
			if mc.ReasoningEffort != tt.wantEffort {
				t.Errorf("effort = %q, want %q", mc.ReasoningEffort, tt.wantEffort)
			}
			got := 0
			if mc.ReasoningMaxTokens != nil {
				got = *mc.ReasoningMaxTokens
			}
			if got != tt.wantMaxTokens {
				t.Errorf("max tokens = %d, want %d", got, tt.wantMaxTokens)
			}
		})
	}
}

func TestModelContext_Variables(t *testing.T) {
	c := mustParse(t, testYAML)

	res, _ := c.Resolve(context.Background(), Selector{PresetID: "think-hard"})
	vars := res.ModelContext().Variables()
	want := map[string]any{
		"model_id":             "reasoner",
		"provider_id":          "acme",
		"thinking_enabled":     false,
		"thinking_available":   true,
		"reasoning_effort":     "high",
		"reasoning_max_tokens": 2048,
	}
	if len(vars) != len(want) {
		t.Errorf("vars = %v, want %v", vars, want)
	}
	for k, v := range want {
		if vars[k] != v {
			t.Errorf("%s = %v, want %v", k, vars[k], v)
		}
	}

	res, _ = c.Resolve(context.Background(), Selector{ProviderID: "acme", ModelID: "plain"})
	vars = res.ModelContext().Variables()
	if _, ok := vars["reasoning_effort"]; ok {
		t.Error("reasoning_effort should be omitted when unset")
	}
	if _, ok := vars["reasoning_max_tokens"]; ok {
		t.Error("reasoning_max_tokens should be omitted when unset")
	}

	var nilCtx *ModelContext
	if len(nilCtx.Variables()) != 0 {
		t.Error("nil context should have no variables")
	}
}
