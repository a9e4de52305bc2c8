package observability

import (
	"errors"
	"testing"
	"time"
)

func TestAttributeConstructors(t *testing.T) {
	tests := []struct {
		name  string
		attr  Attribute
		key   string
		value any
	}{
		{"string", String(AttrLLMProvider, "diffusion"), AttrLLMProvider, "diffusion"},
		{"int", Int(AttrImageCount, 4), AttrImageCount, 4},
		{"float64", Float64(AttrImageProgressPercentage, 42.5), AttrImageProgressPercentage, 42.5},
		{"bool", Bool(AttrThinkingEnabled, true), AttrThinkingEnabled, true},
		{"duration", Duration(AttrDuration, 500*time.Millisecond), AttrDuration, 500 * time.Millisecond},
		{"error", Error(errors.New("boom")), AttrError, "boom"},
		{"nil error", Error(nil), AttrError, ""},
		{"zero int", Int("key", 0), "key", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.attr.Key, tt.key)
			}
			if tt.attr.Value != tt.value {
				t.Errorf("Value = %v (%T), want %v (%T)", tt.attr.Value, tt.attr.Value, tt.value, tt.value)
			}
		})
	}
}

func TestStatusCode_Values(t *testing.T) {
	if StatusUnset != 0 || StatusOK != 1 || StatusError != 2 {
		t.Errorf("unexpected status codes: unset=%d ok=%d error=%d", StatusUnset, StatusOK, StatusError)
	}
}

func BenchmarkAttribute_String(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = String("key", "value")
	}
}

func BenchmarkAttribute_Error(b *testing.B) {
	err := errors.New("test error")
	for i := 0; i < b.N; i++ {
		_ = Error(err)
	}
}
