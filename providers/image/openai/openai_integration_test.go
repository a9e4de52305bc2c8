//go:build integration

package openai

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/leofalp/genailite/providers/image"
)

// integrationModel returns the model to use for integration tests. It reads
// OPENAI_IMAGE_TEST_MODEL first, falling back to dall-e-2 as the cheapest.
func integrationModel() string {
	if model := os.Getenv("OPENAI_IMAGE_TEST_MODEL"); model != "" {
		return model
	}
	return "dall-e-2"
}

func TestIntegration_Generate_SmallImage(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	settings := image.DefaultSettings
	settings.Width, settings.Height = 256, 256

	resp, err := New().Generate(ctx, image.GenerateParams{
		Request:  image.Request{ProviderID: providerID, ModelID: integrationModel(), Prompt: "a single blue circle on white", Count: 1},
		Settings: settings,
		APIKey:   apiKey,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(resp.Images) != 1 {
		t.Fatalf("got %d images, want 1", len(resp.Images))
	}
	if len(resp.Images[0].Data) == 0 || resp.Images[0].MimeType == "" {
		t.Errorf("image not normalized: mime=%q bytes=%d", resp.Images[0].MimeType, len(resp.Images[0].Data))
	}
}
