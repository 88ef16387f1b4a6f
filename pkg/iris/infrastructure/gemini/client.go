package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"kgeyst.com/iris/pkg/common"
)

const (
	ConfigKeyAPIKey      = "geminiAPIKey"
	ConfigKeyVisionModel = "visionModel"
	ConfigKeySpeechModel = "speechModel"
	ConfigKeyVoice       = "voice"

	DefaultVisionModel = "gemini-2.5-flash"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Kore"
)

// contentGenerator is the subset of genai.Models used here. Tests substitute it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewClient creates a Gemini API client. The API key is taken from the config or, if absent, from
// GEMINI_API_KEY / GOOGLE_API_KEY.
func NewClient(ctx context.Context, config *common.Config) (*genai.Client, error) {
	apiKey := config.GetSecret(ConfigKeyAPIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY or GOOGLE_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return client, nil
}

func firstCandidateParts(response *genai.GenerateContentResponse) []*genai.Part {
	if response == nil || len(response.Candidates) == 0 {
		return nil
	}
	candidate := response.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return nil
	}
	return candidate.Content.Parts
}
