package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
)

const speechPromptFormat = "Say clearly: %s"
const audioModality = "AUDIO"

type SpeechModel struct {
	generator contentGenerator
	model     string
	voice     string
}

func NewSpeechModel(client *genai.Client, config *common.Config) *SpeechModel {
	return newSpeechModel(client.Models, config)
}

func newSpeechModel(generator contentGenerator, config *common.Config) *SpeechModel {
	return &SpeechModel{
		generator: generator,
		model:     config.GetStringOrDefault(ConfigKeySpeechModel, DefaultSpeechModel),
		voice:     config.GetStringOrDefault(ConfigKeyVoice, DefaultVoice),
	}
}

func (s *SpeechModel) Name() string {
	return s.model
}

func (s *SpeechModel) GenerateSpeech(ctx context.Context, text string) (*domain.Audio, error) {
	contents, config := buildSpeechRequest(text, s.voice)
	response, err := s.generator.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini speech: %w", err)
	}
	for _, part := range firstCandidateParts(response) {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		if !strings.HasPrefix(part.InlineData.MIMEType, "audio/") {
			continue
		}
		return &domain.Audio{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data}, nil
	}
	return nil, nil
}

func buildSpeechRequest(text, voice string) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := []*genai.Content{{
		Role:  string(genai.RoleUser),
		Parts: []*genai.Part{{Text: fmt.Sprintf(speechPromptFormat, text)}},
	}}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{audioModality},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}
	return contents, config
}
