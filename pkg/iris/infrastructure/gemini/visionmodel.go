package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
)

const systemInstructionFormat = "You are a helpful assistant that can see images and chat about them. Always answer in %s, " +
	"whatever language the question is asked in."
const imageInstruction = " An image is attached to the latest message: analyze it thoroughly, paying attention to " +
	"objects, people, text, colors and context, and base your answer on what you actually see."

type VisionModel struct {
	generator contentGenerator
	model     string
}

func NewVisionModel(client *genai.Client, config *common.Config) *VisionModel {
	return newVisionModel(client.Models, config)
}

func newVisionModel(generator contentGenerator, config *common.Config) *VisionModel {
	return &VisionModel{
		generator: generator,
		model:     config.GetStringOrDefault(ConfigKeyVisionModel, DefaultVisionModel),
	}
}

func (v *VisionModel) Name() string {
	return v.model
}

func (v *VisionModel) DescribeImage(ctx context.Context, image *domain.Image, prompt string, history []domain.Message, language string) (string, error) {
	contents, config := buildDescribeRequest(image, prompt, history, language)
	response, err := v.generator.GenerateContent(ctx, v.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	var builder strings.Builder
	for _, part := range firstCandidateParts(response) {
		if part == nil || part.Thought {
			continue
		}
		builder.WriteString(part.Text)
	}
	return builder.String(), nil
}

func buildDescribeRequest(image *domain.Image, prompt string, history []domain.Message, language string) ([]*genai.Content, *genai.GenerateContentConfig) {
	instruction := fmt.Sprintf(systemInstructionFormat, language)
	if image != nil {
		instruction += imageInstruction
	}
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, message := range history {
		contents = append(contents, &genai.Content{
			Role:  toGeminiRole(message.Role),
			Parts: []*genai.Part{{Text: message.Text}},
		})
	}
	var parts []*genai.Part
	if image != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: image.MIMEType, Data: image.Data},
		})
	}
	parts = append(parts, &genai.Part{Text: prompt})
	contents = append(contents, &genai.Content{Role: string(genai.RoleUser), Parts: parts})
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
	}
	return contents, config
}

func toGeminiRole(role domain.Role) string {
	if role == domain.RoleModel {
		return string(genai.RoleModel)
	}
	return string(genai.RoleUser)
}
