package logging

import (
	"context"
	"time"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
)

const maxLoggedTextLength = 200

type visionModelDecorator struct {
	wrappedVisionModel domain.VisionModel
	logger             common.Logger
}

func NewVisionModelDecorator(wrappedVisionModel domain.VisionModel, logger common.Logger) domain.VisionModel {
	return &visionModelDecorator{
		wrappedVisionModel: wrappedVisionModel,
		logger:             logger,
	}
}

func (v *visionModelDecorator) Name() string {
	return v.wrappedVisionModel.Name()
}

func (v *visionModelDecorator) DescribeImage(ctx context.Context, image *domain.Image, prompt string, history []domain.Message, language string) (string, error) {
	imageSize := 0
	if image != nil {
		imageSize = len(image.Data)
	}
	v.logger.Log("describe image",
		"model", v.Name(),
		"prompt", common.Truncate(prompt, maxLoggedTextLength),
		"history", len(history),
		"imageBytes", imageSize,
		"language", language,
	)
	t := time.Now()
	response, err := v.wrappedVisionModel.DescribeImage(ctx, image, prompt, history, language)
	if err != nil {
		v.logger.Error("describe image failed", "model", v.Name(), "error", err, "tookMs", time.Since(t).Milliseconds())
		return "", err
	}
	v.logger.Log("describe image response",
		"model", v.Name(),
		"response", common.Truncate(response, maxLoggedTextLength),
		"tookMs", time.Since(t).Milliseconds(),
	)
	return response, nil
}

type speechModelDecorator struct {
	wrappedSpeechModel domain.SpeechModel
	logger             common.Logger
}

func NewSpeechModelDecorator(wrappedSpeechModel domain.SpeechModel, logger common.Logger) domain.SpeechModel {
	return &speechModelDecorator{
		wrappedSpeechModel: wrappedSpeechModel,
		logger:             logger,
	}
}

func (s *speechModelDecorator) Name() string {
	return s.wrappedSpeechModel.Name()
}

func (s *speechModelDecorator) GenerateSpeech(ctx context.Context, text string) (*domain.Audio, error) {
	s.logger.Log("generate speech", "model", s.Name(), "chars", len([]rune(text)))
	t := time.Now()
	audio, err := s.wrappedSpeechModel.GenerateSpeech(ctx, text)
	if err != nil {
		s.logger.Error("generate speech failed", "model", s.Name(), "error", err, "tookMs", time.Since(t).Milliseconds())
		return nil, err
	}
	if audio == nil {
		s.logger.Log("generate speech returned no audio", "model", s.Name(), "tookMs", time.Since(t).Milliseconds())
		return nil, nil
	}
	s.logger.Log("generate speech response",
		"model", s.Name(),
		"mimeType", audio.MIMEType,
		"bytes", len(audio.Data),
		"tookMs", time.Since(t).Milliseconds(),
	)
	return audio, nil
}
