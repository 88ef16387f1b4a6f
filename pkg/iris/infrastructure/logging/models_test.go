package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
)

type stubVisionModel struct {
	reply string
	err   error
}

func (s stubVisionModel) Name() string { return "stub-vision" }

func (s stubVisionModel) DescribeImage(context.Context, *domain.Image, string, []domain.Message, string) (string, error) {
	return s.reply, s.err
}

type stubSpeechModel struct {
	audio *domain.Audio
	err   error
}

func (s stubSpeechModel) Name() string { return "stub-speech" }

func (s stubSpeechModel) GenerateSpeech(context.Context, string) (*domain.Audio, error) {
	return s.audio, s.err
}

func TestVisionModelDecoratorLogsPromptAndResponse(t *testing.T) {
	var buffer bytes.Buffer
	model := NewVisionModelDecorator(stubVisionModel{reply: "a cat"}, common.NewWriterLogger(&buffer, "info"))

	reply, err := model.DescribeImage(context.Background(), &domain.Image{Data: []byte{1, 2}}, "what?", nil, "English")
	require.NoError(t, err)

	assert.Equal(t, "a cat", reply)
	assert.Equal(t, "stub-vision", model.Name())
	assert.Contains(t, buffer.String(), "imageBytes=2")
	assert.Contains(t, buffer.String(), `response="a cat"`)
}

func TestVisionModelDecoratorPassesErrorsThrough(t *testing.T) {
	var buffer bytes.Buffer
	upstream := errors.New("unavailable")
	model := NewVisionModelDecorator(stubVisionModel{err: upstream}, common.NewWriterLogger(&buffer, "info"))

	_, err := model.DescribeImage(context.Background(), nil, "what?", nil, "English")

	assert.ErrorIs(t, err, upstream)
	assert.Contains(t, buffer.String(), "level=ERROR")
}

func TestSpeechModelDecorator(t *testing.T) {
	var buffer bytes.Buffer
	audio := &domain.Audio{MIMEType: "audio/wav", Data: []byte("RIFF")}
	model := NewSpeechModelDecorator(stubSpeechModel{audio: audio}, common.NewWriterLogger(&buffer, "info"))

	result, err := model.GenerateSpeech(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, audio, result)
	assert.Contains(t, buffer.String(), "bytes=4")

	model = NewSpeechModelDecorator(stubSpeechModel{}, common.NewWriterLogger(&buffer, "info"))
	result, err = model.GenerateSpeech(context.Background(), "hello")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Contains(t, buffer.String(), "no audio")
}
