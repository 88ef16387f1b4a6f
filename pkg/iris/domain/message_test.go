package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageDataURI(t *testing.T) {
	image := &Image{MIMEType: "image/png", Data: []byte("png")}

	uri := image.DataURI()
	assert.Equal(t, "data:image/png;base64,cG5n", uri)

	parsed, err := ParseDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, image, parsed)
}

func TestParseDataURIRejectsMalformedInput(t *testing.T) {
	for _, uri := range []string{
		"image/png;base64,cG5n",
		"data:image/png;base64",
		"data:image/png,plain",
		"data:image/png;base64,***",
	} {
		_, err := ParseDataURI(uri)
		assert.Error(t, err, uri)
	}
}

func TestAudioDuration(t *testing.T) {
	audio := &Audio{MIMEType: "audio/L16;codec=pcm;rate=16000", Data: make([]byte, 32000)}
	assert.True(t, audio.IsPCM())
	assert.Equal(t, 16000, audio.SampleRate())
	assert.Equal(t, time.Second, audio.Duration())

	audio = &Audio{MIMEType: "audio/L16;codec=pcm", Data: make([]byte, 24000)}
	assert.Equal(t, defaultSampleRate, audio.SampleRate())
	assert.Equal(t, 500*time.Millisecond, audio.Duration())

	audio = &Audio{MIMEType: "audio/mpeg", Data: make([]byte, 24000)}
	assert.False(t, audio.IsPCM())
	assert.Zero(t, audio.Duration())
}

func TestFormatTranscriptSkipsMedia(t *testing.T) {
	messages := []Message{
		NewUserMessage("what is this?", &Image{MIMEType: "image/png", Data: []byte{1}}),
		{Role: RoleModel, Text: "A cat.", Audio: &Audio{MIMEType: "audio/wav"}},
	}
	assert.Equal(t, "USER: what is this?\n\nMODEL: A cat.", FormatTranscript(messages))
	assert.Equal(t, "", FormatTranscript(nil))
}
