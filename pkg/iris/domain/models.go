package domain

import "context"

// VisionModel a multimodal text-generation model which can also look at pictures.
type VisionModel interface {
	// Name the name of the model. Useful for debugging.
	Name() string
	// DescribeImage generates a reply to `prompt` in the given `language`, taking the previous turns (`history`) into
	// account. `image` is nullable: without it, the model simply chats.
	DescribeImage(ctx context.Context, image *Image, prompt string, history []Message, language string) (string, error)
}

// SpeechModel renders text as spoken audio.
type SpeechModel interface {
	// Name the name of the model. Useful for debugging.
	Name() string
	// GenerateSpeech returns nil (and no error) if the model produced no audio.
	GenerateSpeech(ctx context.Context, text string) (*Audio, error)
}

// ImageDecoder turns raw uploaded bytes into an Image ready to be embedded into a request.
type ImageDecoder interface {
	Decode(raw []byte) (*Image, error)
}

// Player plays synthesized speech. `done` must be called exactly once, when playback ends (or fails): playback may
// finish asynchronously, for example when the audio is played by a browser.
type Player interface {
	Play(ctx context.Context, audio *Audio, done func())
}
