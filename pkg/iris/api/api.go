package api

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
	"kgeyst.com/iris/pkg/iris/infrastructure/gemini"
	"kgeyst.com/iris/pkg/iris/infrastructure/images"
	"kgeyst.com/iris/pkg/iris/infrastructure/logging"
	"kgeyst.com/iris/pkg/iris/infrastructure/metrics"
)

// See domain/config.go
const (
	ConfigKeyLanguage      = domain.ConfigKeyLanguage
	ConfigKeySpeechEnabled = domain.ConfigKeySpeechEnabled
	ConfigKeyLogPath       = domain.ConfigKeyLogPath
	ConfigKeyLogLevel      = domain.ConfigKeyLogLevel
)

// API is the entrypoint to Iris. It shouldn't contain any logic of its own; it glues all the components together
// and provides a public interface for domain.Session.
// This API can be used in various contexts: an HTTP server with a browser page, console input/output etc.
type API interface {
	// SubmitTurn sends the text (and the pending image, if any) to the model and returns the reply. If speech is
	// enabled, the reply is also read aloud by the player the API was created with.
	SubmitTurn(ctx context.Context, text string) (*domain.Turn, error)
	// AttachImage decodes an uploaded file and keeps it until the next SubmitTurn.
	AttachImage(raw []byte) (*domain.Image, error)
	// DetachImage forgets the pending image.
	DetachImage()
	// Clear forgets the whole conversation.
	Clear()
	// ExportTranscript renders the conversation as plain text, suitable for a download.
	ExportTranscript() string
	// SetLanguage changes the language the model answers in.
	SetLanguage(language string)
	// SetSpeechEnabled turns spoken replies on or off.
	SetSpeechEnabled(enabled bool)
	// StartRecording and StopRecording only toggle the recording indicator: voice input is not transcribed.
	StartRecording()
	StopRecording(recordedSize int64)
	// LatestAudio the latest spoken reply, nullable.
	LatestAudio() *domain.Audio
	State() domain.State
	// Subscribe calls `listener` after every state change. Call the returned function to unsubscribe.
	Subscribe(listener func(domain.State)) func()
}

type api struct {
	*domain.Session
}

// NewAPI connects to Gemini and builds a session whose spoken replies go to `player`. Metrics are registered with
// `registerer`. Use NewLogger for a `logger` configured the usual way, and share it with the frontend.
func NewAPI(
	ctx context.Context,
	config *common.Config,
	player domain.Player,
	logger common.Logger,
	registerer prometheus.Registerer,
) (API, error) {
	client, err := gemini.NewClient(ctx, config)
	if err != nil {
		return nil, err
	}
	return NewAPIFromModels(
		gemini.NewVisionModel(client, config),
		gemini.NewSpeechModel(client, config),
		player,
		config,
		logger,
		registerer,
	), nil
}

// NewAPIFromModels is like NewAPI, but with the models supplied by the caller. Useful for tests and for plugging in
// other model providers.
func NewAPIFromModels(
	visionModel domain.VisionModel,
	speechModel domain.SpeechModel,
	player domain.Player,
	config *common.Config,
	logger common.Logger,
	registerer prometheus.Registerer,
) API {
	modelMetrics := metrics.NewMetrics(registerer)
	session := domain.NewSession(
		logging.NewVisionModelDecorator(modelMetrics.NewVisionModelDecorator(visionModel), logger),
		logging.NewSpeechModelDecorator(modelMetrics.NewSpeechModelDecorator(speechModel), logger),
		images.NewDecoder(config),
		player,
		config,
		logger,
	)
	modelMetrics.ObserveSession(session)
	return &api{Session: session}
}

// NewLogger the logger configured by ConfigKeyLogPath and ConfigKeyLogLevel.
func NewLogger(config *common.Config) common.Logger {
	return common.NewFileLogger(
		config.GetStringOrDefault(ConfigKeyLogPath, "log.txt"),
		config.GetStringOrDefault(ConfigKeyLogLevel, "info"),
	)
}
