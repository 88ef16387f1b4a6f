package domain

import (
	"context"
	"strings"
	"sync"
	"time"

	"kgeyst.com/iris/pkg/common"
)

const (
	// DefaultPrompt is sent when the user attaches an image without typing anything.
	DefaultPrompt = "Describe this image in detail."
	// FallbackReply replaces an empty reply from the model.
	FallbackReply = "I'm sorry, I couldn't generate a response."
	// ErrorReply is shown instead of a reply when the model call fails.
	ErrorReply = "Sorry, something went wrong while analyzing your request. Please try again."
)

// State a snapshot of everything a frontend needs to render the chat.
type State struct {
	Messages      []Message
	PendingImage  *Image // nullable
	Status        Status
	Recording     bool
	Language      string
	SpeechEnabled bool
}

// Turn the outcome of Session.SubmitTurn.
type Turn struct {
	User  Message
	Reply Message
	// Audio the synthesized reply, if speech is enabled and the speech model returned anything.
	Audio *Audio
	// Failed the vision model call failed; Reply carries ErrorReply.
	Failed bool
	// Discarded the session was cleared while the turn was in flight, so nothing was appended.
	Discarded bool
}

// Session owns the state of a single chat: the conversation, the pending image, the status and user settings.
// It sequences the remote calls of a turn and makes sure only one turn is in flight at a time.
// The mutex is never held during remote calls, so the state can be rendered while the model is working.
type Session struct {
	mutex          sync.Mutex
	conversation   *Conversation
	pendingImage   *Image
	status         Status
	recording      bool
	language       string
	speechEnabled  bool
	latestAudio    *Audio
	generation     int // bumped by every turn and by Clear; late callbacks compare against it
	listeners      map[int]func(State)
	nextListenerID int
	visionModel    VisionModel
	speechModel    SpeechModel
	imageDecoder   ImageDecoder
	player         Player
	logger         common.Logger
	requestTimeout time.Duration
}

func NewSession(
	visionModel VisionModel,
	speechModel SpeechModel,
	imageDecoder ImageDecoder,
	player Player,
	config *common.Config,
	logger common.Logger,
) *Session {
	return &Session{
		conversation:   NewConversation(),
		language:       config.GetStringOrDefault(ConfigKeyLanguage, DefaultLanguage),
		speechEnabled:  config.GetBoolOrDefault(ConfigKeySpeechEnabled, true),
		listeners:      make(map[int]func(State)),
		visionModel:    visionModel,
		speechModel:    speechModel,
		imageDecoder:   imageDecoder,
		player:         player,
		logger:         logger,
		requestTimeout: config.GetDurationOrDefault(ConfigKeyRequestTimeout, 0),
	}
}

// SubmitTurn sends `text` together with the pending image (if any) to the vision model and appends both the user
// message and the reply to the conversation. If speech is enabled, the reply is then synthesized and handed to the
// player; the session stays in StatusSpeaking until the player reports the end of playback.
// Returns ErrEmptyTurn if there's neither text nor a pending image, and ErrBusy if a turn is in progress.
// A failing vision model is not an error: the turn is completed with ErrorReply.
func (s *Session) SubmitTurn(ctx context.Context, text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	s.mutex.Lock()
	if s.status != StatusIdle {
		s.mutex.Unlock()
		return nil, ErrBusy
	}
	image := s.pendingImage
	if text == "" && image == nil {
		s.mutex.Unlock()
		return nil, ErrEmptyTurn
	}
	history := s.conversation.Messages()
	turn := &Turn{User: NewUserMessage(text, image)}
	s.conversation.Append(turn.User)
	s.pendingImage = nil
	s.status = StatusAnalyzing
	s.generation++
	generation := s.generation
	language := s.language
	speechEnabled := s.speechEnabled
	s.mutex.Unlock()
	s.notify()

	prompt := text
	if prompt == "" {
		prompt = DefaultPrompt
	}
	reply, err := s.describe(ctx, image, prompt, history, language)
	if err != nil {
		s.logger.Error("vision model failed", "model", s.visionModel.Name(), "error", err)
		turn.Reply = NewModelMessage(ErrorReply)
		turn.Failed = true
		turn.Discarded = !s.completeTurn(generation, turn.Reply, StatusIdle)
		return turn, nil
	}
	if strings.TrimSpace(reply) == "" {
		reply = FallbackReply
	}
	turn.Reply = NewModelMessage(reply)
	if !speechEnabled {
		turn.Discarded = !s.completeTurn(generation, turn.Reply, StatusIdle)
		return turn, nil
	}
	if !s.completeTurn(generation, turn.Reply, StatusSpeaking) {
		turn.Discarded = true
		return turn, nil
	}
	audio, err := s.speak(ctx, reply)
	if err != nil {
		s.logger.Error("speech model failed", "model", s.speechModel.Name(), "error", err)
	}
	if audio == nil {
		s.finishSpeaking(generation)
		return turn, nil
	}
	turn.Audio = audio
	turn.Reply.Audio = audio
	s.mutex.Lock()
	if s.generation != generation {
		s.mutex.Unlock()
		return turn, nil
	}
	s.latestAudio = audio
	s.mutex.Unlock()
	var once sync.Once
	s.player.Play(ctx, audio, func() {
		once.Do(func() { s.finishSpeaking(generation) })
	})
	return turn, nil
}

// Clear forgets the conversation and the pending image and returns to StatusIdle, whatever the current state is.
// A turn which is still in flight completes silently without touching the new conversation.
func (s *Session) Clear() {
	s.mutex.Lock()
	s.conversation.Clear()
	s.pendingImage = nil
	s.latestAudio = nil
	s.status = StatusIdle
	s.recording = false
	s.generation++
	s.mutex.Unlock()
	s.notify()
}

// AttachImage decodes an uploaded file and makes it the pending image, replacing the previous one.
func (s *Session) AttachImage(raw []byte) (*Image, error) {
	image, err := s.imageDecoder.Decode(raw)
	if err != nil {
		return nil, err
	}
	s.mutex.Lock()
	s.pendingImage = image
	s.mutex.Unlock()
	s.notify()
	return image, nil
}

// DetachImage drops the pending image.
func (s *Session) DetachImage() {
	s.mutex.Lock()
	s.pendingImage = nil
	s.mutex.Unlock()
	s.notify()
}

// ExportTranscript see FormatTranscript.
func (s *Session) ExportTranscript() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return FormatTranscript(s.conversation.Messages())
}

func (s *Session) SetLanguage(language string) {
	language = strings.TrimSpace(language)
	if language == "" {
		return
	}
	s.mutex.Lock()
	s.language = language
	s.mutex.Unlock()
	s.notify()
}

func (s *Session) SetSpeechEnabled(enabled bool) {
	s.mutex.Lock()
	s.speechEnabled = enabled
	s.mutex.Unlock()
	s.notify()
}

// StartRecording only raises the recording flag: voice input is not transcribed.
func (s *Session) StartRecording() {
	s.setRecording(true)
}

// StopRecording lowers the recording flag. The recording itself is discarded; only its size is logged.
func (s *Session) StopRecording(recordedSize int64) {
	s.logger.Log("recording discarded", "bytes", recordedSize)
	s.setRecording(false)
}

// LatestAudio the audio of the latest spoken reply (nullable).
func (s *Session) LatestAudio() *Audio {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.latestAudio
}

func (s *Session) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stateLocked()
}

// Subscribe registers a listener which receives a fresh State after every change. The listener is called outside
// the session's lock. Call the returned function to unsubscribe.
func (s *Session) Subscribe(listener func(State)) func() {
	s.mutex.Lock()
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = listener
	s.mutex.Unlock()
	return func() {
		s.mutex.Lock()
		delete(s.listeners, id)
		s.mutex.Unlock()
	}
}

func (s *Session) describe(ctx context.Context, image *Image, prompt string, history []Message, language string) (string, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.visionModel.DescribeImage(ctx, image, prompt, history, language)
}

func (s *Session) speak(ctx context.Context, text string) (*Audio, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.speechModel.GenerateSpeech(ctx, text)
}

func (s *Session) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

// completeTurn appends the reply and switches the status, unless the session was cleared in the meantime.
func (s *Session) completeTurn(generation int, reply Message, status Status) bool {
	s.mutex.Lock()
	if s.generation != generation {
		s.mutex.Unlock()
		s.logger.Log("turn discarded: session was cleared")
		return false
	}
	s.conversation.Append(reply)
	s.status = status
	s.mutex.Unlock()
	s.notify()
	return true
}

func (s *Session) finishSpeaking(generation int) {
	s.mutex.Lock()
	if s.generation != generation || s.status != StatusSpeaking {
		s.mutex.Unlock()
		return
	}
	s.status = StatusIdle
	s.mutex.Unlock()
	s.notify()
}

func (s *Session) setRecording(recording bool) {
	s.mutex.Lock()
	s.recording = recording
	s.mutex.Unlock()
	s.notify()
}

func (s *Session) stateLocked() State {
	return State{
		Messages:      s.conversation.Messages(),
		PendingImage:  s.pendingImage,
		Status:        s.status,
		Recording:     s.recording,
		Language:      s.language,
		SpeechEnabled: s.speechEnabled,
	}
}

func (s *Session) notify() {
	s.mutex.Lock()
	if len(s.listeners) == 0 {
		s.mutex.Unlock()
		return
	}
	state := s.stateLocked()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, listener := range s.listeners {
		listeners = append(listeners, listener)
	}
	s.mutex.Unlock()
	for _, listener := range listeners {
		listener(state)
	}
}
