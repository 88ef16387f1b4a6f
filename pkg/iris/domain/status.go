package domain

type Status int

const (
	StatusIdle = Status(iota)
	// StatusAnalyzing the text/vision model is working on the reply
	StatusAnalyzing
	// StatusSpeaking the reply is being synthesized or played back
	StatusSpeaking
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusAnalyzing:
		return "analyzing"
	case StatusSpeaking:
		return "speaking"
	default:
		return "unknown"
	}
}
