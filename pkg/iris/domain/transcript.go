package domain

import (
	"strings"
	"time"
)

// FormatTranscript renders messages as "ROLE: text" blocks separated by a blank line. Images and audio are left out.
func FormatTranscript(messages []Message) string {
	blocks := make([]string, 0, len(messages))
	for _, message := range messages {
		blocks = append(blocks, strings.ToUpper(string(message.Role))+": "+message.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// TranscriptFileName the suggested file name for a transcript downloaded at `now`.
func TranscriptFileName(now time.Time) string {
	return "iris-transcript-" + now.Format("2006-01-02") + ".txt"
}
