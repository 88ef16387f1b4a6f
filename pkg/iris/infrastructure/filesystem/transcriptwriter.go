package filesystem

import (
	"os"
	"path/filepath"
	"time"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
)

const ConfigKeyTranscriptDirectory = "transcriptDirectory"

// TranscriptWriter saves exported transcripts to disk (the console's counterpart of a browser download).
type TranscriptWriter struct {
	directory string
	now       func() time.Time
}

func NewTranscriptWriter(config *common.Config) *TranscriptWriter {
	return &TranscriptWriter{
		directory: config.GetStringOrDefault(ConfigKeyTranscriptDirectory, "."),
		now:       time.Now,
	}
}

// Write saves `transcript` to `path`, or to a dated file in the transcript directory if `path` is empty.
// Returns the path written to.
func (t *TranscriptWriter) Write(path, transcript string) (string, error) {
	if path == "" {
		path = filepath.Join(t.directory, domain.TranscriptFileName(t.now()))
	}
	err := os.WriteFile(path, []byte(transcript), 0644)
	if err != nil {
		return "", err
	}
	return path, nil
}
