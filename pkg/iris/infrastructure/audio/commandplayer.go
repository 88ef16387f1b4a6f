package audio

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
)

const ConfigKeyPlayerCommand = "playerCommand"

type TempFilePathProvider interface {
	GetTempFilePath(fileName string) string
}

// CommandPlayer plays audio by writing it to a temporary WAV file and running an external player (afplay, aplay,
// ffplay -nodisp -autoexit etc.).
type CommandPlayer struct {
	running              sync.WaitGroup
	command              []string
	tempFilePathProvider TempFilePathProvider
	logger               common.Logger
}

func NewCommandPlayer(tempFilePathProvider TempFilePathProvider, config *common.Config, logger common.Logger) *CommandPlayer {
	return &CommandPlayer{
		command:              strings.Fields(config.GetStringOrDefault(ConfigKeyPlayerCommand, defaultPlayerCommand())),
		tempFilePathProvider: tempFilePathProvider,
		logger:               logger,
	}
}

func defaultPlayerCommand() string {
	if runtime.GOOS == "darwin" {
		return "afplay"
	}
	return "aplay -q"
}

// Play starts the player command and returns immediately; `done` is called from a separate goroutine once the
// command exits. Cancelling `ctx` kills the command.
func (c *CommandPlayer) Play(ctx context.Context, audio *domain.Audio, done func()) {
	if len(c.command) == 0 {
		done()
		return
	}
	filePath := c.tempFilePathProvider.GetTempFilePath("speech_" + uuid.NewString() + ".wav")
	err := os.WriteFile(filePath, ToWAV(audio).Data, 0600)
	if err != nil {
		c.logger.Error("failed to save speech", "path", filePath, "error", err)
		done()
		return
	}
	args := append(append([]string{}, c.command[1:]...), filePath)
	cmd := exec.CommandContext(ctx, c.command[0], args...)
	cmd.Stderr = os.Stderr
	c.running.Add(1)
	go func() {
		defer c.running.Done()
		defer done()
		defer func() {
			_ = os.Remove(filePath)
		}()
		err := cmd.Run()
		if err != nil {
			c.logger.Error("failed to play speech", "command", c.command[0], "error", err)
		}
	}()
}

// Wait blocks until every started playback has finished.
func (c *CommandPlayer) Wait() {
	c.running.Wait()
}
