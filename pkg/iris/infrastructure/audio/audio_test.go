package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
)

func TestToWAVWrapsPCM(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	wav := ToWAV(&domain.Audio{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: pcm})

	assert.Equal(t, "audio/wav", wav.MIMEType)
	require.Len(t, wav.Data, wavHeaderSize+len(pcm))
	assert.Equal(t, "RIFF", string(wav.Data[0:4]))
	assert.Equal(t, "WAVE", string(wav.Data[8:12]))
	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(wav.Data[4:8]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav.Data[22:24]), "mono")
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav.Data[24:28]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav.Data[28:32]), "byte rate")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav.Data[34:36]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(wav.Data[40:44]))
	assert.Equal(t, pcm, wav.Data[44:])
}

func TestToWAVKeepsEncodedAudio(t *testing.T) {
	mp3 := &domain.Audio{MIMEType: "audio/mpeg", Data: []byte("ID3")}
	assert.Same(t, mp3, ToWAV(mp3))
}

type dirProvider struct{ dir string }

func (d dirProvider) GetTempFilePath(fileName string) string {
	return filepath.Join(d.dir, fileName)
}

func TestCommandPlayerRunsCommandAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	player := NewCommandPlayer(
		dirProvider{dir: dir},
		common.NewConfig(map[string]any{ConfigKeyPlayerCommand: "test -s"}),
		common.NewWriterLogger(&logs, "info"),
	)
	calls := 0

	player.Play(context.Background(), &domain.Audio{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: []byte{0, 0}}, func() { calls++ })
	player.Wait()

	assert.Equal(t, 1, calls)
	assert.NotContains(t, logs.String(), "failed")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "the temporary file is removed after playback")
}

func TestCommandPlayerReportsDoneOnFailure(t *testing.T) {
	var logs bytes.Buffer
	player := NewCommandPlayer(
		dirProvider{dir: t.TempDir()},
		common.NewConfig(map[string]any{ConfigKeyPlayerCommand: "false"}),
		common.NewWriterLogger(&logs, "info"),
	)
	calls := 0

	player.Play(context.Background(), &domain.Audio{MIMEType: "audio/wav", Data: []byte("RIFF")}, func() { calls++ })
	player.Wait()

	assert.Equal(t, 1, calls)
	assert.Contains(t, logs.String(), "failed to play speech")
}

// writeBlockingPlayer creates a player script which only exits once the returned release function is called.
func writeBlockingPlayer(t *testing.T) (string, func()) {
	t.Helper()
	dir := t.TempDir()
	releasePath := filepath.Join(dir, "release")
	scriptPath := filepath.Join(dir, "player.sh")
	script := "#!/bin/sh\nwhile [ ! -f " + releasePath + " ]; do sleep 0.01; done\n"
	require.NoError(t, os.WriteFile(scriptPath, []byte(script), 0755))
	return scriptPath, func() {
		require.NoError(t, os.WriteFile(releasePath, nil, 0644))
	}
}

func TestCommandPlayerReturnsBeforePlaybackEnds(t *testing.T) {
	command, release := writeBlockingPlayer(t)
	player := NewCommandPlayer(
		dirProvider{dir: t.TempDir()},
		common.NewConfig(map[string]any{ConfigKeyPlayerCommand: command}),
		common.NewNopLogger(),
	)
	finished := make(chan struct{})

	player.Play(context.Background(), &domain.Audio{MIMEType: "audio/wav", Data: []byte("RIFF")}, func() { close(finished) })

	select {
	case <-finished:
		t.Fatal("playback finished before the player exited")
	case <-time.After(50 * time.Millisecond):
	}
	release()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("playback never finished")
	}
}

func TestCommandPlayerStopsWhenContextIsCancelled(t *testing.T) {
	command, _ := writeBlockingPlayer(t)
	player := NewCommandPlayer(
		dirProvider{dir: t.TempDir()},
		common.NewConfig(map[string]any{ConfigKeyPlayerCommand: command}),
		common.NewNopLogger(),
	)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	player.Play(ctx, &domain.Audio{MIMEType: "audio/wav", Data: []byte("RIFF")}, func() { calls++ })
	cancel()
	player.Wait()

	assert.Equal(t, 1, calls)
}
