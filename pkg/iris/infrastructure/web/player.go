package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
)

const ConfigKeyPlaybackGrace = "playbackGrace"

// Player hands speech over to the browser: the page downloads the latest clip, plays it and reports the end of
// playback. If the page never reports back (closed tab etc.), playback is considered finished once the clip's
// duration plus a grace period has elapsed, so the session doesn't stay "speaking" forever.
type Player struct {
	mutex  sync.Mutex
	clipID string
	done   func()
	timer  *time.Timer
	grace  time.Duration
}

func NewPlayer(config *common.Config) *Player {
	return &Player{
		grace: config.GetDurationOrDefault(ConfigKeyPlaybackGrace, 30*time.Second),
	}
}

func (p *Player) Play(_ context.Context, audio *domain.Audio, done func()) {
	p.mutex.Lock()
	previousDone := p.resetLocked()
	clipID := uuid.NewString()
	p.clipID = clipID
	p.done = done
	p.timer = time.AfterFunc(audio.Duration()+p.grace, func() {
		p.Finish(clipID)
	})
	p.mutex.Unlock()
	if previousDone != nil {
		previousDone()
	}
}

// Finish reports the end of playback of the given clip. An empty `clipID` finishes whatever is playing.
// Returns false if nothing was playing (or the clip is not the current one).
func (p *Player) Finish(clipID string) bool {
	p.mutex.Lock()
	if p.done == nil || (clipID != "" && clipID != p.clipID) {
		p.mutex.Unlock()
		return false
	}
	done := p.resetLocked()
	p.mutex.Unlock()
	done()
	return true
}

// ClipID identifies the clip being played; empty if nothing is playing.
func (p *Player) ClipID() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.done == nil {
		return ""
	}
	return p.clipID
}

func (p *Player) resetLocked() func() {
	done := p.done
	if p.timer != nil {
		p.timer.Stop()
	}
	p.done = nil
	p.timer = nil
	return done
}
