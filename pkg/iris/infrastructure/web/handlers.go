package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"kgeyst.com/iris/pkg/iris/domain"
	"kgeyst.com/iris/pkg/iris/infrastructure/audio"
)

const maxJSONBodySize = 1 << 20

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodySize)).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "json_decode_error", "invalid JSON", err)
		return
	}
	// The turn belongs to the session, not to the request: reloading the page must not abort it.
	turn, err := s.api.SubmitTurn(context.WithoutCancel(r.Context()), req.Text)
	switch {
	case errors.Is(err, domain.ErrBusy):
		writeError(w, s.logger, http.StatusConflict, "busy", err.Error(), nil)
		return
	case errors.Is(err, domain.ErrEmptyTurn):
		writeError(w, s.logger, http.StatusBadRequest, "empty_turn", err.Error(), nil)
		return
	case err != nil:
		writeError(w, s.logger, http.StatusInternalServerError, "turn_error", "failed to process the turn", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Turn  turnDTO  `json:"turn"`
		State stateDTO `json:"state"`
	}{
		Turn:  toTurnDTO(turn),
		State: s.currentState(),
	})
}

func (s *Server) handleAttachImage(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readImageUpload(w, r)
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "upload_error", "failed to read the uploaded image", err)
		return
	}
	_, err = s.api.AttachImage(raw)
	if errors.Is(err, domain.ErrUnsupportedImage) {
		writeError(w, s.logger, http.StatusUnsupportedMediaType, "unsupported_image", err.Error(), nil)
		return
	}
	if err != nil {
		writeError(w, s.logger, http.StatusInternalServerError, "image_error", "failed to attach the image", err)
		return
	}
	writeJSON(w, http.StatusOK, s.currentState())
}

// readImageUpload accepts either a multipart form with an "image" field or the raw file as the request body.
func (s *Server) readImageUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	// data URIs are a third larger than the file itself
	body := http.MaxBytesReader(w, r.Body, s.maxImageSize*4/3+maxJSONBodySize)
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return io.ReadAll(body)
	}
	r.Body = body
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("multipart field \"image\": %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	return io.ReadAll(file)
}

func (s *Server) handleDetachImage(w http.ResponseWriter, _ *http.Request) {
	s.api.DetachImage()
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleClear(w http.ResponseWriter, _ *http.Request) {
	s.api.Clear()
	s.player.Finish("")
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodySize)).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "json_decode_error", "invalid JSON", err)
		return
	}
	if req.Language != nil {
		s.api.SetLanguage(*req.Language)
	}
	if req.SpeechEnabled != nil {
		s.api.SetSpeechEnabled(*req.SpeechEnabled)
	}
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleStartRecording(w http.ResponseWriter, _ *http.Request) {
	s.api.StartRecording()
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleStopRecording(w http.ResponseWriter, r *http.Request) {
	size, err := io.Copy(io.Discard, r.Body)
	if err != nil {
		s.logger.Log("recording upload interrupted", "bytes", size, "error", err)
	}
	s.api.StopRecording(size)
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handlePlaybackDone(w http.ResponseWriter, r *http.Request) {
	s.player.Finish(r.URL.Query().Get("clip"))
	writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleLatestAudio(w http.ResponseWriter, r *http.Request) {
	latest := s.api.LatestAudio()
	if latest == nil {
		writeError(w, s.logger, http.StatusNotFound, "no_audio", "nothing has been spoken yet", nil)
		return
	}
	playable := audio.ToWAV(latest)
	w.Header().Set("Content-Type", playable.MIMEType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(playable.Data)
}

func (s *Server) handleTranscript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", domain.TranscriptFileName(s.now())))
	_, _ = io.WriteString(w, s.api.ExportTranscript())
}

func (s *Server) currentState() stateDTO {
	return toStateDTO(s.api.State(), s.player.ClipID())
}
