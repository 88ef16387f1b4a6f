package web

import (
	"encoding/json"
	"net/http"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
)

type messageDTO struct {
	Role  string `json:"role"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"` // data URI
}

type stateDTO struct {
	Messages      []messageDTO `json:"messages"`
	PendingImage  string       `json:"pendingImage,omitempty"`
	Status        string       `json:"status"`
	IsLoading     bool         `json:"isLoading"`
	Recording     bool         `json:"recording"`
	Language      string       `json:"language"`
	SpeechEnabled bool         `json:"speechEnabled"`
	AudioClip     string       `json:"audioClip,omitempty"`
}

type turnDTO struct {
	User      messageDTO `json:"user"`
	Reply     messageDTO `json:"reply"`
	Failed    bool       `json:"failed"`
	Discarded bool       `json:"discarded"`
	HasAudio  bool       `json:"hasAudio"`
}

type turnRequest struct {
	Text string `json:"text"`
}

type settingsRequest struct {
	Language      *string `json:"language"`
	SpeechEnabled *bool   `json:"speechEnabled"`
}

type errorResponse struct {
	ErrorType   string `json:"error_type"`
	Description string `json:"description"`
}

func toMessageDTO(message domain.Message) messageDTO {
	dto := messageDTO{Role: string(message.Role), Text: message.Text}
	if message.Image != nil {
		dto.Image = message.Image.DataURI()
	}
	return dto
}

func toStateDTO(state domain.State, clipID string) stateDTO {
	messages := make([]messageDTO, 0, len(state.Messages))
	for _, message := range state.Messages {
		messages = append(messages, toMessageDTO(message))
	}
	dto := stateDTO{
		Messages:      messages,
		Status:        state.Status.String(),
		IsLoading:     state.Status != domain.StatusIdle,
		Recording:     state.Recording,
		Language:      state.Language,
		SpeechEnabled: state.SpeechEnabled,
	}
	if state.PendingImage != nil {
		dto.PendingImage = state.PendingImage.DataURI()
	}
	if state.Status == domain.StatusSpeaking {
		dto.AudioClip = clipID
	}
	return dto
}

func toTurnDTO(turn *domain.Turn) turnDTO {
	return turnDTO{
		User:      toMessageDTO(turn.User),
		Reply:     toMessageDTO(turn.Reply),
		Failed:    turn.Failed,
		Discarded: turn.Discarded,
		HasAudio:  turn.Audio != nil,
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, logger common.Logger, status int, errorType, description string, err error) {
	if err != nil {
		logger.Error(description, "type", errorType, "error", err)
	} else {
		logger.Log(description, "type", errorType)
	}
	writeJSON(w, status, errorResponse{
		ErrorType:   errorType,
		Description: description,
	})
}
