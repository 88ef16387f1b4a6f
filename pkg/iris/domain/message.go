package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  = Role("user")
	RoleModel = Role("model")
)

// Image an encoded bitmap (PNG, JPEG etc.) as uploaded by the user.
type Image struct {
	MIMEType string
	Data     []byte
}

// DataURI renders the image as an embeddable "data:" URI.
func (i *Image) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ParseDataURI is the inverse of Image.DataURI: it strips the "data:<mime>;base64," prefix and decodes the payload.
func ParseDataURI(uri string) (*Image, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, errors.New("not a data URI")
	}
	header, payload, found := strings.Cut(uri[len("data:"):], ",")
	if !found {
		return nil, errors.New("malformed data URI")
	}
	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, errors.New("data URI is not base64-encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	return &Image{MIMEType: mimeType, Data: data}, nil
}

// Audio encoded speech as returned by the speech model. Gemini returns raw 16-bit PCM, described by a MIME type
// such as "audio/L16;codec=pcm;rate=24000".
type Audio struct {
	MIMEType string
	Data     []byte
}

const defaultSampleRate = 24000

// SampleRate extracts the "rate" parameter from the MIME type (24000 if absent).
func (a *Audio) SampleRate() int {
	for _, param := range strings.Split(a.MIMEType, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || key != "rate" {
			continue
		}
		rate, err := strconv.Atoi(value)
		if err == nil && rate > 0 {
			return rate
		}
	}
	return defaultSampleRate
}

// IsPCM tells if the payload is headerless 16-bit PCM.
func (a *Audio) IsPCM() bool {
	mimeType := strings.ToLower(a.MIMEType)
	return strings.HasPrefix(mimeType, "audio/l16") || strings.Contains(mimeType, "codec=pcm")
}

// Duration the playback length of PCM audio (mono, 16 bit). Zero for other encodings.
func (a *Audio) Duration() time.Duration {
	if !a.IsPCM() {
		return 0
	}
	bytesPerSecond := a.SampleRate() * 2
	return time.Duration(len(a.Data)) * time.Second / time.Duration(bytesPerSecond)
}

// Message one entry of the conversation. Messages are never modified after they are appended.
type Message struct {
	Role  Role
	Text  string
	Image *Image // nullable
	Audio *Audio // nullable
}

func NewUserMessage(text string, image *Image) Message {
	return Message{Role: RoleUser, Text: text, Image: image}
}

func NewModelMessage(text string) Message {
	return Message{Role: RoleModel, Text: text}
}
