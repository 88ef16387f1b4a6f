package audio

import (
	"encoding/binary"

	"kgeyst.com/iris/pkg/iris/domain"
)

const (
	wavHeaderSize = 44
	bitsPerSample = 16
	channels      = 1
)

// ToWAV returns audio which can be played by browsers and command-line players. Headerless PCM from the speech
// model is wrapped in a WAV container; anything else is returned as is.
func ToWAV(audio *domain.Audio) *domain.Audio {
	if !audio.IsPCM() {
		return audio
	}
	return &domain.Audio{
		MIMEType: "audio/wav",
		Data:     WrapPCMAsWAV(audio.Data, audio.SampleRate(), channels, bitsPerSample),
	}
}

// WrapPCMAsWAV wraps raw little-endian PCM samples in a WAV header.
func WrapPCMAsWAV(pcmData []byte, sampleRate, channels, bitsPerSample int) []byte {
	dataSize := len(pcmData)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	wav := make([]byte, wavHeaderSize+dataSize)

	copy(wav[0:4], "RIFF")
	binary.LittleEndian.PutUint32(wav[4:8], uint32(36+dataSize))
	copy(wav[8:12], "WAVE")

	copy(wav[12:16], "fmt ")
	binary.LittleEndian.PutUint32(wav[16:20], 16) // PCM
	binary.LittleEndian.PutUint16(wav[20:22], 1)  // linear quantization
	binary.LittleEndian.PutUint16(wav[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(wav[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(wav[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(wav[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(wav[34:36], uint16(bitsPerSample))

	copy(wav[36:40], "data")
	binary.LittleEndian.PutUint32(wav[40:44], uint32(dataSize))
	copy(wav[44:], pcmData)

	return wav
}
