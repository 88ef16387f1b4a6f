package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
)

// Formats the model accepts as is. Everything else we can decode is converted to PNG first.
var passThroughFormats = []string{"jpeg", "png", "webp"}

type Decoder struct {
	maxSize int
}

func NewDecoder(config *common.Config) *Decoder {
	return &Decoder{
		maxSize: config.GetIntOrDefault(domain.ConfigKeyMaxImageSize, domain.DefaultMaxImageSize),
	}
}

// Decode accepts raw file bytes or a "data:" URI, checks that it's really a picture and returns an Image ready to be
// embedded into a request. The error always wraps domain.ErrUnsupportedImage.
func (d *Decoder) Decode(raw []byte) (*domain.Image, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrUnsupportedImage)
	}
	if bytes.HasPrefix(raw, []byte("data:")) {
		parsed, err := domain.ParseDataURI(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
		}
		raw = parsed.Data
	}
	if len(raw) > d.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds the limit of %d bytes", domain.ErrUnsupportedImage, len(raw), d.maxSize)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}
	if common.IsStringInSlice(format, passThroughFormats) {
		return &domain.Image{MIMEType: "image/" + format, Data: raw}, nil
	}
	return convertToPNG(raw)
}

func convertToPNG(raw []byte) (*domain.Image, error) {
	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, decoded); err != nil {
		return nil, fmt.Errorf("convert to png: %w", err)
	}
	return &domain.Image{MIMEType: "image/png", Data: buffer.Bytes()}, nil
}
