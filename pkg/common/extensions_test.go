package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImageFormat(t *testing.T) {
	assert.True(t, IsImageFormat("https://example.com/cat.JPG"))
	assert.True(t, IsImageFormat("https://example.com/cat.webp?size=large"))
	assert.True(t, IsImageFormat("/tmp/photo.png"))
	assert.False(t, IsImageFormat("https://example.com/index.html"))
	assert.False(t, IsImageFormat("https://example.com/png"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "héllo...", Truncate("héllo wörld", 5))
}
