package images

import (
	"context"
	"os"
	"strings"

	"github.com/mvdan/xurls"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/domain"
)

// Loader reads an image referenced by a local path or a URL, as typed in the console.
type Loader struct {
	maxSize int64
}

func NewLoader(config *common.Config) *Loader {
	return &Loader{
		maxSize: int64(config.GetIntOrDefault(domain.ConfigKeyMaxImageSize, domain.DefaultMaxImageSize)),
	}
}

func (l *Loader) Load(ctx context.Context, reference string) ([]byte, error) {
	reference = strings.TrimSpace(reference)
	if url := FindURL(reference); url != "" {
		return common.ReadAllFromURL(ctx, url, l.maxSize)
	}
	return os.ReadFile(reference)
}

// FindURL returns the first http(s) URL found in `str`, preferring one which points at an image file. Returns an
// empty string if there's no URL.
func FindURL(str string) string {
	found := ""
	for _, url := range xurls.Strict.FindAllString(str, -1) {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			continue
		}
		if common.IsImageFormat(url) {
			return url
		}
		if found == "" {
			found = url
		}
	}
	return found
}
