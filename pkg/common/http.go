package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ReadAllFromURL reads all content from the URL, but no more than `maxBytes` (dynamic pages can stream forever).
func ReadAllFromURL(ctx context.Context, url string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, res.StatusCode)
	}
	content, err := io.ReadAll(io.LimitReader(res.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > maxBytes {
		return nil, fmt.Errorf("GET %s: content exceeds %d bytes", url, maxBytes)
	}
	return content, nil
}
