package common

import "strings"

func IsImageFormat(url string) bool {
	if index := strings.IndexAny(url, "?#"); index != -1 {
		url = url[:index]
	}
	url = strings.ToLower(url)
	return strings.HasSuffix(url, ".jpg") ||
		strings.HasSuffix(url, ".jpeg") ||
		strings.HasSuffix(url, ".png") ||
		strings.HasSuffix(url, ".gif") ||
		strings.HasSuffix(url, ".webp") ||
		strings.HasSuffix(url, ".bmp")
}
