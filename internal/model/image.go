package model

import (
	"encoding/base64"
	"strings"
)

// ImageRef points at an outfit photo, either a data URL or a remote URL.
type ImageRef struct {
	URL string `json:"url"`
}

// NewImageRef returns nil for an empty url.
func NewImageRef(url string) *ImageRef {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	return &ImageRef{URL: url}
}

// IsDataURL reports whether the image is inlined as a data URL.
func (i ImageRef) IsDataURL() bool {
	return strings.HasPrefix(i.URL, "data:")
}

// DataURL splits a base64 data URL into media type and payload.
func (i ImageRef) DataURL() (mediaType, data string, ok bool) {
	if !i.IsDataURL() {
		return "", "", false
	}
	header, payload, found := strings.Cut(strings.TrimPrefix(i.URL, "data:"), ",")
	if !found {
		return "", "", false
	}
	mediaType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" || !strings.HasPrefix(mediaType, "image/") {
		return "", "", false
	}
	return mediaType, payload, true
}

// Valid reports whether the reference is a usable image location.
func (i ImageRef) Valid() bool {
	if i.IsDataURL() {
		_, data, ok := i.DataURL()
		return ok && data != ""
	}
	return strings.HasPrefix(i.URL, "https://") || strings.HasPrefix(i.URL, "http://")
}

// EncodeDataURL inlines raw image bytes as a base64 data URL.
func EncodeDataURL(mediaType string, b []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(b)
}
