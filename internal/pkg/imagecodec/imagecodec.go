// Package imagecodec turns inline data URIs and already-read uploads into
// image bytes plus a file extension, and names them for the blob store.
package imagecodec

import (
	"encoding/base64"
	"errors"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidImageFormat = errors.New("invalid image data")
	ErrBase64Decode       = errors.New("base64 decode failed")
)

var dataURIPrefix = regexp.MustCompile(`^data:image/(\w+);base64,`)

type Image struct {
	Data      []byte
	Extension string
}

// DecodeDataURI parses "data:image/<ext>;base64,<payload>".
// Spaces in the payload are read as '+', which some transports mangle.
func DecodeDataURI(s string) (*Image, error) {
	m := dataURIPrefix.FindStringSubmatch(s)
	if m == nil {
		return nil, ErrInvalidImageFormat
	}

	payload := strings.ReplaceAll(s[len(m[0]):], " ", "+")
	data, err := decodeBase64(payload)
	if err != nil || len(data) == 0 {
		return nil, ErrBase64Decode
	}

	return &Image{Data: data, Extension: strings.ToLower(m[1])}, nil
}

// FromUpload wraps bytes that were already read and type-checked by the
// multipart path.
func FromUpload(data []byte, extension string) *Image {
	return &Image{Data: data, Extension: strings.TrimPrefix(strings.ToLower(extension), ".")}
}

// Name returns "{folder}/{uuid}.{ext}".
func (img *Image) Name(folder string) string {
	return NewName(folder, img.Extension)
}

func NewName(folder, extension string) string {
	extension = strings.TrimPrefix(extension, ".")
	return path.Join(folder, uuid.NewString()+"."+extension)
}

func decodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	// tolerate payloads that dropped their '=' padding
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}
