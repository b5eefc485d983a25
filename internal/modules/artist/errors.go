package artist

import (
	"errors"
	"sort"
	"strings"

	"artisthub/internal/pkg/imagecodec"
)

var (
	ErrNotFound      = errors.New("artist not found")
	ErrForbidden     = errors.New("not the owner of this artist profile")
	ErrProfileExists = errors.New("artist profile already exists")
	ErrStorage       = errors.New("storage error")

	ErrInvalidImageFormat = imagecodec.ErrInvalidImageFormat
	ErrBase64Decode       = imagecodec.ErrBase64Decode
)

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ImageError reports which image field could not be decoded.
type ImageError struct {
	Field string
	Err   error
}

func (e *ImageError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *ImageError) Unwrap() error { return e.Err }
